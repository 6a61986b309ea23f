package db

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the application cares about.
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
	CodeQueryCanceled        = "57014"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsRetryable reports whether err is transient contention that a client may
// retry. Constraint violations and everything else are fatal to the request.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch pqCode(err) {
	case CodeSerializationFailure, CodeDeadlockDetected, CodeLockNotAvailable, CodeQueryCanceled:
		return true
	}
	return false
}

func IsUniqueViolation(err error) bool {
	return pqCode(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == CodeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return pqCode(err) == CodeCheckViolation
}
