package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"serialization", &pq.Error{Code: CodeSerializationFailure}, true},
		{"deadlock", &pq.Error{Code: CodeDeadlockDetected}, true},
		{"lock timeout", fmt.Errorf("lock: %w", &pq.Error{Code: CodeLockNotAvailable}), true},
		{"statement timeout", &pq.Error{Code: CodeQueryCanceled}, true},
		{"unique", &pq.Error{Code: CodeUniqueViolation}, false},
		{"check", &pq.Error{Code: CodeCheckViolation}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestConstraintHelpers(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: CodeUniqueViolation}))
	assert.False(t, IsUniqueViolation(errors.New("x")))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("wrap: %w", &pq.Error{Code: CodeForeignKeyViolation})))
	assert.True(t, IsCheckViolation(&pq.Error{Code: CodeCheckViolation}))
}
