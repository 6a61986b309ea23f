package order

import "errors"

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStatus          = errors.New("invalid status value")
	ErrInvalidTransition      = errors.New("status transition not allowed")
	ErrInvalidShippingAddress = errors.New("shipping address is required")

	// ErrStoreBusy is transient contention; the client may retry.
	ErrStoreBusy = errors.New("store busy, retry later")
	// ErrTransactionFailed is any other failure inside a transaction.
	ErrTransactionFailed = errors.New("transaction failed")
)
