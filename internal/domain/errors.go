package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource (collection, item, tenant, database).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource creation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals a client-side contract violation detected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrVectorDimMismatch signals a vector whose length differs from the collection dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrConnection signals an unreachable server or a request that timed out.
	ErrConnection = errors.New("connection failed")
	// ErrUnauthorized signals rejected credentials (401/403).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited signals a rate limit hit (429).
	ErrRateLimited = errors.New("rate limited")
	// ErrBatchFailed signals a batch operation with per-item failures.
	ErrBatchFailed = errors.New("batch partially failed")
)

// DimMismatchError wraps ErrVectorDimMismatch with the offending item position
// and the observed/declared dimensions.
type DimMismatchError struct {
	Index int
	Got   int
	Want  int
}

func (e *DimMismatchError) Error() string {
	return fmt.Sprintf("%s: item %d has dimension %d, collection declares %d",
		ErrVectorDimMismatch.Error(), e.Index, e.Got, e.Want)
}

func (e *DimMismatchError) Unwrap() error { return ErrVectorDimMismatch }

// NewDimMismatch creates a dimension mismatch error for the item at index.
func NewDimMismatch(index, got, want int) error {
	return &DimMismatchError{Index: index, Got: got, Want: want}
}
