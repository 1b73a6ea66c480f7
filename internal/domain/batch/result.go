// Package batch holds per-item outcomes for batch operations.
package batch

import (
	"fmt"
	"strings"

	"github.com/chromalens/chromalens-go/internal/domain"
)

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Error aggregates a partially failed batch, carrying per-item detail.
// It wraps ErrBatchFailed for errors.Is checks.
type Error struct {
	Results []Result
}

// NewErrorFromResults builds a batch Error if any result failed.
// Returns nil when every item succeeded.
func NewErrorFromResults(results []Result) error {
	failed := 0
	for _, r := range results {
		if r.Status() == StatusError {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return &Error{Results: results}
}

func (e *Error) Error() string {
	var b strings.Builder
	failed := 0
	for _, r := range e.Results {
		if r.Status() != StatusError {
			continue
		}
		if failed < 3 {
			fmt.Fprintf(&b, "; %s: %v", r.ID(), r.Err())
		}
		failed++
	}
	return fmt.Sprintf("%s: %d of %d items failed%s",
		domain.ErrBatchFailed.Error(), failed, len(e.Results), b.String())
}

func (e *Error) Unwrap() error { return domain.ErrBatchFailed }

// Failed returns the failed subset of results.
func (e *Error) Failed() []Result {
	out := make([]Result, 0, len(e.Results))
	for _, r := range e.Results {
		if r.Status() == StatusError {
			out = append(out, r)
		}
	}
	return out
}
