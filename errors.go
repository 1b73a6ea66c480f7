package chromalens

import (
	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/domain/batch"
	"github.com/chromalens/chromalens-go/internal/rest"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConnection        = domain.ErrConnection
	ErrValidation        = domain.ErrValidation
	ErrNotFound          = domain.ErrNotFound
	ErrAlreadyExists     = domain.ErrAlreadyExists
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
	ErrUnauthorized      = domain.ErrUnauthorized
	ErrRateLimited       = domain.ErrRateLimited
	ErrBatchFailed       = domain.ErrBatchFailed
)

// DimMismatchError carries the details of a vector dimension violation.
// It matches ErrVectorDimMismatch under errors.Is.
type DimMismatchError = domain.DimMismatchError

// BatchError aggregates per-item outcomes of a partially failed batch
// write. It matches ErrBatchFailed under errors.Is.
type BatchError = batch.Error

// BatchResult is the outcome of one item in a batch operation.
type BatchResult = batch.Result

// APIError is a server error response that maps to no sentinel.
type APIError = rest.APIError
