package rest

import (
	"fmt"
	"net/http"

	"github.com/chromalens/chromalens-go/internal/domain"
)

// APIError carries a server response the client has no sentinel for.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Detail)
}

// mapStatus translates an HTTP error status into the domain taxonomy.
// detail is the server-provided message, if any.
func mapStatus(status int, detail, route string) error {
	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusConflict:
		sentinel = domain.ErrAlreadyExists
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = domain.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = domain.ErrValidation
	case http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	default:
		if detail == "" {
			return fmt.Errorf("%s: %w", route, &APIError{StatusCode: status})
		}
		return fmt.Errorf("%s: %w", route, &APIError{StatusCode: status, Detail: detail})
	}

	if detail == "" {
		return fmt.Errorf("%s: %w", route, sentinel)
	}
	return fmt.Errorf("%s: %s: %w", route, detail, sentinel)
}
