package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/logger"
)

// transportError wraps a failure below the HTTP layer. delivered records
// whether the request may have reached the server before the failure.
type transportError struct {
	cause     error
	delivered bool
}

func (e *transportError) Error() string { return e.cause.Error() }
func (e *transportError) Unwrap() error { return e.cause }

// statusError wraps an already-mapped HTTP error status for retry
// classification.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// wasDelivered reports whether the request may have reached the server.
// Dial-phase failures (refused connection, unresolved host) guarantee it
// did not; anything after the connection was established is ambiguous.
func wasDelivered(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	return true
}

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// retry runs attempt with exponential backoff up to the configured attempt
// budget. Transient transport failures are retried; for non-idempotent
// requests only failures that provably happened before delivery are retried,
// so a mutation is never sent twice after an ambiguous outcome.
func (c *Client) retry(ctx context.Context, attempt func() error, idempotent bool, route string) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	bo.MaxInterval = 2 * time.Second
	// Zero means no elapsed-time bound; only the attempt budget applies.
	bo.MaxElapsedTime = c.maxElapsed

	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.maxAttempts-1)), ctx,
	)

	attemptNum := 0
	op := func() error {
		attemptNum++
		err := attempt()
		if err == nil {
			return nil
		}

		retryable := c.classify(err, idempotent)
		if !retryable {
			return backoff.Permanent(finalize(err, route))
		}

		logger.FromContext(ctx).Debug("retrying request",
			zap.String("route", route),
			zap.Int("attempt", attemptNum),
			zap.Error(err),
		)
		return err
	}

	if err := backoff.Retry(op, policy); err != nil {
		return finalize(err, route)
	}
	return nil
}

// classify decides whether an attempt error is retryable.
func (c *Client) classify(err error, idempotent bool) bool {
	var se *statusError
	if errors.As(err, &se) {
		return retryableStatus(se.status) && idempotent
	}

	var te *transportError
	if errors.As(err, &te) {
		if !te.delivered {
			return true
		}
		return idempotent
	}

	return false
}

// finalize converts internal wrapper errors into the public taxonomy.
func finalize(err error, route string) error {
	var te *transportError
	if errors.As(err, &te) {
		if errors.Is(te.cause, context.Canceled) {
			return fmt.Errorf("%s: %w", route, context.Canceled)
		}
		return fmt.Errorf("%s: %s: %w", route, te.cause, domain.ErrConnection)
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.err
	}

	return err
}
