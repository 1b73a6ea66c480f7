package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// MetricsTransport is an http.RoundTripper recording request counts and
// durations per method/operation/status.
type MetricsTransport struct {
	next     http.RoundTripper
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewMetricsTransport wraps next with Prometheus instrumentation registered
// on reg. Re-registration reuses the existing collectors so several clients
// can share one registry.
func NewMetricsTransport(reg prometheus.Registerer, next http.RoundTripper) (*MetricsTransport, error) {
	t := &MetricsTransport{
		next: next,
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chromalens",
				Name:      "http_request_duration_seconds",
				Help:      "Client HTTP request duration in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "operation", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chromalens",
				Name:      "http_requests_total",
				Help:      "Total client HTTP requests.",
			},
			[]string{"method", "operation", "status"},
		),
	}
	if err := registerOrReuse(reg, &t.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &t.total); err != nil {
		return nil, err
	}
	return t, nil
}

// RoundTrip implements http.RoundTripper.
func (t *MetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.nextTransport().RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	op := operationLabel(req.URL.Path)

	t.duration.WithLabelValues(req.Method, op, status).Observe(time.Since(start).Seconds())
	t.total.WithLabelValues(req.Method, op, status).Inc()

	return resp, err
}

func (t *MetricsTransport) nextTransport() http.RoundTripper {
	if t.next != nil {
		return t.next
	}
	return http.DefaultTransport
}

// operationLabel collapses request paths to a bounded label set: the final
// path segment for fixed routes, the item operation for collection routes.
func operationLabel(path string) string {
	path = strings.Trim(path, "/")
	segs := strings.Split(path, "/")
	last := segs[len(segs)-1]
	switch last {
	case RouteHeartbeat, RouteVersion, RouteReset,
		OpAdd, OpUpdate, OpUpsert, OpGet, OpDelete, OpCount, OpQuery,
		"tenants", "databases", "collections", "collections_count", "identity", "pre-flight-checks":
		return last
	}
	if len(segs) >= 2 {
		// Named resource: label by its parent segment.
		switch segs[len(segs)-2] {
		case "tenants", "databases", "collections":
			return segs[len(segs)-2] + "/{name}"
		}
	}
	return "other"
}

// RateLimitTransport is an http.RoundTripper applying a client-side
// request rate limit before each request leaves.
type RateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitTransport wraps next with a token-bucket limiter of rps
// requests per second and the given burst.
func NewRateLimitTransport(rps float64, burst int, next http.RoundTripper) *RateLimitTransport {
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
