// Package rest implements the HTTP/JSON transport against the vector
// service's v2 REST surface. Repositories build routes and DTOs; this
// package owns request execution, auth, retries and error mapping.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/logger"
	"github.com/chromalens/chromalens-go/internal/version"
)

// Config holds the immutable connection settings of one transport instance.
type Config struct {
	Host      string
	Port      int
	SSL       bool
	AuthToken string
	Timeout   time.Duration

	// Retry policy for transient failures. MaxElapsed caps the total time
	// across attempts including backoff waits; zero bounds by attempts only.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxElapsed  time.Duration

	// HTTPClient overrides the default client (its Transport is kept as-is).
	HTTPClient *http.Client
}

// Client is a thin HTTP/JSON executor. It is stateless beyond its
// configuration and safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	authToken   string
	maxAttempts int
	baseDelay   time.Duration
	maxElapsed  time.Duration
}

// NewClient creates a transport from Config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required: %w", domain.ErrValidation)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range: %w", cfg.Port, domain.ErrValidation)
	}

	scheme := "http"
	if cfg.SSL {
		scheme = "https"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc.Timeout = timeout
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	return &Client{
		baseURL:     fmt.Sprintf("%s://%s:%d%s", scheme, cfg.Host, cfg.Port, apiPrefix),
		httpClient:  hc,
		authToken:   cfg.AuthToken,
		maxAttempts: attempts,
		baseDelay:   delay,
		maxElapsed:  cfg.MaxElapsed,
	}, nil
}

// BaseURL returns the resolved server base URL including the API prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// Get executes an idempotent GET request.
func (c *Client) Get(ctx context.Context, route string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, route, params, nil, out, true)
}

// Put executes an idempotent PUT request.
func (c *Client) Put(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPut, route, nil, body, out, true)
}

// Delete executes an idempotent DELETE request.
func (c *Client) Delete(ctx context.Context, route string, out any) error {
	return c.do(ctx, http.MethodDelete, route, nil, nil, out, true)
}

// Post executes a mutating POST request. Retries happen only when the
// transport guarantees the request was never delivered.
func (c *Client) Post(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, nil, body, out, false)
}

// PostRead executes a POST request for a read-only operation (the wire
// surface reads items via POST bodies). Treated as idempotent for retries.
func (c *Client) PostRead(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, nil, body, out, true)
}

func (c *Client) do(
	ctx context.Context, method, route string,
	params url.Values, body, out any, idempotent bool,
) error {
	u := c.baseURL + "/" + strings.TrimPrefix(route, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", route, err)
		}
	}

	attempt := func() error {
		return c.once(ctx, method, u, route, payload, out)
	}

	err := c.retry(ctx, attempt, idempotent, route)
	if err != nil {
		return err
	}
	return nil
}

// once executes a single HTTP round trip and decodes the response.
func (c *Client) once(ctx context.Context, method, u, route string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", route, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{cause: err, delivered: wasDelivered(err)}
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).Debug("request completed",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return &statusError{
			status: resp.StatusCode,
			err:    mapStatus(resp.StatusCode, readDetail(resp.Body), route),
		}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", route, err)
	}
	return nil
}

// readDetail extracts the error message from a JSON error body, if present.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return strings.TrimSpace(string(data))
	}
	for _, s := range []string{parsed.Detail, parsed.Error, parsed.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}
