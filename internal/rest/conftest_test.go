package rest

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// newTestServer starts a chi-based fake API server and returns a transport
// client pointed at it.
func newTestServer(t *testing.T, register func(r chi.Router)) (*Client, *httptest.Server) {
	t.Helper()

	r := chi.NewRouter()
	r.Route(apiPrefix, register)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, Config{})
	return c, srv
}

// newTestClient builds a Client against srv, applying overrides from cfg.
func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	cfg.Host = u.Hostname()
	cfg.Port = port
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Millisecond
	}

	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}
