package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOperationLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v2/heartbeat", "heartbeat"},
		{"/api/v2/version", "version"},
		{"/api/v2/auth/identity", "identity"},
		{"/api/v2/pre-flight-checks", "pre-flight-checks"},
		{"/api/v2/tenants", "tenants"},
		{"/api/v2/tenants/default_tenant", "tenants/{name}"},
		{"/api/v2/tenants/t/databases", "databases"},
		{"/api/v2/tenants/t/databases/d", "databases/{name}"},
		{"/api/v2/tenants/t/databases/d/collections", "collections"},
		{"/api/v2/tenants/t/databases/d/collections_count", "collections_count"},
		{"/api/v2/tenants/t/databases/d/collections/my-col", "collections/{name}"},
		{"/api/v2/tenants/t/databases/d/collections/abc123/query", "query"},
		{"/api/v2/tenants/t/databases/d/collections/abc123/upsert", "upsert"},
		{"/api/v2/tenants/t/databases/d/collections/abc123/count", "count"},
		{"/totally/unrelated", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := operationLabel(tt.path); got != tt.want {
				t.Errorf("operationLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetricsTransport_CountsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	mt, err := NewMetricsTransport(reg, nil)
	if err != nil {
		t.Fatalf("NewMetricsTransport: %v", err)
	}

	client := &http.Client{Transport: mt}
	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/api/v2/heartbeat")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
	}

	got := testutil.ToFloat64(mt.total.WithLabelValues(http.MethodGet, "heartbeat", "200"))
	if got != 3 {
		t.Errorf("requests_total = %v, want 3", got)
	}
}

func TestMetricsTransport_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetricsTransport(reg, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewMetricsTransport(reg, nil); err != nil {
		t.Fatalf("second register should reuse collectors: %v", err)
	}
}

func TestRateLimitTransport_Throttles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// 50 rps, burst 1: four requests need at least 3 inter-request waits.
	client := &http.Client{Transport: NewRateLimitTransport(50, 1, nil)}

	start := time.Now()
	for i := 0; i < 4; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("4 requests at 50rps/burst1 took %v, want >= 50ms", elapsed)
	}
}

func TestRateLimitTransport_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewRateLimitTransport(0.001, 1, nil)}

	// First request consumes the burst token.
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if _, err := client.Do(req); err == nil {
		t.Error("second request should fail waiting for a token")
	}
}
