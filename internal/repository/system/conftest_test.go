package system

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
)

// mockAPI implements the consumer interface for tests.
type mockAPI struct {
	getFn    func(ctx context.Context, route string, params url.Values, out any) error
	postFn   func(ctx context.Context, route string, body, out any) error
	deleteFn func(ctx context.Context, route string, out any) error
}

func (m *mockAPI) Get(ctx context.Context, route string, params url.Values, out any) error {
	if m.getFn != nil {
		return m.getFn(ctx, route, params, out)
	}
	return nil
}

func (m *mockAPI) Post(ctx context.Context, route string, body, out any) error {
	if m.postFn != nil {
		return m.postFn(ctx, route, body, out)
	}
	return nil
}

func (m *mockAPI) Delete(ctx context.Context, route string, out any) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, route, out)
	}
	return nil
}

func newTestRepo(_ *testing.T) (*Repo, *mockAPI) {
	m := &mockAPI{}
	return New(m), m
}

// respond unmarshals a JSON literal into the out parameter, standing in for
// the transport's decode step.
func respond(t *testing.T, out any, body string) error {
	t.Helper()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("respond: %v", err)
	}
	return nil
}
