package collection

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
)

// mockAPI implements the consumer interface for tests.
type mockAPI struct {
	getFn    func(ctx context.Context, route string, params url.Values, out any) error
	putFn    func(ctx context.Context, route string, body, out any) error
	postFn   func(ctx context.Context, route string, body, out any) error
	deleteFn func(ctx context.Context, route string, out any) error
}

func (m *mockAPI) Get(ctx context.Context, route string, params url.Values, out any) error {
	if m.getFn != nil {
		return m.getFn(ctx, route, params, out)
	}
	return nil
}

func (m *mockAPI) Put(ctx context.Context, route string, body, out any) error {
	if m.putFn != nil {
		return m.putFn(ctx, route, body, out)
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
	return New(m, "default_tenant", "default_database"), m
}

func testCollection(t *testing.T) domcol.Collection {
	t.Helper()
	col, err := domcol.New("docs", domcol.Metadata{"team": "search"}, 3, domcol.DistanceCosine)
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	return col
}

// respond unmarshals a JSON literal into out, standing in for the
// transport's decode step.
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
