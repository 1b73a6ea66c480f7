package item

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/chromalens/chromalens-go/internal/domain/collection"
	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
)

// mockAPI implements the consumer interface for tests.
type mockAPI struct {
	getFn      func(ctx context.Context, route string, params url.Values, out any) error
	postFn     func(ctx context.Context, route string, body, out any) error
	postReadFn func(ctx context.Context, route string, body, out any) error
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

func (m *mockAPI) PostRead(ctx context.Context, route string, body, out any) error {
	if m.postReadFn != nil {
		return m.postReadFn(ctx, route, body, out)
	}
	return nil
}

func newTestRepo(_ *testing.T) (*Repo, *mockAPI) {
	m := &mockAPI{}
	return New(m, "default_tenant", "default_database"), m
}

func testItems(t *testing.T) []domitem.Item {
	t.Helper()
	a, err := domitem.New("a", []float32{0, 0, 1}, collection.Metadata{"lang": "en"}, "hello")
	if err != nil {
		t.Fatalf("new item a: %v", err)
	}
	b, err := domitem.New("b", []float32{0, 1, 0}, nil, "")
	if err != nil {
		t.Fatalf("new item b: %v", err)
	}
	return []domitem.Item{a, b}
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
