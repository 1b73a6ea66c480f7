package query

import (
	"errors"
	"testing"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/domain/item"
)

func TestNew_Valid(t *testing.T) {
	req, err := New([][]float32{{0, 0, 1}}, 5, 3, Where{"lang": "en"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != 5 {
		t.Errorf("topK = %d, want 5", req.TopK())
	}
	if len(req.IncludeFields()) != 3 {
		t.Errorf("default include = %v, want metadatas+documents+distances", req.IncludeFields())
	}
}

func TestNew_TopKValidation(t *testing.T) {
	for _, k := range []int{0, -3} {
		_, err := New([][]float32{{1}}, k, 0, nil, nil, nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("New(topK=%d) err = %v, want ErrValidation", k, err)
		}
	}
}

func TestNew_EmptyVector(t *testing.T) {
	_, err := New([][]float32{{}}, 1, 0, nil, nil, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	_, err = New(nil, 1, 0, nil, nil, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("no vectors err = %v, want ErrValidation", err)
	}
}

func TestNew_DimMismatch(t *testing.T) {
	_, err := New([][]float32{{1, 2}}, 1, 3, nil, nil, nil)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("err = %v, want ErrVectorDimMismatch", err)
	}
}

func mkScored(t *testing.T, id string, dist float64) Scored {
	t.Helper()
	it, err := item.New(id, []float32{1}, nil, "")
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return NewScored(it, dist)
}

func TestSort_DistanceThenID(t *testing.T) {
	results := []Scored{
		mkScored(t, "c", 0.5),
		mkScored(t, "b", 0.1),
		mkScored(t, "a", 0.5),
		mkScored(t, "d", 0.0),
	}
	Sort(results)

	want := []string{"d", "b", "a", "c"}
	for i, w := range want {
		if results[i].Item().ID() != w {
			t.Fatalf("position %d = %q, want %q (full order: %v)", i, results[i].Item().ID(), w, ids(results))
		}
	}
}

func ids(results []Scored) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item().ID()
	}
	return out
}
