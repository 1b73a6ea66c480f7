package item

import (
	"errors"
	"strings"
	"testing"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/domain/collection"
)

func TestNew_Valid(t *testing.T) {
	it, err := New("a", []float32{0, 0, 1}, collection.Metadata{"lang": "en"}, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID() != "a" || it.Document() != "hello" {
		t.Errorf("got id=%q document=%q", it.ID(), it.Document())
	}
	if len(it.Vector()) != 3 {
		t.Errorf("vector length = %d, want 3", len(it.Vector()))
	}
}

func TestNew_EmptyID(t *testing.T) {
	if _, err := New("", []float32{1}, nil, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestNew_LongID(t *testing.T) {
	if _, err := New(strings.Repeat("x", 257), []float32{1}, nil, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestNew_NonScalarMetadata(t *testing.T) {
	_, err := New("a", nil, collection.Metadata{"bad": []int{1}}, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCheckDim(t *testing.T) {
	it, _ := New("a", []float32{0, 0, 1}, nil, "")

	if err := it.CheckDim(0, 3); err != nil {
		t.Errorf("matching dim rejected: %v", err)
	}

	err := it.CheckDim(4, 5)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("err = %v, want ErrVectorDimMismatch", err)
	}
	var dm *domain.DimMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("err %v does not carry DimMismatchError", err)
	}
	if dm.Index != 4 || dm.Got != 3 || dm.Want != 5 {
		t.Errorf("detail = %+v, want index 4, got 3, want 5", dm)
	}
}
