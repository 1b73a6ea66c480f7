// Package item holds the vector item value object and its invariants.
package item

import (
	"fmt"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/domain/collection"
)

// Item is a single vector record addressable by id within a collection.
type Item struct {
	id       string
	vector   []float32
	metadata collection.Metadata
	document string
}

// New validates and creates an Item.
// ID must be non-empty, metadata scalar-only. Vector may be empty here;
// dimension is checked against the owning collection via CheckDim.
func New(id string, vector []float32, metadata collection.Metadata, document string) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item id is required: %w", domain.ErrValidation)
	}
	if len(id) > 256 {
		return Item{}, fmt.Errorf("item id too long (max 256): %w", domain.ErrValidation)
	}
	if err := collection.ValidateMetadata(metadata); err != nil {
		return Item{}, fmt.Errorf("item %q: %w", id, err)
	}

	return Item{
		id:       id,
		vector:   vector,
		metadata: metadata,
		document: document,
	}, nil
}

// Reconstruct creates an Item without validation (wire hydration).
func Reconstruct(id string, vector []float32, metadata collection.Metadata, document string) Item {
	return Item{id: id, vector: vector, metadata: metadata, document: document}
}

// ID returns the item identifier.
func (i Item) ID() string { return i.id }

// Vector returns the embedding vector.
func (i Item) Vector() []float32 { return i.vector }

// Metadata returns the item metadata.
func (i Item) Metadata() collection.Metadata { return i.metadata }

// Document returns the optional source text.
func (i Item) Document() string { return i.document }

// CheckDim verifies the vector length against the collection dimension.
// index is the item's position in its batch, reported in the error.
func (i Item) CheckDim(index, want int) error {
	if len(i.vector) != want {
		return domain.NewDimMismatch(index, len(i.vector), want)
	}
	return nil
}
