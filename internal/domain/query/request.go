// Package query holds the nearest-neighbour query request and result types.
package query

import (
	"fmt"

	"github.com/chromalens/chromalens-go/internal/domain"
)

// Where is a metadata filter expression, passed through to the server's
// filter DSL (e.g. {"lang": "en"} or {"$and": [...]}).
type Where map[string]any

// WhereDocument is a document-content filter expression
// (e.g. {"$contains": "hello"}).
type WhereDocument map[string]any

// Include names an optional result field.
type Include string

// Result fields the server can be asked to return.
const (
	IncludeEmbeddings Include = "embeddings"
	IncludeMetadatas  Include = "metadatas"
	IncludeDocuments  Include = "documents"
	IncludeDistances  Include = "distances"
)

// Request is a validated nearest-neighbour query.
type Request struct {
	vectors       [][]float32
	topK          int
	where         Where
	whereDocument WhereDocument
	include       []Include
}

// New validates and creates a query Request.
// topK must be positive; every query vector must be non-empty and match dim
// (dim 0 skips the dimension check, for callers without a resolved collection).
func New(
	vectors [][]float32, topK, dim int,
	where Where, whereDocument WhereDocument, include []Include,
) (Request, error) {
	if topK <= 0 {
		return Request{}, fmt.Errorf("top_k must be positive, got %d: %w", topK, domain.ErrValidation)
	}
	if len(vectors) == 0 {
		return Request{}, fmt.Errorf("at least one query vector is required: %w", domain.ErrValidation)
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return Request{}, fmt.Errorf("query vector %d is empty: %w", i, domain.ErrValidation)
		}
		if dim > 0 && len(v) != dim {
			return Request{}, domain.NewDimMismatch(i, len(v), dim)
		}
	}
	if len(include) == 0 {
		include = []Include{IncludeMetadatas, IncludeDocuments, IncludeDistances}
	}

	return Request{
		vectors:       vectors,
		topK:          topK,
		where:         where,
		whereDocument: whereDocument,
		include:       include,
	}, nil
}

// Vectors returns the query vectors.
func (r Request) Vectors() [][]float32 { return r.vectors }

// TopK returns the requested neighbour count per vector.
func (r Request) TopK() int { return r.topK }

// Where returns the metadata filter.
func (r Request) Where() Where { return r.where }

// WhereDocument returns the document filter.
func (r Request) WhereDocument() WhereDocument { return r.whereDocument }

// IncludeFields returns the requested result fields.
func (r Request) IncludeFields() []Include { return r.include }
