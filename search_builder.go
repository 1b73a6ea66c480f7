package chromalens

import (
	"context"
	"fmt"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Item     T
	Distance float64
}

// SearchBuilder is a fluent builder for typed similarity queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	vector        []float32
	topK          int
	where         Where
	whereDocument WhereDocument
	include       []Include
}

// Vector sets the query vector.
func (b *SearchBuilder[T]) Vector(v []float32) *SearchBuilder[T] {
	b.vector = v
	return b
}

// TopK sets the maximum number of results.
func (b *SearchBuilder[T]) TopK(n int) *SearchBuilder[T] {
	b.topK = n
	return b
}

// Where adds a metadata equality condition. Repeated calls combine with AND.
func (b *SearchBuilder[T]) Where(key string, value any) *SearchBuilder[T] {
	if b.where == nil {
		b.where = Where{}
	}
	b.where[key] = value
	return b
}

// WhereDocument restricts results to items whose document matches the filter.
func (b *SearchBuilder[T]) WhereDocument(filter WhereDocument) *SearchBuilder[T] {
	b.whereDocument = filter
	return b
}

// Include selects which item fields the results carry. By default hits
// carry embeddings, metadata and documents so items round-trip fully.
func (b *SearchBuilder[T]) Include(include ...Include) *SearchBuilder[T] {
	b.include = include
	return b
}

// Do executes the search and returns typed results ordered by ascending
// distance.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Hit[T], error) {
	topK := b.topK
	if topK == 0 {
		topK = 10
	}

	include := b.include
	if include == nil {
		include = []Include{IncludeEmbeddings, IncludeMetadatas, IncludeDocuments, IncludeDistances}
	}

	opts := []QueryOption{WithInclude(include...)}
	if b.where != nil {
		opts = append(opts, WithWhere(b.where))
	}
	if b.whereDocument != nil {
		opts = append(opts, WithWhereDocument(b.whereDocument))
	}

	results, err := b.idx.client.Query(b.idx.name).Search(ctx, b.vector, topK, opts...)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", b.idx.name, err)
	}
	return b.toHits(results), nil
}

func (b *SearchBuilder[T]) toHits(results []ScoredItem) []Hit[T] {
	hits := make([]Hit[T], 0, len(results))
	for _, r := range results {
		item, ok := b.idx.meta.fromItem(r.Item).(T)
		if !ok {
			continue
		}
		hits = append(hits, Hit[T]{Item: item, Distance: r.Distance})
	}
	return hits
}
