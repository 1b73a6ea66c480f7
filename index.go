package chromalens

import (
	"context"
	"fmt"
	"reflect"
)

// TypedIndex is a generic, schema-first view over a collection. The item
// schema is inferred from T's struct tags at construction time:
//
//	type Article struct {
//	    ID     string    `chromalens:"id,id"`
//	    Vector []float32 `chromalens:"vector,vector"`
//	    Body   string    `chromalens:"body,document"`
//	    Lang   string    `chromalens:"lang"`
//	}
//
// Tag format is `chromalens:"name[,modifier]"`. Modifiers id and vector are
// required; document is optional. Fields without a modifier are stored as
// metadata under the tagged name.
type TypedIndex[T any] struct {
	name   string
	client *Client
	meta   *schemaMeta
	opts   []CollectionOption
}

// NewIndex creates a typed index handle for the given collection name.
// T must be a struct with chromalens tags. The schema is parsed once and
// cached; opts are applied when Ensure creates the collection.
func NewIndex[T any](client *Client, name string, opts ...CollectionOption) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	return &TypedIndex[T]{name: name, client: client, meta: meta, opts: opts}, nil
}

// Ensure creates the collection if it does not exist (idempotent).
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	_, err := idx.client.Collections().Ensure(ctx, idx.name, idx.opts...)
	if err != nil {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	return nil
}

// Add inserts new items, returning their ids in input order.
func (idx *TypedIndex[T]) Add(ctx context.Context, items ...T) ([]string, error) {
	return idx.client.Items(idx.name).Add(ctx, idx.toItems(items))
}

// Upsert inserts or replaces a single item by id.
func (idx *TypedIndex[T]) Upsert(ctx context.Context, item T) error {
	return idx.client.Items(idx.name).Upsert(ctx, []Item{idx.meta.toItem(reflect.ValueOf(item))})
}

// UpsertBatch inserts or replaces items in batch.
func (idx *TypedIndex[T]) UpsertBatch(ctx context.Context, items []T) error {
	return idx.client.Items(idx.name).Upsert(ctx, idx.toItems(items))
}

// Get retrieves a typed item by id.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	res, err := idx.client.Items(idx.name).Get(ctx, []string{id}, IncludeEmbeddings, IncludeMetadatas, IncludeDocuments)
	if err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	if len(res.Items) == 0 {
		return zero, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	item, ok := idx.meta.fromItem(res.Items[0]).(T)
	if !ok {
		return zero, fmt.Errorf("get: type assertion failed")
	}
	return item, nil
}

// Delete removes items by id.
func (idx *TypedIndex[T]) Delete(ctx context.Context, ids ...string) error {
	_, err := idx.client.Items(idx.name).Delete(ctx, ids)
	return err
}

// Count returns the number of items in the collection.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int, error) {
	return idx.client.Items(idx.name).Count(ctx)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func (idx *TypedIndex[T]) toItems(items []T) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = idx.meta.toItem(reflect.ValueOf(item))
	}
	return out
}
