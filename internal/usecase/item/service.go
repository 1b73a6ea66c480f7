// Package item implements item write, read and delete flows on top of a
// resolved collection. Vector dimensions are checked here, before any
// network call; oversized batches are split and tracked per item.
package item

import (
	"context"
	"fmt"

	"github.com/chromalens/chromalens-go/internal/domain"
	"github.com/chromalens/chromalens-go/internal/domain/batch"
	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	"github.com/chromalens/chromalens-go/internal/domain/query"
)

// Listing page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultMaxBatchSize caps a single write request when the server's
// pre-flight limit is unknown.
const DefaultMaxBatchSize = 5000

// GetResult is the outcome of a Get: found items plus the requested ids the
// server does not know.
type GetResult struct {
	Items   []domitem.Item
	Missing []string
}

// DeleteResult is the outcome of a Delete by ids.
type DeleteResult struct {
	Deleted []string
	Missing []string
}

// Service handles item operations for one collection at a time.
type Service struct {
	repo         Repository
	maxBatchSize int
}

// New creates an item service. maxBatchSize caps single write requests;
// non-positive falls back to DefaultMaxBatchSize.
func New(repo Repository, maxBatchSize int) *Service {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &Service{repo: repo, maxBatchSize: maxBatchSize}
}

// Add inserts new items. Every vector must match the collection dimension;
// a single mismatch rejects the whole batch before anything is sent.
func (s *Service) Add(ctx context.Context, col domcol.Collection, items []domitem.Item) error {
	return s.write(ctx, col, items, s.repo.Add)
}

// Update modifies existing items.
func (s *Service) Update(ctx context.Context, col domcol.Collection, items []domitem.Item) error {
	return s.write(ctx, col, items, s.repo.Update)
}

// Upsert inserts or replaces items by id.
func (s *Service) Upsert(ctx context.Context, col domcol.Collection, items []domitem.Item) error {
	return s.write(ctx, col, items, s.repo.Upsert)
}

type writeFn func(ctx context.Context, collectionID string, items []domitem.Item) error

func (s *Service) write(ctx context.Context, col domcol.Collection, items []domitem.Item, op writeFn) error {
	if len(items) == 0 {
		return fmt.Errorf("empty batch: %w", domain.ErrValidation)
	}
	if err := checkDims(items, col.Dimension()); err != nil {
		return err
	}

	if len(items) <= s.maxBatchSize {
		return op(ctx, col.ID(), items)
	}
	return s.writeChunked(ctx, col.ID(), items, op)
}

// writeChunked splits an oversized batch and applies it chunk by chunk.
// When only some chunks land, the per-item outcome is reported as a batch
// error; when none land, the first failure is returned as-is.
func (s *Service) writeChunked(ctx context.Context, collectionID string, items []domitem.Item, op writeFn) error {
	results := make([]batch.Result, 0, len(items))
	var succeeded int
	var firstErr error

	for start := 0; start < len(items); start += s.maxBatchSize {
		end := start + s.maxBatchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		err := op(ctx, collectionID, chunk)
		for _, it := range chunk {
			if err != nil {
				results = append(results, batch.NewError(it.ID(), err))
			} else {
				results = append(results, batch.NewOK(it.ID()))
			}
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded++
	}

	if firstErr == nil {
		return nil
	}
	if succeeded == 0 {
		return firstErr
	}
	return batch.NewErrorFromResults(results)
}

// Get fetches items by id. Unknown ids are reported in Missing; when every
// id is unknown the call fails with a not-found error.
func (s *Service) Get(ctx context.Context, col domcol.Collection, ids []string, include []query.Include) (GetResult, error) {
	if len(ids) == 0 {
		return GetResult{}, fmt.Errorf("at least one id is required: %w", domain.ErrValidation)
	}

	items, err := s.repo.Get(ctx, col.ID(), query.Selector{IDs: ids}, 0, 0, include)
	if err != nil {
		return GetResult{}, fmt.Errorf("get items: %w", err)
	}

	missing := missingIDs(ids, items)
	if len(missing) == len(ids) {
		return GetResult{}, fmt.Errorf("none of the %d requested items exist: %w", len(ids), domain.ErrNotFound)
	}
	return GetResult{Items: items, Missing: missing}, nil
}

// List returns one page of items and the cursor of the next page. A
// non-positive limit falls back to DefaultPageSize; limits above MaxPageSize
// are clamped.
func (s *Service) List(ctx context.Context, col domcol.Collection, cursor string, limit int, include []query.Include) ([]domitem.Item, string, error) {
	items, next, err := s.repo.List(ctx, col.ID(), cursor, clampLimit(limit), include)
	if err != nil {
		return nil, "", fmt.Errorf("list items: %w", err)
	}
	return items, next, nil
}

// Delete removes items by id. Unknown ids are reported in Missing; when
// every id is unknown the call fails with a not-found error and nothing is
// deleted.
func (s *Service) Delete(ctx context.Context, col domcol.Collection, ids []string) (DeleteResult, error) {
	if len(ids) == 0 {
		return DeleteResult{}, fmt.Errorf("at least one id is required: %w", domain.ErrValidation)
	}

	existing, err := s.repo.Get(ctx, col.ID(), query.Selector{IDs: ids}, 0, 0, nil)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("resolve items for delete: %w", err)
	}

	missing := missingIDs(ids, existing)
	if len(missing) == len(ids) {
		return DeleteResult{}, fmt.Errorf("none of the %d items to delete exist: %w", len(ids), domain.ErrNotFound)
	}

	deleted := make([]string, len(existing))
	for i, it := range existing {
		deleted[i] = it.ID()
	}
	if err := s.repo.Delete(ctx, col.ID(), query.Selector{IDs: deleted}); err != nil {
		return DeleteResult{}, fmt.Errorf("delete items: %w", err)
	}
	return DeleteResult{Deleted: deleted, Missing: missing}, nil
}

// DeleteWhere removes every item matching the filters.
func (s *Service) DeleteWhere(ctx context.Context, col domcol.Collection, where query.Where, whereDocument query.WhereDocument) error {
	if len(where) == 0 && len(whereDocument) == 0 {
		return fmt.Errorf("a filter is required, refusing to delete everything: %w", domain.ErrValidation)
	}
	if err := s.repo.Delete(ctx, col.ID(), query.Selector{Where: where, WhereDocument: whereDocument}); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// Count returns the number of items in the collection.
func (s *Service) Count(ctx context.Context, col domcol.Collection) (int, error) {
	n, err := s.repo.Count(ctx, col.ID())
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func checkDims(items []domitem.Item, want int) error {
	if want <= 0 {
		return nil
	}
	for i, it := range items {
		if err := it.CheckDim(i, want); err != nil {
			return err
		}
	}
	return nil
}

func missingIDs(requested []string, found []domitem.Item) []string {
	have := make(map[string]struct{}, len(found))
	for _, it := range found {
		have[it.ID()] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
