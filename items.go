package chromalens

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	domquery "github.com/chromalens/chromalens-go/internal/domain/query"
)

// ItemService manages items within a single collection.
type ItemService struct {
	c   *Client
	ref *colRef
}

// Add inserts new items. Items with an empty ID get a generated UUID;
// the returned slice carries the final ids in input order. Adding an
// existing id is a validation error on the server.
func (s *ItemService) Add(ctx context.Context, items []Item) (_ []string, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.add", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return nil, err
	}

	internal, ids, err := toInternalItems(items, true)
	if err != nil {
		return nil, err
	}
	if err = s.c.itemSvc.Add(ctx, col, internal); err != nil {
		return nil, err
	}
	return ids, nil
}

// Update modifies existing items in place.
func (s *ItemService) Update(ctx context.Context, items []Item) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.update", start, err) }()
	return s.write(ctx, items, s.c.itemSvc.Update)
}

// Upsert inserts or replaces items by id.
func (s *ItemService) Upsert(ctx context.Context, items []Item) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.upsert", start, err) }()
	return s.write(ctx, items, s.c.itemSvc.Upsert)
}

func (s *ItemService) write(
	ctx context.Context, items []Item,
	op func(ctx context.Context, col domcol.Collection, items []domitem.Item) error,
) error {
	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return err
	}
	internal, _, err := toInternalItems(items, false)
	if err != nil {
		return err
	}
	return op(ctx, col, internal)
}

// Get fetches items by id. Unknown ids are listed in the result's Missing;
// if every id is unknown the call fails with ErrNotFound.
func (s *ItemService) Get(ctx context.Context, ids []string, include ...Include) (_ GetResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.get", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return GetResult{}, err
	}

	res, err := s.c.itemSvc.Get(ctx, col, ids, toInternalInclude(include))
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Items: fromInternalItems(res.Items), Missing: res.Missing}, nil
}

// List returns one page of items. Pass an empty cursor for the first page;
// a result with an empty NextCursor is the last page. Limit 0 uses the
// default page size.
func (s *ItemService) List(ctx context.Context, cursor string, limit int, include ...Include) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.list", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return ListResult{}, err
	}

	items, next, err := s.c.itemSvc.List(ctx, col, cursor, limit, toInternalInclude(include))
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: fromInternalItems(items), NextCursor: next}, nil
}

// Pager returns a restartable pager over all items, fetching pages of
// pageSize lazily.
func (s *ItemService) Pager(pageSize int, include ...Include) *Pager[Item] {
	return newPager(pageSize, func(ctx context.Context, cursor string, limit int) ([]Item, string, error) {
		res, err := s.List(ctx, cursor, limit, include...)
		if err != nil {
			return nil, "", err
		}
		return res.Items, res.NextCursor, nil
	})
}

// Delete removes items by id. Unknown ids are listed in the result's
// Missing; if every id is unknown the call fails with ErrNotFound and
// nothing is deleted.
func (s *ItemService) Delete(ctx context.Context, ids []string) (_ DeleteResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.delete", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return DeleteResult{}, err
	}

	res, err := s.c.itemSvc.Delete(ctx, col, ids)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: res.Deleted, Missing: res.Missing}, nil
}

// DeleteWhere removes every item matching the filters. At least one filter
// is required.
func (s *ItemService) DeleteWhere(ctx context.Context, where Where, whereDocument WhereDocument) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.delete_where", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return err
	}
	return s.c.itemSvc.DeleteWhere(ctx, col, domquery.Where(where), domquery.WhereDocument(whereDocument))
}

// Count returns the number of items in the collection.
func (s *ItemService) Count(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("item.count", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return s.c.itemSvc.Count(ctx, col)
}

// toInternalItems validates and converts public items. With generateIDs,
// empty ids are filled with UUIDs; the second return value carries the
// final ids in input order.
func toInternalItems(items []Item, generateIDs bool) ([]domitem.Item, []string, error) {
	out := make([]domitem.Item, len(items))
	ids := make([]string, len(items))
	for i, it := range items {
		id := it.ID
		if id == "" && generateIDs {
			id = uuid.NewString()
		}
		internal, err := domitem.New(id, it.Vector, domcol.Metadata(it.Metadata), it.Document)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = internal
		ids[i] = id
	}
	return out, ids, nil
}

func fromInternalItems(items []domitem.Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{
			ID:       it.ID(),
			Vector:   it.Vector(),
			Metadata: Metadata(it.Metadata()),
			Document: it.Document(),
		}
	}
	return out
}

func toInternalInclude(include []Include) []domquery.Include {
	if len(include) == 0 {
		return nil
	}
	out := make([]domquery.Include, len(include))
	for i, inc := range include {
		out[i] = domquery.Include(inc)
	}
	return out
}
