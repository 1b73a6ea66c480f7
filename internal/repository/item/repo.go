// Package item maps domain items onto a collection's columnar item
// endpoints.
package item

import (
	"context"
	"fmt"
	"net/url"

	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	"github.com/chromalens/chromalens-go/internal/domain/query"
	"github.com/chromalens/chromalens-go/internal/repository/page"
	"github.com/chromalens/chromalens-go/internal/rest"
)

// api is the consumer interface for the transport client (ISP). Reads go
// over the server's POST read endpoints, which are safe to retry.
type api interface {
	Get(ctx context.Context, route string, params url.Values, out any) error
	Post(ctx context.Context, route string, body, out any) error
	PostRead(ctx context.Context, route string, body, out any) error
}

// Repo implements usecase/item.Repository against one tenant/database.
type Repo struct {
	api      api
	tenant   string
	database string
}

// New creates an item repository scoped to tenant/database.
func New(a api, tenant, database string) *Repo {
	return &Repo{api: a, tenant: tenant, database: database}
}

// Add inserts new items. Existing ids are a validation error on the server.
func (r *Repo) Add(ctx context.Context, collectionID string, items []domitem.Item) error {
	return r.write(ctx, collectionID, rest.OpAdd, items)
}

// Update modifies existing items. Unknown ids are ignored by the server.
func (r *Repo) Update(ctx context.Context, collectionID string, items []domitem.Item) error {
	return r.write(ctx, collectionID, rest.OpUpdate, items)
}

// Upsert inserts or replaces items by id.
func (r *Repo) Upsert(ctx context.Context, collectionID string, items []domitem.Item) error {
	return r.write(ctx, collectionID, rest.OpUpsert, items)
}

func (r *Repo) write(ctx context.Context, collectionID, op string, items []domitem.Item) error {
	route := rest.CollectionOp(r.tenant, r.database, collectionID, op)
	if err := r.api.Post(ctx, route, itemsToColumns(items), nil); err != nil {
		return fmt.Errorf("%s %d items: %w", op, len(items), err)
	}
	return nil
}

// Get fetches items by selector. The result holds only the items the server
// knows; absent ids are simply not present. Limit zero means no limit.
func (r *Repo) Get(
	ctx context.Context, collectionID string,
	sel query.Selector, limit, offset int, include []query.Include,
) ([]domitem.Item, error) {
	req := getRequest{
		IDs:           sel.IDs,
		Where:         sel.Where,
		WhereDocument: sel.WhereDocument,
		Include:       include,
	}
	if limit > 0 {
		req.Limit = &limit
	}
	if offset > 0 {
		req.Offset = &offset
	}

	var resp getResponse
	route := rest.CollectionOp(r.tenant, r.database, collectionID, rest.OpGet)
	if err := r.api.PostRead(ctx, route, req, &resp); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return columnsToItems(resp), nil
}

// List returns one page of items starting at cursor, with the cursor of the
// next page. An empty next cursor means the listing is exhausted.
func (r *Repo) List(
	ctx context.Context, collectionID, cursor string, limit int, include []query.Include,
) ([]domitem.Item, string, error) {
	offset, err := page.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	items, err := r.Get(ctx, collectionID, query.Selector{}, limit, offset, include)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) == limit && limit > 0 {
		next = page.EncodeCursor(offset + limit)
	}
	return items, next, nil
}

// Delete removes the selected items. Unknown ids are not an error on the
// wire; presence checks are the caller's concern.
func (r *Repo) Delete(ctx context.Context, collectionID string, sel query.Selector) error {
	req := deleteRequest{IDs: sel.IDs, Where: sel.Where, WhereDocument: sel.WhereDocument}
	route := rest.CollectionOp(r.tenant, r.database, collectionID, rest.OpDelete)
	if err := r.api.Post(ctx, route, req, nil); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// Count returns the number of items in the collection.
func (r *Repo) Count(ctx context.Context, collectionID string) (int, error) {
	var n int
	route := rest.CollectionOp(r.tenant, r.database, collectionID, rest.OpCount)
	if err := r.api.Get(ctx, route, nil, &n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Query runs a nearest-neighbour search and returns one scored result list
// per query vector, in server order.
func (r *Repo) Query(ctx context.Context, collectionID string, q query.Request) ([][]query.Scored, error) {
	req := queryRequest{
		QueryEmbeddings: q.Vectors(),
		NResults:        q.TopK(),
		Where:           q.Where(),
		WhereDocument:   q.WhereDocument(),
		Include:         q.IncludeFields(),
	}

	var resp queryResponse
	route := rest.CollectionOp(r.tenant, r.database, collectionID, rest.OpQuery)
	if err := r.api.PostRead(ctx, route, req, &resp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	out := make([][]query.Scored, len(resp.IDs))
	for i := range resp.IDs {
		out[i] = scoredFromColumns(resp, i)
	}
	return out, nil
}
