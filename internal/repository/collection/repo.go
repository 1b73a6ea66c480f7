// Package collection maps domain collections onto the server's collection
// endpoints.
package collection

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
	"github.com/chromalens/chromalens-go/internal/repository/page"
	"github.com/chromalens/chromalens-go/internal/rest"
)

// api is the consumer interface for the transport client (ISP).
type api interface {
	Get(ctx context.Context, route string, params url.Values, out any) error
	Put(ctx context.Context, route string, body, out any) error
	Post(ctx context.Context, route string, body, out any) error
	Delete(ctx context.Context, route string, out any) error
}

// Repo implements usecase/collection.Repository against one tenant/database.
type Repo struct {
	api      api
	tenant   string
	database string
}

// New creates a collection repository scoped to tenant/database.
func New(a api, tenant, database string) *Repo {
	return &Repo{api: a, tenant: tenant, database: database}
}

// Create stores a new collection and returns it with its server-assigned id.
// With getOrCreate an existing collection of the same name is returned
// instead of a conflict.
func (r *Repo) Create(ctx context.Context, col domcol.Collection, getOrCreate bool) (domcol.Collection, error) {
	req := createRequest{
		Name:          col.Name(),
		Metadata:      col.Metadata(),
		GetOrCreate:   getOrCreate,
		Configuration: configurationToDTO(col),
	}

	var resp collectionDTO
	if err := r.api.Post(ctx, rest.Collections(r.tenant, r.database), req, &resp); err != nil {
		return domcol.Collection{}, fmt.Errorf("create collection %s: %w", col.Name(), err)
	}
	return collectionFromDTO(resp)
}

// Get fetches a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	var resp collectionDTO
	if err := r.api.Get(ctx, rest.Collection(r.tenant, r.database, name), nil, &resp); err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection %s: %w", name, err)
	}
	return collectionFromDTO(resp)
}

// List returns one page of collections starting at cursor, with the cursor
// of the next page. An empty next cursor means the listing is exhausted.
func (r *Repo) List(ctx context.Context, cursor string, limit int) ([]domcol.Collection, string, error) {
	offset, err := page.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var resp []collectionDTO
	if err := r.api.Get(ctx, rest.Collections(r.tenant, r.database), params, &resp); err != nil {
		return nil, "", fmt.Errorf("list collections: %w", err)
	}

	cols := make([]domcol.Collection, 0, len(resp))
	for _, dto := range resp {
		col, err := collectionFromDTO(dto)
		if err != nil {
			return nil, "", err
		}
		cols = append(cols, col)
	}

	next := ""
	if len(resp) == limit && limit > 0 {
		next = page.EncodeCursor(offset + limit)
	}
	return cols, next, nil
}

// Update renames a collection and/or replaces its metadata. Nil leaves the
// corresponding attribute untouched.
func (r *Repo) Update(ctx context.Context, id string, newName *string, newMetadata domcol.Metadata) error {
	req := updateRequest{NewName: newName}
	if newMetadata != nil {
		req.NewMetadata = newMetadata
	}
	if err := r.api.Put(ctx, rest.Collection(r.tenant, r.database, id), req, nil); err != nil {
		return fmt.Errorf("update collection %s: %w", id, err)
	}
	return nil
}

// Delete removes a collection and all its items.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := r.api.Delete(ctx, rest.Collection(r.tenant, r.database, name), nil); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	return nil
}

// Count returns the number of items in a collection.
func (r *Repo) Count(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.api.Get(ctx, rest.CollectionOp(r.tenant, r.database, id, rest.OpCount), nil, &n); err != nil {
		return 0, fmt.Errorf("count collection %s: %w", id, err)
	}
	return n, nil
}

// CountAll returns the number of collections in the database.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.api.Get(ctx, rest.CollectionsCount(r.tenant, r.database), nil, &n); err != nil {
		return 0, fmt.Errorf("count collections: %w", err)
	}
	return n, nil
}
