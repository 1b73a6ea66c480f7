package chromalens

import (
	"context"
	"fmt"
	"time"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
)

// CollectionService manages collections.
type CollectionService struct {
	c *Client
}

// Create creates a new collection. A collection of the same name is a
// conflict (ErrAlreadyExists).
func (s *CollectionService) Create(
	ctx context.Context, name string, opts ...CollectionOption,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.create", start, err) }()

	cfg := collectCollectionConfig(opts)
	col, err := s.c.collSvc.Create(s.c.ctx(ctx), name, domcol.Metadata(cfg.metadata), cfg.dimension, domcol.Distance(cfg.distance))
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("create collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// Ensure creates the collection if it does not exist and returns the
// existing one otherwise.
func (s *CollectionService) Ensure(
	ctx context.Context, name string, opts ...CollectionOption,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.ensure", start, err) }()

	cfg := collectCollectionConfig(opts)
	col, err := s.c.collSvc.Ensure(s.c.ctx(ctx), name, domcol.Metadata(cfg.metadata), cfg.dimension, domcol.Distance(cfg.distance))
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("ensure collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// Get retrieves collection metadata by name.
func (s *CollectionService) Get(
	ctx context.Context, name string,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.get", start, err) }()

	col, err := s.c.collSvc.Get(s.c.ctx(ctx), name)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("get collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// List returns one page of collections. Pass an empty cursor for the first
// page; a result with an empty NextCursor is the last page. Limit 0 uses
// the default page size.
func (s *CollectionService) List(
	ctx context.Context, cursor string, limit int,
) (_ CollectionListResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.list", start, err) }()

	cols, next, err := s.c.collSvc.List(s.c.ctx(ctx), cursor, limit)
	if err != nil {
		return CollectionListResult{}, fmt.Errorf("list collections: %w", err)
	}

	out := make([]CollectionInfo, len(cols))
	for i, col := range cols {
		out[i] = fromInternalCollection(col)
	}
	return CollectionListResult{Collections: out, NextCursor: next}, nil
}

// Pager returns a restartable pager over all collections, fetching pages of
// pageSize lazily.
func (s *CollectionService) Pager(pageSize int) *Pager[CollectionInfo] {
	return newPager(pageSize, func(ctx context.Context, cursor string, limit int) ([]CollectionInfo, string, error) {
		res, err := s.List(ctx, cursor, limit)
		if err != nil {
			return nil, "", err
		}
		return res.Collections, res.NextCursor, nil
	})
}

// Update renames a collection and/or replaces its metadata. Empty newName
// keeps the current name; nil newMetadata keeps the current metadata.
func (s *CollectionService) Update(
	ctx context.Context, name, newName string, newMetadata Metadata,
) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.update", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.c.collSvc.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}

	var rename *string
	if newName != "" && newName != name {
		rename = &newName
	}
	if err = s.c.collSvc.Update(ctx, col, rename, domcol.Metadata(newMetadata)); err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	return nil
}

// Delete removes a collection and all its items. Deleting an unknown
// collection fails with ErrNotFound.
func (s *CollectionService) Delete(
	ctx context.Context, name string,
) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.delete", start, err) }()

	if err = s.c.collSvc.Delete(s.c.ctx(ctx), name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Count returns the number of items in a collection.
func (s *CollectionService) Count(
	ctx context.Context, name string,
) (_ int, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.count", start, err) }()

	ctx = s.c.ctx(ctx)
	col, err := s.c.collSvc.Get(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("count collection: %w", err)
	}
	return s.c.collSvc.Count(ctx, col)
}

// CountAll returns the number of collections in the database.
func (s *CollectionService) CountAll(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("collection.count_all", start, err) }()
	return s.c.collSvc.CountAll(s.c.ctx(ctx))
}

func collectCollectionConfig(opts []CollectionOption) *collectionConfig {
	cfg := &collectionConfig{distance: DistanceL2}
	for _, o := range opts {
		o.applyCollection(cfg)
	}
	return cfg
}

func fromInternalCollection(col domcol.Collection) CollectionInfo {
	return CollectionInfo{
		ID:        col.ID(),
		Name:      col.Name(),
		Tenant:    col.Tenant(),
		Database:  col.Database(),
		Metadata:  Metadata(col.Metadata()),
		Dimension: col.Dimension(),
		Distance:  Distance(col.Distance()),
	}
}
