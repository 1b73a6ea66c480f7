// Package collection implements collection lifecycle operations: validation
// happens here, before anything touches the network.
package collection

import (
	"context"
	"fmt"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
)

// Listing page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service handles collection CRUD operations.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new collection. An existing collection of
// the same name is a conflict.
func (s *Service) Create(
	ctx context.Context,
	name string, metadata domcol.Metadata, dimension int, distance domcol.Distance,
) (domcol.Collection, error) {
	col, err := domcol.New(name, metadata, dimension, distance)
	if err != nil {
		return domcol.Collection{}, err
	}

	created, err := s.repo.Create(ctx, col, false)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("create collection: %w", err)
	}
	return created, nil
}

// Ensure creates the collection if absent and returns the existing one
// otherwise.
func (s *Service) Ensure(
	ctx context.Context,
	name string, metadata domcol.Metadata, dimension int, distance domcol.Distance,
) (domcol.Collection, error) {
	col, err := domcol.New(name, metadata, dimension, distance)
	if err != nil {
		return domcol.Collection{}, err
	}

	ensured, err := s.repo.Create(ctx, col, true)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("ensure collection: %w", err)
	}
	return ensured, nil
}

// Get retrieves a collection by name.
func (s *Service) Get(ctx context.Context, name string) (domcol.Collection, error) {
	if err := domcol.ValidateName(name); err != nil {
		return domcol.Collection{}, err
	}
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// List returns one page of collections and the cursor of the next page.
// A non-positive limit falls back to DefaultPageSize; limits above
// MaxPageSize are clamped.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]domcol.Collection, string, error) {
	cols, next, err := s.repo.List(ctx, cursor, clampLimit(limit))
	if err != nil {
		return nil, "", fmt.Errorf("list collections: %w", err)
	}
	return cols, next, nil
}

// Update renames a collection and/or replaces its metadata.
func (s *Service) Update(ctx context.Context, col domcol.Collection, newName *string, newMetadata domcol.Metadata) error {
	if newName != nil {
		if err := domcol.ValidateName(*newName); err != nil {
			return err
		}
	}
	if err := domcol.ValidateMetadata(newMetadata); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, col.ID(), newName, newMetadata); err != nil {
		return fmt.Errorf("update collection %s: %w", col.Name(), err)
	}
	return nil
}

// Delete removes a collection and its items. Deleting an unknown collection
// is a not-found error.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := domcol.ValidateName(name); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Count returns the number of items in a collection.
func (s *Service) Count(ctx context.Context, col domcol.Collection) (int, error) {
	n, err := s.repo.Count(ctx, col.ID())
	if err != nil {
		return 0, fmt.Errorf("count collection %s: %w", col.Name(), err)
	}
	return n, nil
}

// CountAll returns the number of collections in the database.
func (s *Service) CountAll(ctx context.Context) (int, error) {
	n, err := s.repo.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("count collections: %w", err)
	}
	return n, nil
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
