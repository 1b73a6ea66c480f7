package item

import (
	"context"

	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	"github.com/chromalens/chromalens-go/internal/domain/query"
)

// Repository defines the wire contract for items within a collection.
type Repository interface {
	Add(ctx context.Context, collectionID string, items []domitem.Item) error
	Update(ctx context.Context, collectionID string, items []domitem.Item) error
	Upsert(ctx context.Context, collectionID string, items []domitem.Item) error
	Get(ctx context.Context, collectionID string, sel query.Selector, limit, offset int, include []query.Include) ([]domitem.Item, error)
	List(ctx context.Context, collectionID, cursor string, limit int, include []query.Include) ([]domitem.Item, string, error)
	Delete(ctx context.Context, collectionID string, sel query.Selector) error
	Count(ctx context.Context, collectionID string) (int, error)
}
