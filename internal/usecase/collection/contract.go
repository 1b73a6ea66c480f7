package collection

import (
	"context"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
)

// Repository defines the wire contract for collections.
type Repository interface {
	Create(ctx context.Context, col domcol.Collection, getOrCreate bool) (domcol.Collection, error)
	Get(ctx context.Context, name string) (domcol.Collection, error)
	List(ctx context.Context, cursor string, limit int) ([]domcol.Collection, string, error)
	Update(ctx context.Context, id string, newName *string, newMetadata domcol.Metadata) error
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context, id string) (int, error)
	CountAll(ctx context.Context) (int, error)
}
