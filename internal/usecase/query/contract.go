package query

import (
	"context"

	domquery "github.com/chromalens/chromalens-go/internal/domain/query"
)

// Repository defines the wire contract for nearest-neighbour search.
type Repository interface {
	Query(ctx context.Context, collectionID string, q domquery.Request) ([][]domquery.Scored, error)
}
