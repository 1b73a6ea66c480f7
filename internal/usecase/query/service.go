// Package query implements nearest-neighbour search with deterministic
// result ordering: non-decreasing distance, ties broken by ascending id.
package query

import (
	"context"
	"fmt"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
	domquery "github.com/chromalens/chromalens-go/internal/domain/query"
)

// Service executes validated queries against a collection.
type Service struct {
	repo Repository
}

// New creates a query service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search validates the request against the collection dimension, executes
// it, and returns one result list per query vector, each sorted and
// truncated to topK.
func (s *Service) Search(
	ctx context.Context, col domcol.Collection,
	vectors [][]float32, topK int,
	where domquery.Where, whereDocument domquery.WhereDocument,
	include []domquery.Include,
) ([][]domquery.Scored, error) {
	req, err := domquery.New(vectors, topK, col.Dimension(), where, whereDocument, include)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.Query(ctx, col.ID(), req)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", col.Name(), err)
	}

	for i := range results {
		domquery.Sort(results[i])
		if len(results[i]) > topK {
			results[i] = results[i][:topK]
		}
	}
	return results, nil
}
