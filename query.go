package chromalens

import (
	"context"
	"time"

	domquery "github.com/chromalens/chromalens-go/internal/domain/query"
)

// QueryService runs similarity searches against a single collection.
type QueryService struct {
	c   *Client
	ref *colRef
}

// QueryOption refines a similarity search.
type QueryOption interface {
	apply(*queryConfig)
}

type queryOptionFunc func(*queryConfig)

func (f queryOptionFunc) apply(cfg *queryConfig) { f(cfg) }

type queryConfig struct {
	where         Where
	whereDocument WhereDocument
	include       []Include
}

// WithWhere restricts the search to items matching the metadata filter.
func WithWhere(where Where) QueryOption {
	return queryOptionFunc(func(cfg *queryConfig) { cfg.where = where })
}

// WithWhereDocument restricts the search to items whose document matches
// the filter.
func WithWhereDocument(filter WhereDocument) QueryOption {
	return queryOptionFunc(func(cfg *queryConfig) { cfg.whereDocument = filter })
}

// WithInclude selects which item fields the results carry. Distances are
// always returned.
func WithInclude(include ...Include) QueryOption {
	return queryOptionFunc(func(cfg *queryConfig) { cfg.include = include })
}

// Search returns the topK nearest items to vector, ordered by ascending
// distance.
func (s *QueryService) Search(ctx context.Context, vector []float32, topK int, opts ...QueryOption) (_ []ScoredItem, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("query.search", start, err) }()

	lists, err := s.search(ctx, [][]float32{vector}, topK, opts)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return lists[0], nil
}

// SearchMany runs one search per query vector in a single round trip. The
// result holds one list per vector, in input order.
func (s *QueryService) SearchMany(ctx context.Context, vectors [][]float32, topK int, opts ...QueryOption) (_ [][]ScoredItem, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("query.search_many", start, err) }()
	return s.search(ctx, vectors, topK, opts)
}

func (s *QueryService) search(ctx context.Context, vectors [][]float32, topK int, opts []QueryOption) ([][]ScoredItem, error) {
	var cfg queryConfig
	for _, o := range opts {
		o.apply(&cfg)
	}

	ctx = s.c.ctx(ctx)
	col, err := s.ref.resolve(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := s.c.querySvc.Search(ctx, col, vectors, topK,
		domquery.Where(cfg.where), domquery.WhereDocument(cfg.whereDocument), toInternalInclude(cfg.include))
	if err != nil {
		return nil, err
	}

	out := make([][]ScoredItem, len(lists))
	for i, list := range lists {
		out[i] = fromInternalScored(list)
	}
	return out, nil
}

func fromInternalScored(list []domquery.Scored) []ScoredItem {
	out := make([]ScoredItem, len(list))
	for i, sc := range list {
		it := sc.Item()
		out[i] = ScoredItem{
			Item: Item{
				ID:       it.ID(),
				Vector:   it.Vector(),
				Metadata: Metadata(it.Metadata()),
				Document: it.Document(),
			},
			Distance: sc.Distance(),
		}
	}
	return out
}
