package chromalens

import "context"

// Pager iterates lazily over a paginated listing. A fresh page is fetched
// only when Next is called and the previous page is exhausted. Pager is not
// safe for concurrent use; create one per goroutine.
type Pager[T any] struct {
	pageSize int
	fetch    func(ctx context.Context, cursor string, limit int) ([]T, string, error)

	cursor  string
	done    bool
	page    []T
	pos     int
}

func newPager[T any](pageSize int, fetch func(ctx context.Context, cursor string, limit int) ([]T, string, error)) *Pager[T] {
	return &Pager[T]{pageSize: pageSize, fetch: fetch}
}

// Next returns the next element. The second return value is false when the
// listing is exhausted or an error occurred; check Err afterwards.
func (p *Pager[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for p.pos >= len(p.page) {
		if p.done {
			return zero, false, nil
		}
		if err := p.loadPage(ctx); err != nil {
			return zero, false, err
		}
	}
	v := p.page[p.pos]
	p.pos++
	return v, true, nil
}

// NextPage returns the next full page. A nil page with a nil error means the
// listing is exhausted.
func (p *Pager[T]) NextPage(ctx context.Context) ([]T, error) {
	// Drain anything Next already buffered first.
	if p.pos < len(p.page) {
		page := p.page[p.pos:]
		p.pos = len(p.page)
		return page, nil
	}
	// When the total count is an exact multiple of the page size the server
	// still hands out a cursor after the last full page; the follow-up fetch
	// comes back empty and only then marks the listing done. Skip such empty
	// pages so a nil page is the sole exhaustion signal.
	for !p.done {
		if err := p.loadPage(ctx); err != nil {
			return nil, err
		}
		if len(p.page) > 0 {
			page := p.page
			p.pos = len(p.page)
			return page, nil
		}
	}
	return nil, nil
}

func (p *Pager[T]) loadPage(ctx context.Context) error {
	items, next, err := p.fetch(ctx, p.cursor, p.pageSize)
	if err != nil {
		return err
	}
	p.page = items
	p.pos = 0
	p.cursor = next
	if next == "" || len(items) == 0 {
		p.done = true
	}
	return nil
}

// Reset rewinds the pager to the first page. The next call to Next or
// NextPage fetches fresh data.
func (p *Pager[T]) Reset() {
	p.cursor = ""
	p.done = false
	p.page = nil
	p.pos = 0
}

// All walks every remaining element, fetching pages as needed.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for {
		v, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
