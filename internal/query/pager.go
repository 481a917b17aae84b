// Package query implements incremental page loading over the gateway's
// limit/offset lists. A Pager accumulates pages in order and decides
// whether more exist from page shape alone; no endpoint reports totals.
package query

import (
	"context"
	"sync"
)

// Page sizes used across the app. Reply pages are deliberately small so
// expanding a thread stays cheap; feeds load in larger strides.
const (
	FeedPageSize    = 10
	RepliesPageSize = 5
)

// FetchPage loads one page at the given window. Implementations typically
// close over a gateway call and a cache key.
type FetchPage[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Pager accumulates pages of T in fetch order. It is safe for concurrent
// use; overlapping LoadMore calls collapse into a single fetch.
type Pager[T any] struct {
	mu       sync.Mutex
	pageSize int
	fetch    FetchPage[T]
	pages    [][]T
	enabled  bool
	loaded   bool
	hasMore  bool
	inflight bool
	err      error
}

// NewPager creates a pager that loads pageSize items per call. A disabled
// pager ignores LoadMore until Enable; its empty state means "not asked
// yet", never "asked and empty".
func NewPager[T any](pageSize int, fetch FetchPage[T]) *Pager[T] {
	return &Pager[T]{
		pageSize: pageSize,
		fetch:    fetch,
		enabled:  true,
		hasMore:  true,
	}
}

// Enable turns fetching on or off. Disabling does not discard pages already
// loaded.
func (p *Pager[T]) Enable(on bool) {
	p.mu.Lock()
	p.enabled = on
	p.mu.Unlock()
}

// LoadMore fetches the next page. It reports whether a fetch actually ran:
// false when the pager is disabled, exhausted, or another fetch is already
// in flight. A failed fetch leaves loaded pages intact and records the
// error; the next call retries the same window.
func (p *Pager[T]) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if !p.enabled || p.inflight || (p.loaded && !p.hasMore) {
		p.mu.Unlock()
		return false, nil
	}
	p.inflight = true
	offset := len(p.pages) * p.pageSize
	limit := p.pageSize
	p.mu.Unlock()

	items, err := p.fetch(ctx, limit, offset)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight = false
	if err != nil {
		p.err = err
		return false, err
	}
	p.err = nil
	p.loaded = true
	p.pages = append(p.pages, items)
	p.hasMore = len(items) == p.pageSize
	return true, nil
}

// Seed installs an already-fetched first page, as when a detail query
// embeds the opening page of a list. Subsequent LoadMore calls continue
// from the following offset. Seeding discards any loaded state.
func (p *Pager[T]) Seed(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = [][]T{items}
	p.loaded = true
	p.hasMore = len(items) == p.pageSize
	p.err = nil
}

// Items returns every loaded item in page order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []T
	for _, page := range p.pages {
		out = append(out, page...)
	}
	return out
}

// HasMore reports whether another page may exist. Before the first
// successful fetch it is optimistic.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loaded reports whether at least one fetch has succeeded. An empty Items
// with Loaded false means the pager has not run, not that the list is empty.
func (p *Pager[T]) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Err returns the error from the most recent failed fetch, cleared by the
// next success.
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Pages returns how many pages have loaded.
func (p *Pager[T]) Pages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// Reset discards all loaded pages and state so the next LoadMore starts
// from offset zero.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = nil
	p.loaded = false
	p.hasMore = true
	p.err = nil
}
