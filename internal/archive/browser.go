package archive

import (
	"context"
	"sync"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// ListFunc runs one archive query
type ListFunc[R any] func(ctx context.Context, filter *types.DocumentFilter) (R, error)

// Result is the outcome of one query. A stale result was overtaken by a
// newer query and is not retained.
type Result[R any] struct {
	Seq    uint64 `json:"seq"`
	Filter Filter `json:"filter"`
	Value  R      `json:"value"`
	Stale  bool   `json:"stale"`
}

// Browser holds the archive view of one session. Every change of filter
// or page re-queries; the last query issued wins.
type Browser[R any] struct {
	list     ListFunc[R]
	pageSize int

	mu     sync.Mutex
	filter Filter
	page   int
	seq    uint64
	latest *Result[R]
}

func NewBrowser[R any](list ListFunc[R], pageSize int) *Browser[R] {
	if pageSize <= 0 {
		pageSize = types.FILTER_DEFAULT_PAGE_SIZE
	}
	return &Browser[R]{
		list:     list,
		pageSize: pageSize,
		filter:   NewFilter(),
		page:     1,
	}
}

// Filter returns the current filter
func (b *Browser[R]) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Latest returns the newest retained result, if any
func (b *Browser[R]) Latest() (Result[R], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return Result[R]{}, false
	}
	return *b.latest, true
}

// Apply replaces the filter with change(current), goes back to the first
// page and re-queries.
func (b *Browser[R]) Apply(ctx context.Context, change func(Filter) Filter) (Result[R], error) {
	return b.ApplyPage(ctx, change, 1)
}

// ApplyPage is Apply landing on the given page instead of the first
func (b *Browser[R]) ApplyPage(ctx context.Context, change func(Filter) Filter, page int) (Result[R], error) {
	b.mu.Lock()
	b.filter = change(b.filter)
	b.page = max(page, 1)
	seq, filter, page := b.issue()
	b.mu.Unlock()

	return b.run(ctx, seq, filter, page)
}

// SetPage moves to another page under the current filter and re-queries
func (b *Browser[R]) SetPage(ctx context.Context, page int) (Result[R], error) {
	b.mu.Lock()
	b.page = max(page, 1)
	seq, filter, page := b.issue()
	b.mu.Unlock()

	return b.run(ctx, seq, filter, page)
}

// Refresh re-runs the current query
func (b *Browser[R]) Refresh(ctx context.Context) (Result[R], error) {
	b.mu.Lock()
	seq, filter, page := b.issue()
	b.mu.Unlock()

	return b.run(ctx, seq, filter, page)
}

// issue must be called with mu held
func (b *Browser[R]) issue() (uint64, Filter, int) {
	b.seq++
	return b.seq, b.filter, b.page
}

func (b *Browser[R]) run(ctx context.Context, seq uint64, filter Filter, page int) (Result[R], error) {
	value, err := b.list(ctx, filter.ToDocumentFilter(page, b.pageSize))

	b.mu.Lock()
	defer b.mu.Unlock()

	res := Result[R]{Seq: seq, Filter: filter, Value: value, Stale: seq != b.seq}
	if res.Stale {
		// a failure of an overtaken query is not the caller's concern
		return res, nil
	}
	if err != nil {
		return res, err
	}
	b.latest = &res
	return res, nil
}
