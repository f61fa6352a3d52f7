// Package pager reconciles the two pagination semantics of the listing
// and search endpoints behind one incremental-loading contract. The
// plain listing endpoints report no total, so "more pages" is inferred
// from a full page; the search endpoint reports an authoritative
// total_count. A Fetcher implementation encapsulates one of the two
// modes; switching modes means building a fresh Pager.
package pager

// Page is one fetched page of items.
type Page[T any] struct {
	Items []T

	// Fetched is how many items the endpoint returned before any
	// client-side filtering; the full-page heuristic works on this, not
	// on len(Items).
	Fetched int

	// TotalCount is meaningful only when Authoritative is true.
	TotalCount    int
	Authoritative bool
}

// Fetcher retrieves one page. Pages are numbered from 1.
type Fetcher[T any] interface {
	FetchPage(page int) (Page[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(page int) (Page[T], error)

func (f FetcherFunc[T]) FetchPage(page int) (Page[T], error) {
	return f(page)
}

// State is the pager's lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

// Pager accumulates pages from a Fetcher and tracks whether more are
// available. It is not safe for concurrent use; callers serialize loads
// (in the TUI, at most one load command per pager is in flight).
type Pager[T any] struct {
	fetcher Fetcher[T]
	perPage int

	state   State
	items   []T
	page    int
	total   int
	hasMore bool
	err     error
}

// New returns an idle pager. hasMore starts true so the first LoadMore
// fetches page 1.
func New[T any](fetcher Fetcher[T], perPage int) *Pager[T] {
	return &Pager[T]{fetcher: fetcher, perPage: perPage, hasMore: true}
}

// LoadMore fetches the next page and appends its items. A failure moves
// the pager to Error but keeps everything already accumulated; calling
// LoadMore again retries the same page.
func (p *Pager[T]) LoadMore() error {
	if p.state == Loading || !p.hasMore {
		return nil
	}
	p.state = Loading
	p.err = nil

	page, err := p.fetcher.FetchPage(p.page + 1)
	if err != nil {
		p.state = Error
		p.err = err
		return err
	}

	p.page++
	p.items = append(p.items, page.Items...)
	if page.Authoritative {
		p.total = page.TotalCount
		p.hasMore = len(p.items) < page.TotalCount
	} else {
		p.hasMore = page.Fetched == p.perPage
	}
	p.state = Success
	return nil
}

func (p *Pager[T]) State() State { return p.state }
func (p *Pager[T]) Items() []T   { return p.items }
func (p *Pager[T]) HasMore() bool {
	return p.hasMore
}
func (p *Pager[T]) Err() error { return p.err }
func (p *Pager[T]) Page() int  { return p.page }

// Total returns the authoritative total when the fetcher provides one,
// and the accumulated count otherwise.
func (p *Pager[T]) Total() int {
	if p.total > 0 {
		return p.total
	}
	return len(p.items)
}
