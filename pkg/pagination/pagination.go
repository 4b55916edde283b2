package pagination

import "github.com/greekgang/terminal/internal/domain/domainerr"

// Params selects one page of a deterministically ordered collection.
// Page is 1-based and clamped to >= 1. When Strict is set, a page past the
// end is a not-found condition instead of an empty slice.
type Params struct {
	Page    int
	PerPage int
	Strict  bool
}

// Normalize clamps Page and applies the given default page size.
func (p Params) Normalize(defaultPerPage int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	return p
}

// Offset is the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one slice of an ordered collection plus enough bookkeeping for the
// {items, prev, next, count} envelope.
type Page[T any] struct {
	Items   []T
	Total   int64
	Number  int
	PerPage int
}

// New builds a Page from a fetched slice and total count, enforcing the
// strict-mode out-of-range rule.
func New[T any](items []T, total int64, p Params) (Page[T], error) {
	if p.Strict && p.Page > 1 && len(items) == 0 {
		return Page[T]{}, domainerr.ErrNotFound
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Number: p.Page, PerPage: p.PerPage}, nil
}

// HasPrev reports whether a previous page exists.
func (pg Page[T]) HasPrev() bool {
	return pg.Number > 1
}

// HasNext reports whether rows remain past this page.
func (pg Page[T]) HasNext() bool {
	return int64(pg.Number*pg.PerPage) < pg.Total
}
