package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	// DefaultPageSize is the number of rows per list page.
	DefaultPageSize = 10
	// DefaultListTimeout is how long a list view stays usable after the last interaction.
	DefaultListTimeout = 60 * time.Second
)

// PaginatedList splits rows into fixed-size pages and tracks the page on display.
type PaginatedList[T any] struct {
	pages   [][]T
	current int
}

// NewPaginatedList chunks rows into pages of pageSize. The initial page is the
// one holding the first row for which highlight returns true, or 0.
func NewPaginatedList[T any](rows []T, pageSize int, highlight func(T) bool) *PaginatedList[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var pages [][]T
	if len(rows) > 0 {
		pages = lo.Chunk(rows, pageSize)
	}

	current := 0
	if highlight != nil {
		if _, index, ok := lo.FindIndexOf(rows, highlight); ok {
			current = index / pageSize
		}
	}

	return &PaginatedList[T]{pages: pages, current: current}
}

// PageCount returns the number of pages.
func (p *PaginatedList[T]) PageCount() int {
	return len(p.pages)
}

// CurrentPage returns the index of the page on display.
func (p *PaginatedList[T]) CurrentPage() int {
	return p.current
}

// Rows returns the rows of the page on display.
func (p *PaginatedList[T]) Rows() []T {
	if p.current >= len(p.pages) {
		return nil
	}
	return p.pages[p.current]
}

// HasPrevious reports whether a page exists before the current one.
func (p *PaginatedList[T]) HasPrevious() bool {
	return p.current > 0
}

// HasNext reports whether a page exists after the current one.
func (p *PaginatedList[T]) HasNext() bool {
	return p.current+1 < len(p.pages)
}

// Goto moves to page if it exists. An out-of-range page leaves the current
// page on display and returns false.
func (p *PaginatedList[T]) Goto(page int) bool {
	if page < 0 || page >= len(p.pages) {
		return false
	}
	p.current = page
	return true
}

// Back moves one page backwards, clamped at the first page.
func (p *PaginatedList[T]) Back() bool {
	return p.Goto(p.current - 1)
}

// Next moves one page forwards, clamped at the last page.
func (p *PaginatedList[T]) Next() bool {
	return p.Goto(p.current + 1)
}

// ListViewSession binds a paginated list to one interaction. Transitions
// must carry the session's handshake token and arrive before the idle
// deadline; each accepted transition pushes the deadline back.
type ListViewSession[T any] struct {
	Token    string
	list     *PaginatedList[T]
	timeout  time.Duration
	deadline time.Time
}

// NewListViewSession opens a session over list with a random handshake token.
func NewListViewSession[T any](list *PaginatedList[T], timeout time.Duration, now time.Time) *ListViewSession[T] {
	if timeout <= 0 {
		timeout = DefaultListTimeout
	}
	return &ListViewSession[T]{
		Token:    uuid.NewString(),
		list:     list,
		timeout:  timeout,
		deadline: now.Add(timeout),
	}
}

// List returns the underlying paginated list.
func (s *ListViewSession[T]) List() *PaginatedList[T] {
	return s.list
}

// Expired reports whether the idle window has passed.
func (s *ListViewSession[T]) Expired(now time.Time) bool {
	return !now.Before(s.deadline)
}

// Touch resets the idle window.
func (s *ListViewSession[T]) Touch(now time.Time) {
	s.deadline = now.Add(s.timeout)
}
