// Package pagination keeps list paging and sorting in step with a URL query
// string of the form "?page=<n>&sort=<field>,<direction>".
//
// Page is 1-based here and in the URL; the API wants it 0-based, which
// Params takes care of.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/aussiebroadwan/console/pkg/apiclient"
)

// Sort directions.
const (
	ASC  = "asc"
	DESC = "desc"
)

// DefaultPageSize is the page size the user list uses unless configured.
const DefaultPageSize = 20

// ErrInvalidQuery is returned by Validate.
var ErrInvalidQuery = errors.New("pagination: invalid query")

// Query is the paging and sorting of one list view.
type Query struct {
	Page  int
	Size  int
	Sort  string
	Order string
}

// Default returns page 1 of size items sorted ascending by sort.
func Default(size int, sort string) Query {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Query{Page: 1, Size: size, Sort: sort, Order: ASC}
}

// Validate reports whether q can round-trip through a URL.
func (q Query) Validate() error {
	switch {
	case q.Page < 1:
		return fmt.Errorf("%w: page %d", ErrInvalidQuery, q.Page)
	case q.Size <= 0:
		return fmt.Errorf("%w: size %d", ErrInvalidQuery, q.Size)
	case q.Sort == "" || strings.Contains(q.Sort, ","):
		return fmt.Errorf("%w: sort field %q", ErrInvalidQuery, q.Sort)
	case q.Order != ASC && q.Order != DESC:
		return fmt.Errorf("%w: order %q", ErrInvalidQuery, q.Order)
	}
	return nil
}

// Override applies the page and sort found in rawQuery on top of base.
// Both parameters must be present; otherwise base is returned unchanged.
// A direction other than asc or desc keeps the direction of base.
func Override(base Query, rawQuery string) Query {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return base
	}

	page, sort := values.Get("page"), values.Get("sort")
	if page == "" || sort == "" {
		return base
	}

	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		return base
	}

	field, order, _ := strings.Cut(sort, ",")
	if field == "" {
		return base
	}

	base.Page = n
	base.Sort = field
	if order == ASC || order == DESC {
		base.Order = order
	}
	return base
}

// Encode renders q as "?page=<n>&sort=<field>,<direction>".
func (q Query) Encode() string {
	return fmt.Sprintf("?page=%d&sort=%s,%s", q.Page, url.QueryEscape(q.Sort), url.QueryEscape(q.Order))
}

// Params converts q to the API's list parameters.
func (q Query) Params() apiclient.ListParams {
	return apiclient.ListParams{
		Page: q.Page - 1,
		Size: q.Size,
		Sort: q.Sort + "," + q.Order,
	}
}

// SortBy returns q sorted by field. Choosing the active field flips the
// direction; choosing another one starts it ascending.
func (q Query) SortBy(field string) Query {
	if field == q.Sort {
		if q.Order == ASC {
			q.Order = DESC
		} else {
			q.Order = ASC
		}
		return q
	}
	q.Sort = field
	q.Order = ASC
	return q
}

// GoTo returns q moved to page, never before the first one.
func (q Query) GoTo(page int) Query {
	q.Page = max(page, 1)
	return q
}

// LastPage is the last page that holds items when the list has total of
// them. An empty list still has page 1.
func (q Query) LastPage(total int) int {
	if q.Size <= 0 || total <= 0 {
		return 1
	}
	return (total + q.Size - 1) / q.Size
}

// Clamp moves q back to the last page holding items, if it is past it.
func (q Query) Clamp(total int) Query {
	if last := q.LastPage(total); q.Page > last {
		q.Page = last
	}
	return q
}

// Synchronizer holds the query of a list view and keeps the location in
// step with it.
type Synchronizer struct {
	mu sync.Mutex
	q  Query
}

// NewSynchronizer starts from defaults overridden by the query string the
// view was opened with.
func NewSynchronizer(defaults Query, location string) *Synchronizer {
	return &Synchronizer{q: Override(defaults, location)}
}

// Query returns the current query.
func (s *Synchronizer) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q
}

// Update replaces the current query with fn applied to it and returns the
// result, e.g. s.Update(func(q Query) Query { return q.SortBy("login") }).
func (s *Synchronizer) Update(fn func(Query) Query) Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q = fn(s.q)
	return s.q
}

// Navigated applies the page and sort of a new location. changed reports
// whether the query moved, which means the list must be fetched again.
func (s *Synchronizer) Navigated(location string) (q Query, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Override(s.q, location)
	changed = next != s.q
	s.q = next
	return next, changed
}

// Sync returns the location matching the current query. navigate is false
// when current already is that location.
func (s *Synchronizer) Sync(current string) (target string, navigate bool) {
	target = s.Query().Encode()
	if current != "" && !strings.HasPrefix(current, "?") {
		current = "?" + current
	}
	return target, current != target
}
