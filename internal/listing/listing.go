// Package listing filters and paginates lists that are loaded in full from the
// backend.
package listing

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/synexis/synexis-admin/internal/shared"
)

// DefaultLimit is the page size when the request does not name one.
const DefaultLimit = 10

// MaxLimit caps the page size accepted from a request.
const MaxLimit = 100

// Query is the list state carried in the URL.
type Query struct {
	Page   int
	Limit  int
	Search string
}

// ParseQuery reads page, limit and search from the request.
func ParseQuery(r *http.Request) Query {
	values := r.URL.Query()
	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Query{Page: page, Limit: limit, Search: strings.TrimSpace(values.Get("search"))}
}

// Values encodes the query for links. Defaults are omitted.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}

// Filter keeps items where any of the given fields contains term, ignoring
// case. A blank term keeps everything.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Page is one page of a filtered list.
type Page[T any] struct {
	Items      []T
	Pagination shared.Pagination
	Query      Query
}

// Paginate slices items for the requested page. Pages past the end clamp to
// the last page.
func Paginate[T any](items []T, page, perPage int) ([]T, shared.Pagination) {
	meta := shared.NewPagination(page, perPage, len(items))
	if meta.TotalPages == 0 {
		meta.Page = 1
		return []T{}, meta
	}
	if meta.Page > meta.TotalPages {
		meta.Page = meta.TotalPages
	}
	start := (meta.Page - 1) * meta.PerPage
	end := start + meta.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}

// Apply filters and paginates items according to q.
func Apply[T any](items []T, q Query, fields func(T) []string) Page[T] {
	filtered := Filter(items, q.Search, fields)
	pageItems, meta := Paginate(filtered, q.Page, q.Limit)
	q.Page = meta.Page
	return Page[T]{Items: pageItems, Pagination: meta, Query: q}
}
