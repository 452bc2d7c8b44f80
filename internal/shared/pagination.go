package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p Pagination) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

// From returns the 1-based index of the first item on the page.
func (p Pagination) From() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// To returns the 1-based index of the last item on the page.
func (p Pagination) To() int {
	to := p.Page * p.PerPage
	if to > p.Total {
		return p.Total
	}
	return to
}
