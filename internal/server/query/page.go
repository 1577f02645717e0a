package query

import (
	"math"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/dpnode/internal/common"
)

// PageParam is the query parameter carrying the 1-based page number.
const PageParam = "page"

// Page selects a window of a result set.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// ParsePage reads the page number from values. A missing parameter selects
// page 1; anything that is not a positive integer, or whose offset does not
// fit in an int, is common.ErrInvalidPage.
func ParsePage(values url.Values, size int) (Page, error) {
	raw := values.Get(PageParam)
	if raw == "" {
		return Page{Number: 1, Size: size}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Page{}, common.ErrInvalidPage
	}
	if size > 0 && n-1 > (math.MaxInt-size)/size {
		return Page{}, common.ErrInvalidPage
	}
	return Page{Number: n, Size: size}, nil
}

// Query is everything a repository needs to produce one page of a listing.
type Query struct {
	Conditions []Condition
	Order      []Order
	Page       Page
}

// Result is one page of a listing plus the size of the whole listing.
type Result[T any] struct {
	Items []T
	Total int
	Page  Page
}

// Check returns common.ErrInvalidPage when the page lies beyond the result
// set. The first page is always valid, even when empty.
func (r Result[T]) Check() error {
	if r.Page.Number > 1 && r.Page.Offset() >= r.Total {
		return common.ErrInvalidPage
	}
	return nil
}

// HasNext reports whether a page follows this one.
func (r Result[T]) HasNext() bool {
	return r.Page.Offset()+r.Page.Size < r.Total
}

// HasPrevious reports whether a page precedes this one.
func (r Result[T]) HasPrevious() bool {
	return r.Page.Number > 1
}
