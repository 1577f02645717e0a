package httpapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

// PageResponse is the envelope of every listing.
type PageResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// newPage converts one page of entities to the envelope, building absolute
// next/previous links from the request.
func newPage[E any, T any](r *http.Request, res query.Result[E], convert func(E) T) PageResponse[T] {
	out := PageResponse[T]{
		Count:   res.Total,
		Results: make([]T, 0, len(res.Items)),
	}
	for _, item := range res.Items {
		out.Results = append(out.Results, convert(item))
	}
	if res.HasNext() {
		link := pageLink(r, res.Page.Number+1)
		out.Next = &link
	}
	if res.HasPrevious() {
		link := pageLink(r, res.Page.Number-1)
		out.Previous = &link
	}
	return out
}

// pageLink rebuilds the request URL with the page parameter replaced. The
// first page is linked without a page parameter.
func pageLink(r *http.Request, page int) string {
	values := url.Values{}
	for k, v := range r.URL.Query() {
		values[k] = v
	}
	if page <= 1 {
		values.Del(query.PageParam)
	} else {
		values.Set(query.PageParam, strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   requestScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: values.Encode(),
	}
	return u.String()
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
