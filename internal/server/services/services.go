// Package services holds the operations behind the REST API. Every
// operation takes the caller's Identity and enforces permissions before it
// returns data.
package services

import (
	"net/url"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

// listQuery parses the page and filters shared by every listing.
func listQuery(values url.Values, filters query.FilterSpec) (query.Query, error) {
	page, err := query.ParsePage(values, common.PageSize)
	if err != nil {
		return query.Query{}, err
	}
	conds, err := filters.Parse(values)
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{Conditions: conds, Page: page}, nil
}

// checked returns res, or common.ErrInvalidPage when the requested page lies
// beyond it.
func checked[T any](res query.Result[T], err error) (query.Result[T], error) {
	if err != nil {
		return res, err
	}
	if err := res.Check(); err != nil {
		return query.Result[T]{}, err
	}
	return res, nil
}
