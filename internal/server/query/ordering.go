package query

import (
	"net/url"
	"strings"
)

// DefaultOrderingParam is the query parameter carrying the ordering.
const DefaultOrderingParam = "ordering"

// Order sorts by Field, descending when Desc is set.
type Order struct {
	Field string
	Desc  bool
}

// OrderingSpec lists the fields a caller may order by.
type OrderingSpec struct {
	Param  string
	Fields []string
}

// Parse reads a comma separated ordering such as "-updated_on,created_on".
// Unknown and repeated fields are dropped.
func (s OrderingSpec) Parse(values url.Values) []Order {
	param := s.Param
	if param == "" {
		param = DefaultOrderingParam
	}

	raw := values.Get(param)
	if raw == "" {
		return nil
	}

	allowed := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		allowed[f] = struct{}{}
	}

	seen := map[string]struct{}{}
	var out []Order
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		desc := strings.HasPrefix(term, "-")
		field := strings.TrimPrefix(term, "-")

		if _, ok := allowed[field]; !ok {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, Order{Field: field, Desc: desc})
	}
	return out
}
