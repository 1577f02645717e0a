// Package query turns declarative filter, ordering and paging parameters
// into store-neutral conditions, and renders those conditions either as SQL
// or as an in-memory predicate.
package query

import (
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
)

// Comparator is the relation a condition checks between a field and a value.
type Comparator string

const (
	Exact       Comparator = "exact"
	LessThan    Comparator = "lt"
	GreaterThan Comparator = "gt"
)

// Kind is the type a filter parameter is parsed into.
type Kind int

const (
	KindString Kind = iota
	KindTime
	KindBool
)

// Filter binds a query parameter to a field and a comparator.
type Filter struct {
	Param      string
	Field      string
	Comparator Comparator
	Kind       Kind
}

// FilterSpec is the set of filters an endpoint accepts. Parameters not named
// in the spec are ignored.
type FilterSpec []Filter

// Condition is one parsed filter ready to be applied by a store.
type Condition struct {
	Field      string
	Comparator Comparator
	Value      any
}

// Eq is a shorthand for an exact-match condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Comparator: Exact, Value: value}
}

// timeLayouts are tried in order when parsing KindTime parameters.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse reads the spec's parameters from values. Empty parameters are
// skipped. Malformed values are collected into a *common.ValidationError.
func (s FilterSpec) Parse(values url.Values) ([]Condition, error) {
	verr := common.NewValidationError()
	conds := make([]Condition, 0, len(s))

	for _, f := range s {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}

		switch f.Kind {
		case KindTime:
			ts, ok := ParseTime(raw)
			if !ok {
				verr.Add(f.Param, "Enter a valid date/time.")
				continue
			}
			conds = append(conds, Condition{Field: f.Field, Comparator: f.Comparator, Value: ts})
		case KindBool:
			b, ok := parseBool(raw)
			if !ok {
				verr.Add(f.Param, "Enter true or false.")
				continue
			}
			conds = append(conds, Condition{Field: f.Field, Comparator: f.Comparator, Value: b})
		default:
			conds = append(conds, Condition{Field: f.Field, Comparator: f.Comparator, Value: raw})
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return conds, nil
}

// ParseTime accepts the date/time layouts used by filters and payloads and
// normalizes the result to UTC.
func ParseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}
