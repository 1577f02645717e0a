package query

import (
	"slices"
	"strings"
	"time"
)

// Getter returns the value of a logical field of some record.
type Getter func(field string) any

// Match reports whether the record exposed by get satisfies every condition.
func Match(conds []Condition, get Getter) bool {
	for _, c := range conds {
		if !matchOne(c, get(c.Field)) {
			return false
		}
	}
	return true
}

func matchOne(c Condition, actual any) bool {
	actual = deref(actual)
	want := deref(c.Value)

	if want == nil || actual == nil {
		return c.Comparator == Exact && want == nil && actual == nil
	}

	cmp, ok := compare(actual, want)
	if !ok {
		return false
	}
	switch c.Comparator {
	case Exact:
		return cmp == 0
	case LessThan:
		return cmp < 0
	case GreaterThan:
		return cmp > 0
	}
	return false
}

func deref(v any) any {
	switch p := v.(type) {
	case *bool:
		if p == nil {
			return nil
		}
		return *p
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

// compare orders two values of the same dynamic type.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return strings.Compare(x, y), ok
	case time.Time:
		y, ok := b.(time.Time)
		return x.Compare(y), ok
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case int64:
		y, ok := b.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Sort orders items in place by order, falling back to the original
// (insertion) order for ties.
func Sort[T any](items []T, order []Order, get func(item T, field string) any) {
	if len(order) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, o := range order {
			c, ok := compare(deref(get(a, o.Field)), deref(get(b, o.Field)))
			if !ok || c == 0 {
				continue
			}
			if o.Desc {
				return -c
			}
			return c
		}
		return 0
	})
}

// Paginate returns the window of items selected by p.
func Paginate[T any](items []T, p Page) []T {
	off := p.Offset()
	if off < 0 || off >= len(items) {
		return []T{}
	}
	end := off + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}
