package query

import (
	"fmt"
	"strings"
)

// Columns maps logical field names to SQL column expressions. Only mapped
// fields may appear in a rendered query.
type Columns map[string]string

var sqlOps = map[Comparator]string{
	Exact:       "=",
	LessThan:    "<",
	GreaterThan: ">",
}

// Where renders conds as a WHERE clause with numbered placeholders starting
// at $start. It returns an empty clause when conds is empty.
func Where(conds []Condition, columns Columns, start int) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	n := start

	for _, c := range conds {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q", c.Field)
		}
		op, ok := sqlOps[c.Comparator]
		if !ok {
			return "", nil, fmt.Errorf("unknown comparator %q", c.Comparator)
		}
		if c.Value == nil {
			if c.Comparator != Exact {
				return "", nil, fmt.Errorf("comparator %q needs a value", c.Comparator)
			}
			parts = append(parts, col+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s $%d", col, op, n))
		args = append(args, c.Value)
		n++
	}

	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

// OrderBy renders an ORDER BY clause. tiebreak is always appended last so
// pages stay stable between requests.
func OrderBy(order []Order, columns Columns, tiebreak string) (string, error) {
	parts := make([]string, 0, len(order)+1)
	for _, o := range order {
		col, ok := columns[o.Field]
		if !ok {
			return "", fmt.Errorf("unknown ordering field %q", o.Field)
		}
		if o.Desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	parts = append(parts, tiebreak+" ASC")
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// Limit renders LIMIT/OFFSET placeholders starting at $start.
func Limit(p Page, start int) (string, []any) {
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", start, start+1), []any{p.Size, p.Offset()}
}
