package tabular

import (
	"strings"
	"time"
)

// Filter is a per-column predicate. A value that cannot be coerced to the
// filter's type fails the filter; rows are excluded, never errored on.
type Filter interface {
	Matches(value any) bool
}

// FilterSet maps column keys to active filters. A missing key means "no
// constraint"; the empty set is the identity transform.
type FilterSet map[string]Filter

// ExactFilter keeps rows whose value equals the given string,
// case-insensitively.
type ExactFilter struct {
	Value string
}

func (f ExactFilter) Matches(value any) bool {
	return strings.EqualFold(asString(value), f.Value)
}

// NumberRangeFilter keeps rows whose numeric value lies within [Min, Max],
// inclusive on whichever bounds are supplied. A nil bound is unbounded on
// that side.
type NumberRangeFilter struct {
	Min *float64
	Max *float64
}

func (f NumberRangeFilter) Matches(value any) bool {
	n, ok := asNumber(value)
	if !ok {
		return false
	}
	if f.Min != nil && n < *f.Min {
		return false
	}
	if f.Max != nil && n > *f.Max {
		return false
	}
	return true
}

// DateRangeFilter keeps rows whose date value lies within [Start, End],
// inclusive on whichever bounds are supplied.
type DateRangeFilter struct {
	Start *time.Time
	End   *time.Time
}

func (f DateRangeFilter) Matches(value any) bool {
	ts, ok := asTime(value)
	if !ok {
		return false
	}
	if f.Start != nil && ts.Before(*f.Start) {
		return false
	}
	if f.End != nil && ts.After(*f.End) {
		return false
	}
	return true
}

// BoolFilter keeps rows whose boolean value equals Value.
type BoolFilter struct {
	Value bool
}

func (f BoolFilter) Matches(value any) bool {
	b, ok := asBool(value)
	return ok && b == f.Value
}

// ApplyFilters keeps the rows passing every active filter (logical AND),
// preserving input order. With no active filters the input is returned
// unchanged.
func ApplyFilters(rows []Row, filters FilterSet) []Row {
	if len(filters) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAll(row Row, filters FilterSet) bool {
	for key, filter := range filters {
		if filter == nil {
			continue
		}
		if !filter.Matches(row[key]) {
			return false
		}
	}
	return true
}

// ApplySearch keeps rows where any of the searchable fields contains the
// term, case-insensitively. An empty term is the identity.
func ApplySearch(rows []Row, term string, fields []string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || len(fields) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(asString(row[field])), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
