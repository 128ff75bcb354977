package tabular

import (
	"math"
	"sort"
	"strings"
)

// ApplySort returns a stably sorted copy of rows. Numeric columns compare
// numerically, date columns as timestamps, everything else as
// case-insensitive strings. Missing or uncoercible values sort as the lowest
// value of the column's type, and ties preserve input order.
func ApplySort(rows []Row, spec SortSpec, columns []Column) []Row {
	out := append([]Row(nil), rows...)
	if spec.Key == "" {
		return out
	}

	colType := TypeString
	for _, col := range columns {
		if col.Key == spec.Key {
			colType = col.Type
			break
		}
	}

	less := lessFunc(spec.Key, colType)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Direction == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key string, colType ColumnType) func(a, b Row) bool {
	switch colType {
	case TypeNumber:
		return func(a, b Row) bool {
			return sortNumber(a[key]) < sortNumber(b[key])
		}
	case TypeDate:
		return func(a, b Row) bool {
			return sortTime(a[key]) < sortTime(b[key])
		}
	case TypeBool:
		return func(a, b Row) bool {
			av, _ := asBool(a[key])
			bv, _ := asBool(b[key])
			return !av && bv
		}
	default:
		return func(a, b Row) bool {
			return strings.ToLower(asString(a[key])) < strings.ToLower(asString(b[key]))
		}
	}
}

func sortNumber(v any) float64 {
	n, ok := asNumber(v)
	if !ok {
		return math.Inf(-1)
	}
	return n
}

func sortTime(v any) int64 {
	ts, ok := asTime(v)
	if !ok {
		return 0
	}
	return ts.UnixMilli()
}
