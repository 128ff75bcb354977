// Package tabular implements the data pipeline behind the ERP list views:
// filtering, sorting, free-text search, column width negotiation, row
// selection, and the inline-edit lifecycle. Every transform is a pure
// function over plain records; presentation is kept out of the engine so it
// can be exercised without a rendering environment.
package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is a single record as decoded from a JSON response. The row identifier
// lives under the engine's configured id field, "id" by default.
type Row = map[string]any

// ColumnType drives comparison and formatting for a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeNumber
	TypeDate
	TypeBool
)

// Column is a plain-data descriptor supplied by the hosting page. The engine
// consumes it as-is; it defines none of them.
type Column struct {
	Key        string
	Label      string
	Type       ColumnType
	Sortable   bool
	Filterable bool
	Editable   bool

	// Width is the negotiated pixel width; zero means "compute it".
	Width    int
	MinWidth int
	MaxWidth int

	// Critical columns carry primary identifying information and resist
	// width compression.
	Critical bool

	// FormatHint refines rendering for the column type, e.g. "currency" or
	// "percent" for numbers.
	FormatHint string
}

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortSpec selects at most one active sort field. Ties keep input order, so
// the sort must be stable.
type SortSpec struct {
	Key       string
	Direction Direction
}

// dateLayouts are tried in order when coercing strings to timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(b)))
		return parsed, err == nil
	default:
		return false, false
	}
}

func rowID(row Row, idField string) string {
	return asString(row[idField])
}
