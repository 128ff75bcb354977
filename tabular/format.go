package tabular

import "strconv"

// Formatter renders cell values for display, keyed by column type and format
// hint. Keeping presentation here, out of the column descriptors, lets the
// engine stay renderer-agnostic.
type Formatter struct {
	DateLayout     string
	CurrencySymbol string
	TrueLabel      string
	FalseLabel     string
}

// DefaultFormatter matches the application's display conventions.
var DefaultFormatter = Formatter{
	DateLayout:     "2006-01-02",
	CurrencySymbol: "€",
	TrueLabel:      "yes",
	FalseLabel:     "no",
}

// Format renders a single cell. Values that cannot be coerced to the
// column's type fall back to default stringification.
func (f Formatter) Format(col Column, value any) string {
	if value == nil {
		return ""
	}
	switch col.Type {
	case TypeNumber:
		n, ok := asNumber(value)
		if !ok {
			return asString(value)
		}
		switch col.FormatHint {
		case "currency":
			return strconv.FormatFloat(n, 'f', 2, 64) + " " + f.CurrencySymbol
		case "percent":
			return strconv.FormatFloat(n, 'f', 1, 64) + " %"
		default:
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case TypeDate:
		ts, ok := asTime(value)
		if !ok {
			return asString(value)
		}
		return ts.Format(f.DateLayout)
	case TypeBool:
		b, ok := asBool(value)
		if !ok {
			return asString(value)
		}
		if b {
			return f.TrueLabel
		}
		return f.FalseLabel
	default:
		return asString(value)
	}
}
