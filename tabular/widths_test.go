package tabular

import (
	"strings"
	"testing"
)

func totalWidth(cols []Column) int {
	sum := 0
	for _, c := range cols {
		sum += c.Width
	}
	return sum
}

func TestWidthsExpandToFillViewport(t *testing.T) {
	columns := []Column{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "city", Label: "City"},
	}
	rows := []Row{
		{"id": "prop-1", "name": "Lindenhof 12", "city": "Leipzig"},
	}

	out := ComputeColumnWidths(columns, rows, 1200)
	if got := totalWidth(out); got != 1200 {
		t.Fatalf("expected slack distributed to fill 1200, got %d", got)
	}
}

func TestWidthsCompressionRespectsViewport(t *testing.T) {
	long := strings.Repeat("x", 60)
	columns := []Column{
		{Key: "id", Label: "ID", Critical: true},
		{Key: "notes", Label: "Notes"},
		{Key: "extra", Label: "Extra"},
	}
	rows := []Row{{"id": "inv-1", "notes": long, "extra": long}}

	viewport := 700
	out := ComputeColumnWidths(columns, rows, viewport)
	if got := totalWidth(out); got > viewport {
		t.Fatalf("total %d exceeds viewport %d", got, viewport)
	}
}

func TestWidthsCriticalColumnsKeepTheirMinimum(t *testing.T) {
	long := strings.Repeat("x", 80)
	columns := []Column{
		{Key: "id", Label: "Identifier", Critical: true},
		{Key: "notes", Label: "Notes"},
	}
	rows := []Row{{"id": "con-2026-000123", "notes": long}}

	critMin := contentWidth(columns[0], rows)
	out := ComputeColumnWidths(columns, rows, 400)
	if out[0].Width < critMin {
		t.Fatalf("critical column shrank below its minimum: %d < %d", out[0].Width, critMin)
	}
}

func TestWidthsMaxWidthCapsExpansion(t *testing.T) {
	columns := []Column{
		{Key: "id", Label: "ID", MaxWidth: 100},
		{Key: "name", Label: "Name"},
	}

	out := ComputeColumnWidths(columns, nil, 2000)
	if out[0].Width > 100 {
		t.Fatalf("max width violated: %d", out[0].Width)
	}
	if got := totalWidth(out); got != 2000 {
		t.Fatalf("uncapped column should absorb the slack, total %d", got)
	}
}

func TestWidthsFixedColumnsUntouched(t *testing.T) {
	columns := []Column{
		{Key: "icon", Label: "", Width: 32},
		{Key: "name", Label: "Name"},
	}

	out := ComputeColumnWidths(columns, nil, 800)
	if out[0].Width != 32 {
		t.Fatalf("fixed width changed: %d", out[0].Width)
	}
}

func TestWidthsEmptyColumnSet(t *testing.T) {
	if out := ComputeColumnWidths(nil, nil, 800); len(out) != 0 {
		t.Fatalf("expected empty result")
	}
}
