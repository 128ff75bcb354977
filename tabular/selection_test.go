package tabular

import "testing"

func visibleRows(ids ...string) []Row {
	out := make([]Row, len(ids))
	for i, id := range ids {
		out[i] = Row{"id": id}
	}
	return out
}

func TestSelectionSurvivesFiltering(t *testing.T) {
	sel := NewSelection("id")
	sel.Toggle("2", true)

	// Row 2 disappears from view; the selection must not care.
	if !sel.Has("2") {
		t.Fatalf("hidden row must stay selected")
	}

	// Selecting everything visible adds to, rather than replaces, the set.
	sel.SelectAllVisible(visibleRows("1", "3"))
	if sel.Len() != 3 || !sel.Has("2") {
		t.Fatalf("hidden selection lost across select-all, got %v", sel.IDs())
	}
}

func TestSelectionToggleSemantics(t *testing.T) {
	sel := NewSelection("id")

	sel.Toggle("1", false)
	sel.Toggle("2", true)
	if !sel.Has("1") || !sel.Has("2") {
		t.Fatalf("additive toggle must keep prior selection")
	}

	sel.Toggle("2", true)
	if sel.Has("2") {
		t.Fatalf("additive toggle must deselect a selected row")
	}

	sel.Toggle("3", false)
	if sel.Len() != 1 || !sel.Has("3") {
		t.Fatalf("plain click must replace the selection, got %v", sel.IDs())
	}
}

func TestSelectionRange(t *testing.T) {
	sel := NewSelection("id")
	visible := visibleRows("a", "b", "c", "d", "e")

	sel.SelectRange("b", "d", visible)
	if sel.Len() != 3 || !sel.Has("b") || !sel.Has("c") || !sel.Has("d") {
		t.Fatalf("expected b..d selected, got %v", sel.IDs())
	}

	// Reversed anchor and target cover the same range.
	sel.Clear()
	sel.SelectRange("d", "b", visible)
	if sel.Len() != 3 {
		t.Fatalf("reversed range must match, got %v", sel.IDs())
	}

	// An end outside the visible set selects nothing.
	sel.Clear()
	sel.SelectRange("a", "hidden", visible)
	if sel.Len() != 0 {
		t.Fatalf("range with hidden end must be a no-op, got %v", sel.IDs())
	}

	// Anchor equals target: a single row.
	sel.SelectRange("c", "c", visible)
	if sel.Len() != 1 || !sel.Has("c") {
		t.Fatalf("single-row range failed, got %v", sel.IDs())
	}
}

func TestSelectionInvertTouchesOnlyVisible(t *testing.T) {
	sel := NewSelection("id")
	sel.Toggle("hidden", true)
	sel.Toggle("a", true)

	sel.Invert(visibleRows("a", "b"))
	if sel.Has("a") {
		t.Fatalf("visible selected row must flip off")
	}
	if !sel.Has("b") {
		t.Fatalf("visible unselected row must flip on")
	}
	if !sel.Has("hidden") {
		t.Fatalf("hidden selection must stay put")
	}
}

func TestSelectionAllVisibleAndClear(t *testing.T) {
	sel := NewSelection("id")
	sel.SelectAllVisible(visibleRows("1", "2", "3"))
	if sel.Len() != 3 {
		t.Fatalf("expected 3 selected, got %d", sel.Len())
	}

	got := sel.IDs()
	for i, want := range []string{"1", "2", "3"} {
		if got[i] != want {
			t.Fatalf("expected deterministic id order, got %v", got)
		}
	}

	sel.Clear()
	if sel.Len() != 0 {
		t.Fatalf("expected empty selection after clear")
	}
}
