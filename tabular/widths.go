package tabular

// Width negotiation constants. Content widths are estimated as character
// counts times an average glyph width plus padding.
const (
	charWidth   = 8
	cellPadding = 24
	widthFloor  = 48
	sampleLimit = 20
)

// ComputeColumnWidths estimates a minimum width per column from the header
// and a sample of row content, clamps to each column's Min/MaxWidth, then
// compresses or expands the set to fill viewportWidth. Columns with a fixed
// Width are left untouched and only count against the available space.
func ComputeColumnWidths(columns []Column, sampleRows []Row, viewportWidth int) []Column {
	out := append([]Column(nil), columns...)
	if len(out) == 0 {
		return out
	}

	minimums := make([]int, len(out))
	fixed := make([]bool, len(out))
	total := 0
	for i, col := range out {
		if col.Width > 0 {
			minimums[i] = col.Width
			fixed[i] = true
			total += col.Width
			continue
		}
		w := contentWidth(col, sampleRows)
		if col.MinWidth > 0 && w < col.MinWidth {
			w = col.MinWidth
		}
		if col.MaxWidth > 0 && w > col.MaxWidth {
			w = col.MaxWidth
		}
		minimums[i] = w
		out[i].Width = w
		total += w
	}

	switch {
	case total > viewportWidth:
		compress(out, minimums, fixed, total, viewportWidth)
	case total < viewportWidth:
		expand(out, fixed, total, viewportWidth)
	}
	return out
}

func contentWidth(col Column, sampleRows []Row) int {
	w := len(col.Label)*charWidth + cellPadding
	if w < widthFloor {
		w = widthFloor
	}
	for i, row := range sampleRows {
		if i == sampleLimit {
			break
		}
		cw := len(asString(row[col.Key]))*charWidth + cellPadding
		if cw > w {
			w = cw
		}
	}
	return w
}

// compress shrinks non-critical, non-fixed columns proportionally down to
// the floor. Critical columns keep their content-derived minimum even when
// that leaves the table wider than the viewport (horizontal overflow).
func compress(out []Column, minimums []int, fixed []bool, total, viewport int) {
	shrinkable := 0
	for i, col := range out {
		if !col.Critical && !fixed[i] {
			shrinkable += minimums[i] - widthFloor
		}
	}
	if shrinkable <= 0 {
		return
	}

	deficit := total - viewport
	if deficit > shrinkable {
		deficit = shrinkable
	}
	removed := 0
	for i, col := range out {
		if col.Critical || fixed[i] {
			continue
		}
		slack := minimums[i] - widthFloor
		if slack <= 0 {
			continue
		}
		cut := deficit * slack / shrinkable
		out[i].Width = minimums[i] - cut
		removed += cut
	}
	// Integer division undershoots; take the remainder one pixel at a time
	// from whichever columns still sit above the floor.
	for removed < deficit {
		progress := false
		for i, col := range out {
			if removed == deficit {
				break
			}
			if col.Critical || fixed[i] || out[i].Width <= widthFloor {
				continue
			}
			out[i].Width--
			removed++
			progress = true
		}
		if !progress {
			break
		}
	}
}

// expand distributes slack proportionally to natural width, honoring
// MaxWidth caps. Slack that no column can absorb is left over.
func expand(out []Column, fixed []bool, total, viewport int) {
	slack := viewport - total
	for pass := 0; pass < len(out) && slack > 0; pass++ {
		growable := 0
		for i, col := range out {
			if fixed[i] {
				continue
			}
			if col.MaxWidth > 0 && col.Width >= col.MaxWidth {
				continue
			}
			growable += col.Width
		}
		if growable == 0 {
			return
		}
		distributed := 0
		for i, col := range out {
			if fixed[i] {
				continue
			}
			if col.MaxWidth > 0 && col.Width >= col.MaxWidth {
				continue
			}
			grow := slack * col.Width / growable
			if grow == 0 {
				grow = 1
			}
			if col.MaxWidth > 0 && col.Width+grow > col.MaxWidth {
				grow = col.MaxWidth - col.Width
			}
			if grow > slack-distributed {
				grow = slack - distributed
			}
			out[i].Width += grow
			distributed += grow
			if distributed == slack {
				break
			}
		}
		slack -= distributed
		if distributed == 0 {
			return
		}
	}
}
