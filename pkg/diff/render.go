package diff

// RowKind classifies one row of a render plan side.
type RowKind int

const (
	// RowUnchanged is a real row present identically on both sides.
	RowUnchanged RowKind = iota
	// RowDelete is a real row removed from the original (left side).
	RowDelete
	// RowInsert is a real row added to the modified (right side).
	RowInsert
	// RowFiller is a virtual row with no source line, padding one side so
	// both stay aligned.
	RowFiller
)

// CharSpan highlights the columns [StartCol, EndCol) of a row. Columns
// are 1-based UTF-16 code units, like every column in this package.
type CharSpan struct {
	StartCol int
	EndCol   int
}

// Row is one visual row on one side of a render plan.
type Row struct {
	Kind RowKind
	// Line is the 1-based source line this row shows; 0 for fillers.
	Line int
	// Spans are the character highlights of this row: deletions on the
	// left side, insertions on the right.
	Spans []CharSpan
}

// RenderPlan is a passive two-sided description of how to present a diff
// side by side. Both sides always have the same number of rows.
type RenderPlan struct {
	Left  []Row
	Right []Row
	// HitTimeout is carried over from the underlying LinesDiff.
	HitTimeout bool
}

// ComputeRenderPlan runs [Compute] and builds the render plan for its
// result.
func ComputeRenderPlan(original, modified []string, opts Options) *RenderPlan {
	d := Compute(original, modified, opts)
	return BuildRenderPlan(d, original, modified)
}

// BuildRenderPlan lays out a computed diff side by side: unchanged rows in
// lockstep outside the changes; inside a change, DELETE rows on the left
// and INSERT rows on the right, the shorter side padded with trailing
// filler rows, and character highlights attached from the inner changes.
func BuildRenderPlan(d *LinesDiff, original, modified []string) *RenderPlan {
	p := &RenderPlan{HitTimeout: d.HitTimeout}
	nextOrig, nextMod := 1, 1

	emitUnchanged := func(untilOrig int) {
		for nextOrig < untilOrig {
			p.Left = append(p.Left, Row{Kind: RowUnchanged, Line: nextOrig})
			p.Right = append(p.Right, Row{Kind: RowUnchanged, Line: nextMod})
			nextOrig++
			nextMod++
		}
	}

	for _, c := range d.Changes {
		emitUnchanged(c.Original.Start)

		groupStart := len(p.Left)
		for l := c.Original.Start; l < c.Original.End; l++ {
			p.Left = append(p.Left, Row{Kind: RowDelete, Line: l})
		}
		for l := c.Modified.Start; l < c.Modified.End; l++ {
			p.Right = append(p.Right, Row{Kind: RowInsert, Line: l})
		}
		for len(p.Left) < len(p.Right) {
			p.Left = append(p.Left, Row{Kind: RowFiller})
		}
		for len(p.Right) < len(p.Left) {
			p.Right = append(p.Right, Row{Kind: RowFiller})
		}

		for _, ic := range c.InnerChanges {
			attachSpans(p.Left[groupStart:], ic.Original, original)
			attachSpans(p.Right[groupStart:], ic.Modified, modified)
		}

		nextOrig, nextMod = c.Original.End, c.Modified.End
	}
	emitUnchanged(len(original) + 1)

	return p
}

// attachSpans distributes the character range r over the real rows of one
// group side: the start column on the first line, the end column on the
// last, whole lines in between. An end column of 1 on a line past the
// group contributes nothing and is skipped.
func attachSpans(rows []Row, r Range, lines []string) {
	for l := r.Start.Line; l <= r.End.Line; l++ {
		row := findRow(rows, l)
		if row == nil {
			continue
		}
		startCol := 1
		if l == r.Start.Line {
			startCol = r.Start.Col
		}
		var endCol int
		if l == r.End.Line {
			endCol = r.End.Col
		} else {
			endCol = lineLengthUTF16(lines, l) + 1
		}
		if endCol < startCol {
			continue
		}
		row.Spans = append(row.Spans, CharSpan{StartCol: startCol, EndCol: endCol})
	}
}

func findRow(rows []Row, line int) *Row {
	for i := range rows {
		if rows[i].Kind != RowFiller && rows[i].Line == line {
			return &rows[i]
		}
	}
	return nil
}
