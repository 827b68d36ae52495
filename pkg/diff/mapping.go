package diff

import "fmt"

// Position is a 1-based line and column pair. Columns count UTF-16 code
// units, matching the editor the output is compared against.
type Position struct {
	Line int
	Col  int
}

func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Col < o.Col)
}

func (p Position) String() string {
	return fmt.Sprintf("L%d:C%d", p.Line, p.Col)
}

// Range is a character range between two positions, end exclusive.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%v-%v", r.Start, r.End)
}

// LineRange is a half-open range of 1-based line numbers.
type LineRange struct {
	Start int
	End   int
}

func (r LineRange) Len() int      { return r.End - r.Start }
func (r LineRange) IsEmpty() bool { return r.Start >= r.End }

func (r LineRange) Join(o LineRange) LineRange {
	return LineRange{min(r.Start, o.Start), max(r.End, o.End)}
}

// OverlapOrTouch reports whether the two ranges intersect or are directly
// adjacent.
func (r LineRange) OverlapOrTouch(o LineRange) bool {
	return r.Start <= o.End && o.Start <= r.End
}

// RangeMapping maps a character range of the original document to the
// character range of the modified document that replaced it.
type RangeMapping struct {
	Original Range
	Modified Range
}

// DetailedLineRangeMapping maps a line range of the original document to a
// line range of the modified one, carrying the character-level inner
// changes. Inner changes are sorted, non-overlapping, and lie within the
// containing ranges, except that one may start at the end of the line just
// before them or end at column 1 of the line just after them.
type DetailedLineRangeMapping struct {
	Original     LineRange
	Modified     LineRange
	InnerChanges []RangeMapping
}

// Move is a pair of line ranges with equal content at different document
// positions. Move detection is not performed; the type exists so that
// LinesDiff carries the same shape as the reference output.
type Move struct {
	Original LineRange
	Modified LineRange
}

// LinesDiff is the result of [Compute].
type LinesDiff struct {
	Changes []DetailedLineRangeMapping
	// Moves is always empty.
	Moves []Move
	// HitTimeout is set when the computation deadline expired; the
	// changes then degrade to "everything changed" at the level the
	// deadline struck.
	HitTimeout bool
}

// lineRangeMappingsFromRangeMappings derives line ranges for every
// character mapping, then groups mappings whose line ranges intersect or
// touch into single entries whose inner changes are the concatenation of
// the group.
func lineRangeMappingsFromRangeMappings(alignments []RangeMapping, originalLines, modifiedLines []string) []DetailedLineRangeMapping {
	var changes []DetailedLineRangeMapping
	for _, a := range alignments {
		m := lineRangeMappingFor(a, originalLines, modifiedLines)
		if n := len(changes); n > 0 &&
			(changes[n-1].Original.OverlapOrTouch(m.Original) ||
				changes[n-1].Modified.OverlapOrTouch(m.Modified)) {
			changes[n-1].Original = changes[n-1].Original.Join(m.Original)
			changes[n-1].Modified = changes[n-1].Modified.Join(m.Modified)
			changes[n-1].InnerChanges = append(changes[n-1].InnerChanges, a)
			continue
		}
		changes = append(changes, m)
	}
	return changes
}

// lineRangeMappingFor converts one character mapping to a line mapping.
// When both character ranges end at column 1 the last line is excluded;
// when both start past the end of their first line, the first line is
// excluded. This keeps pure full-line edits from bleeding into the
// neighbouring unchanged lines.
func lineRangeMappingFor(a RangeMapping, originalLines, modifiedLines []string) DetailedLineRangeMapping {
	lineStartDelta := 0
	lineEndDelta := 0
	if a.Modified.End.Col == 1 && a.Original.End.Col == 1 &&
		a.Original.Start.Line+lineStartDelta <= a.Original.End.Line &&
		a.Modified.Start.Line+lineStartDelta <= a.Modified.End.Line {
		lineEndDelta = -1
	}
	if a.Modified.Start.Col-1 >= lineLengthUTF16(modifiedLines, a.Modified.Start.Line) &&
		a.Original.Start.Col-1 >= lineLengthUTF16(originalLines, a.Original.Start.Line) &&
		a.Original.Start.Line <= a.Original.End.Line+lineEndDelta &&
		a.Modified.Start.Line <= a.Modified.End.Line+lineEndDelta {
		lineStartDelta = 1
	}
	return DetailedLineRangeMapping{
		Original: clampLineRange(LineRange{
			Start: a.Original.Start.Line + lineStartDelta,
			End:   a.Original.End.Line + 1 + lineEndDelta,
		}, len(originalLines)),
		Modified: clampLineRange(LineRange{
			Start: a.Modified.Start.Line + lineStartDelta,
			End:   a.Modified.End.Line + 1 + lineEndDelta,
		}, len(modifiedLines)),
		InnerChanges: []RangeMapping{a},
	}
}

// clampLineRange keeps a derived line range within the document. A
// mapping anchored one past the last line (an insertion at end of file,
// where the element stream has no trailing newline) would otherwise
// produce a range past the document end.
func clampLineRange(r LineRange, lineCount int) LineRange {
	r.End = min(r.End, lineCount+1)
	r.Start = max(1, min(r.Start, r.End))
	return r
}

func lineLengthUTF16(lines []string, line1b int) int {
	if line1b < 1 || line1b > len(lines) {
		return 0
	}
	return utf16Len(lines[line1b-1])
}
