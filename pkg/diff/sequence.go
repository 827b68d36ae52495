package diff

import (
	"strings"
	"unicode"
)

// sequence is the uniform surface the raw algorithms and the shape
// optimizers work on. It is implemented by lineSequence and charSequence,
// so the same algorithm code serves both pipeline levels.
type sequence interface {
	// Len is the number of elements.
	Len() int
	// Element is the fast equality key at offset i: the interned line
	// hash for line sequences, the UTF-16 code unit for char sequences.
	Element(i int) uint32
	// StronglyEqual reports whether the elements at i and j are truly
	// equal, not merely hash-equal.
	StronglyEqual(i, j int) bool
	// BoundaryScore rates placing a diff boundary before element i
	// (or at the end for i == Len). Higher is better.
	BoundaryScore(i int) int
}

// lineSequence exposes a document as a sequence of interned line hashes.
// Hashing always works on trimmed content: lines that differ only in
// leading or trailing whitespace share an element and are told apart via
// StronglyEqual, which compares the raw lines.
type lineSequence struct {
	hashes []uint32
	lines  []string
}

func newLineSequence(it *interner, lines []string) *lineSequence {
	hashes := make([]uint32, len(lines))
	for i, l := range lines {
		hashes[i] = it.getOrCreate(strings.TrimSpace(l))
	}
	return &lineSequence{hashes: hashes, lines: lines}
}

func (s *lineSequence) Len() int             { return len(s.hashes) }
func (s *lineSequence) Element(i int) uint32 { return s.hashes[i] }

func (s *lineSequence) StronglyEqual(i, j int) bool {
	return s.lines[i] == s.lines[j]
}

// BoundaryScore prefers boundaries at shallow indentation, placing diffs
// at top-level structure rather than inside nested blocks.
func (s *lineSequence) BoundaryScore(i int) int {
	before, after := 0, 0
	if i > 0 {
		before = indentation(s.lines[i-1])
	}
	if i < len(s.lines) {
		after = indentation(s.lines[i])
	}
	return 1000 - (before + after)
}

func (s *lineSequence) text(r OffsetRange) string {
	return strings.Join(s.lines[r.Start:r.End], "\n")
}

func indentation(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
