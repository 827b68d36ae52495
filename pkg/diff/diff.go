// Package diff computes structured line and character level diffs between
// two documents, mirroring the semantics of the VSCode diff editor: the
// same multi-stage pipeline (dynamic programming or Myers O(ND) on line
// hashes, heuristic shape optimizers, character-level refinement with
// word/subword extension) and the same output geometry, so that results can
// be compared byte-for-byte against it through the textual dump format.
//
// Everything is produced by a single [Compute] (or [ComputeRenderPlan])
// call; there is no shared state between calls.
package diff

import "time"

// Options control a single diff computation. The zero value is a full
// whitespace-significant diff with no time limit.
type Options struct {
	// IgnoreTrimWhitespace compares lines ignoring leading and trailing
	// whitespace, and skips the whitespace-only-line scan.
	IgnoreTrimWhitespace bool
	// MaxComputationTimeMs bounds the whole computation. When the deadline
	// is hit the raw algorithms abort with a degenerate "everything
	// changed" result and LinesDiff.HitTimeout is set. 0 means unlimited.
	MaxComputationTimeMs int
	// ComputeMoves is accepted for option compatibility and ignored; the
	// Moves slice of the result is always empty.
	ComputeMoves bool
	// ExtendToSubwords enables camelCase subword extension during
	// character-level refinement.
	ExtendToSubwords bool
}

// OffsetRange is a half-open range [Start, End) of element offsets.
type OffsetRange struct {
	Start int
	End   int
}

func (r OffsetRange) Len() int      { return r.End - r.Start }
func (r OffsetRange) IsEmpty() bool { return r.Start >= r.End }

// Delta shifts both endpoints by d.
func (r OffsetRange) Delta(d int) OffsetRange {
	return OffsetRange{r.Start + d, r.End + d}
}

// Join returns the smallest range containing both r and o.
func (r OffsetRange) Join(o OffsetRange) OffsetRange {
	return OffsetRange{min(r.Start, o.Start), max(r.End, o.End)}
}

// Intersect clamps r to o. The result may be empty.
func (r OffsetRange) Intersect(o OffsetRange) OffsetRange {
	s, e := max(r.Start, o.Start), min(r.End, o.End)
	if s > e {
		return OffsetRange{s, s}
	}
	return OffsetRange{s, e}
}

// Intersects reports whether the two ranges share at least one element.
func (r OffsetRange) Intersects(o OffsetRange) bool {
	return max(r.Start, o.Start) < min(r.End, o.End)
}

// SequenceDiff is a changed region over a pair of sequences: elements
// Seq1 of the first sequence were replaced with elements Seq2 of the
// second. At most one of the two ranges may be empty.
type SequenceDiff struct {
	Seq1 OffsetRange
	Seq2 OffsetRange
}

func (d SequenceDiff) Delta(n int) SequenceDiff {
	return SequenceDiff{d.Seq1.Delta(n), d.Seq2.Delta(n)}
}

func (d SequenceDiff) Join(o SequenceDiff) SequenceDiff {
	return SequenceDiff{d.Seq1.Join(o.Seq1), d.Seq2.Join(o.Seq2)}
}

func (d SequenceDiff) Swap() SequenceDiff {
	return SequenceDiff{d.Seq2, d.Seq1}
}

// invertSequenceDiffs returns the unchanged regions between diffs,
// including the leading and trailing ones. Zero-length regions are
// omitted. Unchanged regions always have the same length on both sides.
func invertSequenceDiffs(diffs []SequenceDiff, len1, len2 int) []SequenceDiff {
	var res []SequenceDiff
	last1, last2 := 0, 0
	add := func(e SequenceDiff) {
		if !e.Seq1.IsEmpty() {
			res = append(res, e)
		}
	}
	for _, d := range diffs {
		add(SequenceDiff{OffsetRange{last1, d.Seq1.Start}, OffsetRange{last2, d.Seq2.Start}})
		last1, last2 = d.Seq1.End, d.Seq2.End
	}
	add(SequenceDiff{OffsetRange{last1, len1}, OffsetRange{last2, len2}})
	return res
}

// deadline is the cooperative cancellation mechanism shared by the raw
// algorithms. The zero value never expires.
type deadline struct {
	t time.Time
}

func newDeadline(ms int) deadline {
	if ms <= 0 {
		return deadline{}
	}
	return deadline{t: time.Now().Add(time.Duration(ms) * time.Millisecond)}
}

func (d deadline) expired() bool {
	return !d.t.IsZero() && !time.Now().Before(d.t)
}
