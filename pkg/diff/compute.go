package diff

import (
	"math"
	"slices"
)

// Sequences below this combined length are diffed with the DP algorithm,
// which produces slightly nicer edits at O(M·N) cost; larger inputs use
// Myers O(ND).
const (
	dpLineLimit = 1700
	dpCharLimit = 500
)

// Compute diffs two documents given as line slices. Lines must not
// contain newlines. The result geometry matches the reference diff
// editor: see the package documentation.
func Compute(original, modified []string, opts Options) *LinesDiff {
	if slices.Equal(original, modified) {
		return &LinesDiff{}
	}
	if isEmptyDocument(original) || isEmptyDocument(modified) {
		return fullChange(original, modified)
	}

	dl := newDeadline(opts.MaxComputationTimeMs)
	considerWhitespaceChanges := !opts.IgnoreTrimWhitespace

	it := newInterner(len(original) + len(modified))
	seq1 := newLineSequence(it, original)
	seq2 := newLineSequence(it, modified)

	var diffs []SequenceDiff
	var hitTimeout bool
	if seq1.Len()+seq2.Len() < dpLineLimit {
		diffs, hitTimeout = dpCompute(seq1, seq2, dl, func(i, j int) float64 {
			if original[i] == modified[j] {
				if len(modified[j]) == 0 {
					return 0.1
				}
				return 1 + math.Log(1+float64(len(modified[j])))
			}
			// same trimmed content, different whitespace.
			return 0.99
		})
	} else {
		diffs, hitTimeout = myersCompute(seq1, seq2, dl)
	}
	diffs = optimizeSequenceDiffs(seq1, seq2, diffs)
	diffs = removeVeryShortMatchingLinesBetweenDiffs(seq1, diffs)

	var alignments []RangeMapping
	seq1Last, seq2Last := 0, 0

	// Lines outside the diffs are hash-equal, but with trimmed hashing
	// they may still differ in whitespace. Diff those pairs at character
	// level so whitespace-significant callers see the change.
	scanForWhitespaceChanges := func(equalLines int) {
		if !considerWhitespaceChanges {
			return
		}
		for i := 0; i < equalLines; i++ {
			o, m := seq1Last+i, seq2Last+i
			if original[o] != modified[m] {
				cd := refineDiff(original, modified, SequenceDiff{
					Seq1: OffsetRange{o, o + 1},
					Seq2: OffsetRange{m, m + 1},
				}, dl, considerWhitespaceChanges, opts)
				if cd.hitTimeout {
					hitTimeout = true
				}
				alignments = append(alignments, cd.mappings...)
			}
		}
	}

	for _, d := range diffs {
		scanForWhitespaceChanges(d.Seq1.Start - seq1Last)
		seq1Last, seq2Last = d.Seq1.End, d.Seq2.End
		cd := refineDiff(original, modified, d, dl, considerWhitespaceChanges, opts)
		if cd.hitTimeout {
			hitTimeout = true
		}
		alignments = append(alignments, cd.mappings...)
	}
	scanForWhitespaceChanges(len(original) - seq1Last)

	changes := lineRangeMappingsFromRangeMappings(alignments, original, modified)
	return &LinesDiff{Changes: changes, HitTimeout: hitTimeout}
}

// isEmptyDocument reports whether lines represent an empty document:
// either no lines at all, or the single empty line an editor shows for an
// empty file.
func isEmptyDocument(lines []string) bool {
	return len(lines) == 0 || (len(lines) == 1 && lines[0] == "")
}

// fullChange is the degenerate one-change diff used when one side is an
// empty document: diffing against nothing produces noise, not insight.
func fullChange(original, modified []string) *LinesDiff {
	return &LinesDiff{
		Changes: []DetailedLineRangeMapping{{
			Original: LineRange{1, len(original) + 1},
			Modified: LineRange{1, len(modified) + 1},
			InnerChanges: []RangeMapping{{
				Original: fullRange(original),
				Modified: fullRange(modified),
			}},
		}},
	}
}

func fullRange(lines []string) Range {
	if len(lines) == 0 {
		return Range{Position{1, 1}, Position{1, 1}}
	}
	last := lines[len(lines)-1]
	return Range{
		Start: Position{1, 1},
		End:   Position{len(lines), utf16Len(last) + 1},
	}
}
