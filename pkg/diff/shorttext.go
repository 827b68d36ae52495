package diff

import (
	"math"
	"strings"
)

// removeVeryShortMatchingTextBetweenLongDiffs joins character-level diffs
// separated by a tiny sliver of unchanged text whenever the two diffs are
// large: small unchanged islands inside a big change read as noise. The
// largeness of a diff weighs its line count heavily against its character
// count; the pair is joined when the combined largeness clears a fixed
// threshold. Runs until a fixed point, at most ten passes.
func removeVeryShortMatchingTextBetweenLongDiffs(seq1, seq2 *charSequence, diffs []SequenceDiff) []SequenceDiff {
	if len(diffs) == 0 {
		return diffs
	}
	for counter := 0; counter < 10; counter++ {
		changed := false
		result := make([]SequenceDiff, 0, len(diffs))
		result = append(result, diffs[0])
		for i := 1; i < len(diffs); i++ {
			cur := diffs[i]
			last := result[len(result)-1]
			if shouldJoinShortText(seq1, seq2, last, cur) {
				changed = true
				result[len(result)-1] = last.Join(cur)
			} else {
				result = append(result, cur)
			}
		}
		diffs = result
		if !changed {
			break
		}
	}
	return diffs
}

// shortTextMax caps the size (lines*40 + units) of each side of a diff
// before it enters the largeness score.
const shortTextMax = 2*40 + 50

func shouldJoinShortText(seq1, seq2 *charSequence, before, after SequenceDiff) bool {
	gap := OffsetRange{before.Seq1.End, after.Seq1.Start}
	if seq1.countLinesIn(gap) > 5 || gap.Len() > 500 {
		return false
	}
	unchanged := strings.TrimSpace(seq1.text(gap))
	if utf16Len(unchanged) > 20 || strings.ContainsAny(unchanged, "\r\n") {
		return false
	}
	threshold := math.Pow(math.Pow(shortTextMax, 1.5), 1.5) * 1.3
	return largeness(seq1, seq2, before)+largeness(seq1, seq2, after) > threshold
}

func largeness(seq1, seq2 *charSequence, d SequenceDiff) float64 {
	side := func(seq *charSequence, r OffsetRange) float64 {
		v := seq.countLinesIn(r)*40 + r.Len()
		return math.Pow(float64(min(v, shortTextMax)), 1.5)
	}
	return math.Pow(side(seq1, d.Seq1)+side(seq2, d.Seq2), 1.5)
}
