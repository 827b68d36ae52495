package diff

// optimizeSequenceDiffs is the shape-improving pass applied to the raw
// algorithm output at both pipeline levels: two rounds of join-by-shifting,
// a boundary-score driven shift of the remaining one-sided diffs, then
// removal of very short unchanged gaps.
func optimizeSequenceDiffs(seq1, seq2 sequence, diffs []SequenceDiff) []SequenceDiff {
	diffs = joinSequenceDiffsByShifting(seq1, seq2, diffs)
	diffs = joinSequenceDiffsByShifting(seq1, seq2, diffs)
	diffs = shiftSequenceDiffs(seq1, seq2, diffs)
	return removeShortMatches(seq1, seq2, diffs)
}

// joinSequenceDiffsByShifting tries to slide one-sided diffs (pure
// insertions or deletions) over the unchanged region next to them. A diff
// that can slide all the way onto its neighbour fuses with it; one that
// can slide only part of the way is moved as far left as possible and then,
// in a second pass, as far right as the sequences strongly agree.
func joinSequenceDiffsByShifting(seq1, seq2 sequence, diffs []SequenceDiff) []SequenceDiff {
	if len(diffs) == 0 {
		return diffs
	}

	// leftwards: fuse with the previous diff.
	result := make([]SequenceDiff, 0, len(diffs))
	result = append(result, diffs[0])
	for i := 1; i < len(diffs); i++ {
		cur := diffs[i]
		if cur.Seq1.IsEmpty() || cur.Seq2.IsEmpty() {
			prev := result[len(result)-1]
			length := cur.Seq1.Start - prev.Seq1.End
			var d int
			for d = 1; d <= length; d++ {
				if seq1.Element(cur.Seq1.Start-d) != seq1.Element(cur.Seq1.End-d) ||
					seq2.Element(cur.Seq2.Start-d) != seq2.Element(cur.Seq2.End-d) {
					break
				}
			}
			d--
			if d == length {
				result[len(result)-1] = SequenceDiff{
					Seq1: OffsetRange{prev.Seq1.Start, cur.Seq1.End - length},
					Seq2: OffsetRange{prev.Seq2.Start, cur.Seq2.End - length},
				}
				continue
			}
			cur = cur.Delta(-d)
		}
		result = append(result, cur)
	}

	// rightwards: fuse with the next diff, using strong equality so a
	// whitespace-only line never carries a diff over it.
	result2 := make([]SequenceDiff, 0, len(result))
	for i := 0; i < len(result)-1; i++ {
		next := result[i+1]
		cur := result[i]
		if cur.Seq1.IsEmpty() || cur.Seq2.IsEmpty() {
			length := next.Seq1.Start - cur.Seq1.End
			var d int
			for d = 0; d < length; d++ {
				if !seq1.StronglyEqual(cur.Seq1.Start+d, cur.Seq1.End+d) ||
					!seq2.StronglyEqual(cur.Seq2.Start+d, cur.Seq2.End+d) {
					break
				}
			}
			if d == length {
				result[i+1] = SequenceDiff{
					Seq1: OffsetRange{cur.Seq1.Start + length, next.Seq1.End},
					Seq2: OffsetRange{cur.Seq2.Start + length, next.Seq2.End},
				}
				continue
			}
			if d > 0 {
				cur = cur.Delta(d)
			}
		}
		result2 = append(result2, cur)
	}
	if len(result) > 0 {
		result2 = append(result2, result[len(result)-1])
	}
	return result2
}

// shiftSequenceDiffs moves every one-sided diff to the position with the
// best boundary score within the unchanged region enclosing it.
func shiftSequenceDiffs(seq1, seq2 sequence, diffs []SequenceDiff) []SequenceDiff {
	for i := range diffs {
		var prevEnd1, prevEnd2 int
		next1, next2 := seq1.Len(), seq2.Len()
		if i > 0 {
			prevEnd1 = diffs[i-1].Seq1.End + 1
			prevEnd2 = diffs[i-1].Seq2.End + 1
		}
		if i+1 < len(diffs) {
			next1 = diffs[i+1].Seq1.Start - 1
			next2 = diffs[i+1].Seq2.Start - 1
		}
		valid1 := OffsetRange{prevEnd1, next1}
		valid2 := OffsetRange{prevEnd2, next2}
		if diffs[i].Seq1.IsEmpty() {
			diffs[i] = shiftDiffToBetterPosition(diffs[i], seq1, seq2, valid1, valid2)
		} else if diffs[i].Seq2.IsEmpty() {
			diffs[i] = shiftDiffToBetterPosition(diffs[i].Swap(), seq2, seq1, valid2, valid1).Swap()
		}
	}
	return diffs
}

// shiftDiffToBetterPosition expects diff.Seq1 to be the empty side. It
// explores every shift within the valid ranges (at most 100 in either
// direction) and keeps the one with the highest combined boundary score.
// Ties prefer the smaller absolute shift, then the earlier position, so
// the output is deterministic.
func shiftDiffToBetterPosition(diff SequenceDiff, seq1, seq2 sequence, valid1, valid2 OffsetRange) SequenceDiff {
	const maxShiftLimit = 100

	deltaBefore := 1
	for diff.Seq1.Start-deltaBefore >= valid1.Start &&
		diff.Seq2.Start-deltaBefore >= valid2.Start &&
		seq2.StronglyEqual(diff.Seq2.Start-deltaBefore, diff.Seq2.End-deltaBefore) &&
		deltaBefore < maxShiftLimit {
		deltaBefore++
	}
	deltaBefore--

	deltaAfter := 0
	for diff.Seq1.Start+deltaAfter < valid1.End &&
		diff.Seq2.End+deltaAfter < valid2.End &&
		seq2.StronglyEqual(diff.Seq2.Start+deltaAfter, diff.Seq2.End+deltaAfter) &&
		deltaAfter < maxShiftLimit {
		deltaAfter++
	}

	if deltaBefore == 0 && deltaAfter == 0 {
		return diff
	}

	bestDelta := 0
	bestScore := -1
	for delta := -deltaBefore; delta <= deltaAfter; delta++ {
		seq2Start := diff.Seq2.Start + delta
		seq2End := diff.Seq2.End + delta
		seq1Offset := diff.Seq1.Start + delta
		score := seq1.BoundaryScore(seq1Offset) + seq2.BoundaryScore(seq2Start) + seq2.BoundaryScore(seq2End)
		if score > bestScore ||
			(score == bestScore && (abs(delta) < abs(bestDelta) ||
				(abs(delta) == abs(bestDelta) && delta < bestDelta))) {
			bestScore = score
			bestDelta = delta
		}
	}
	return diff.Delta(bestDelta)
}

// removeShortMatches fuses consecutive diffs whose unchanged gap is two
// elements or fewer on either sequence.
func removeShortMatches(seq1, seq2 sequence, diffs []SequenceDiff) []SequenceDiff {
	var result []SequenceDiff
	for _, d := range diffs {
		if len(result) > 0 {
			last := &result[len(result)-1]
			if d.Seq1.Start-last.Seq1.End <= 2 || d.Seq2.Start-last.Seq2.End <= 2 {
				*last = last.Join(d)
				continue
			}
		}
		result = append(result, d)
	}
	return result
}

// removeVeryShortMatchingLinesBetweenDiffs joins consecutive line-level
// diffs separated by near-empty lines, as long as at least one of the two
// is a substantial change. Runs until a fixed point, at most ten passes.
func removeVeryShortMatchingLinesBetweenDiffs(seq1 *lineSequence, diffs []SequenceDiff) []SequenceDiff {
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
			gap := OffsetRange{last.Seq1.End, cur.Seq1.Start}
			substantial := last.Seq1.Len()+last.Seq2.Len() > 5 || cur.Seq1.Len()+cur.Seq2.Len() > 5
			if substantial && countNonWhitespace(seq1.text(gap)) <= 4 {
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

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
