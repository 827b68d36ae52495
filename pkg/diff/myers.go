package diff

import "slices"

// myersCompute runs the forward Myers O(ND) edit-graph search over the
// two sequences. For increasing edit distance d it tracks the furthest
// reaching x coordinate per diagonal, snapshotting the vector at every
// step so the backtrack can recover the change regions afterwards.
//
// The deadline is checked once per outer step; on expiry the whole region
// is reported as changed and the second return value is true.
func myersCompute(seq1, seq2 sequence, dl deadline) ([]SequenceDiff, bool) {
	n, m := seq1.Len(), seq2.Len()
	if n == 0 && m == 0 {
		return nil, false
	}
	if n == 0 || m == 0 {
		return []SequenceDiff{{Seq1: OffsetRange{0, n}, Seq2: OffsetRange{0, m}}}, false
	}

	maxD := n + m
	// v is indexed by diagonal k, offset by maxD. trace[d] holds v as it
	// was before step d ran, which is what the backtrack needs.
	v := make([]int, 2*maxD+1)
	trace := make([][]int, 0, 16)

	foundD := -1
	for d := 0; d <= maxD && foundD < 0; d++ {
		if dl.expired() {
			return []SequenceDiff{{Seq1: OffsetRange{0, n}, Seq2: OffsetRange{0, m}}}, true
		}
		trace = append(trace, slices.Clone(v))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[maxD+k-1] < v[maxD+k+1]) {
				x = v[maxD+k+1]
			} else {
				x = v[maxD+k-1] + 1
			}
			y := x - k
			for x < n && y < m && seq1.Element(x) == seq2.Element(y) {
				x++
				y++
			}
			v[maxD+k] = x
			if x >= n && y >= m {
				foundD = d
				break
			}
		}
	}

	return myersBacktrack(trace, foundD, n, m, maxD), false
}

// myersBacktrack walks the stored vectors from (n, m) back to the origin,
// collecting one single-element change region per non-diagonal step, then
// merges the regions that touch.
func myersBacktrack(trace [][]int, foundD, n, m, maxD int) []SequenceDiff {
	// reversed: edits come out back to front.
	var reversed []SequenceDiff
	x, y := n, m
	for d := foundD; d > 0; d-- {
		k := x - y
		prev := trace[d]
		var prevK int
		if k == -d || (k != d && prev[maxD+k-1] < prev[maxD+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev[maxD+prevK]
		prevY := prevX - prevK
		if prevK == k+1 {
			// down: one element of seq2 inserted at seq1 position prevX.
			reversed = append(reversed, SequenceDiff{
				Seq1: OffsetRange{prevX, prevX},
				Seq2: OffsetRange{prevY, prevY + 1},
			})
		} else {
			// right: one element of seq1 deleted at seq2 position prevY.
			reversed = append(reversed, SequenceDiff{
				Seq1: OffsetRange{prevX, prevX + 1},
				Seq2: OffsetRange{prevY, prevY},
			})
		}
		x, y = prevX, prevY
	}

	var result []SequenceDiff
	for i := len(reversed) - 1; i >= 0; i-- {
		cur := reversed[i]
		if len(result) > 0 {
			last := &result[len(result)-1]
			if cur.Seq1.Start <= last.Seq1.End && cur.Seq2.Start <= last.Seq2.End {
				*last = last.Join(cur)
				continue
			}
		}
		result = append(result, cur)
	}
	return result
}
