package diff

// dpCompute runs the O(M·N) LCS variant used for small inputs. It keeps
// three tables: the running LCS score, the move direction that produced
// each cell, and the length of the consecutive diagonal run ending there.
// Matches score through equalityScore (1 by default), plus a bonus for
// continuing a diagonal run, which prefers long contiguous matches over
// scattered single-element ones.
//
// The deadline is checked once per outer row; on expiry the whole region
// is reported as changed and the second return value is true.
func dpCompute(seq1, seq2 sequence, dl deadline, equalityScore func(i, j int) float64) ([]SequenceDiff, bool) {
	n, m := seq1.Len(), seq2.Len()
	if n == 0 && m == 0 {
		return nil, false
	}
	if n == 0 || m == 0 {
		return []SequenceDiff{{Seq1: OffsetRange{0, n}, Seq2: OffsetRange{0, m}}}, false
	}

	const (
		dirHorizontal = 1 // consume from seq1
		dirVertical   = 2 // consume from seq2
		dirDiagonal   = 3 // match
	)

	lcs := make([]float64, n*m)
	dirs := make([]uint8, n*m)
	lengths := make([]int32, n*m)
	at := func(i, j int) int { return i*m + j }

	for i := 0; i < n; i++ {
		if dl.expired() {
			return []SequenceDiff{{Seq1: OffsetRange{0, n}, Seq2: OffsetRange{0, m}}}, true
		}
		for j := 0; j < m; j++ {
			var horizontal, vertical float64
			if i > 0 {
				horizontal = lcs[at(i-1, j)]
			}
			if j > 0 {
				vertical = lcs[at(i, j-1)]
			}
			diagonal := -1.0
			if seq1.Element(i) == seq2.Element(j) {
				if i > 0 && j > 0 {
					diagonal = lcs[at(i-1, j-1)]
				} else {
					diagonal = 0
				}
				if i > 0 && j > 0 && dirs[at(i-1, j-1)] == dirDiagonal {
					diagonal += float64(lengths[at(i-1, j-1)])
				}
				if equalityScore != nil {
					diagonal += equalityScore(i, j)
				} else {
					diagonal++
				}
			}

			best := max(horizontal, vertical, diagonal)
			switch best {
			case diagonal:
				prevLen := int32(0)
				if i > 0 && j > 0 {
					prevLen = lengths[at(i-1, j-1)]
				}
				lengths[at(i, j)] = prevLen + 1
				dirs[at(i, j)] = dirDiagonal
			case horizontal:
				dirs[at(i, j)] = dirHorizontal
			case vertical:
				dirs[at(i, j)] = dirVertical
			}
			lcs[at(i, j)] = best
		}
	}

	// backtrack, emitting a change region between every two consecutive
	// aligned positions.
	var result []SequenceDiff
	lastI, lastJ := n, m
	report := func(i, j int) {
		if i+1 != lastI || j+1 != lastJ {
			result = append(result, SequenceDiff{
				Seq1: OffsetRange{i + 1, lastI},
				Seq2: OffsetRange{j + 1, lastJ},
			})
		}
		lastI, lastJ = i, j
	}
	i, j := n-1, m-1
	for i >= 0 && j >= 0 {
		switch dirs[at(i, j)] {
		case dirDiagonal:
			report(i, j)
			i--
			j--
		case dirHorizontal:
			i--
		default:
			j--
		}
	}
	report(-1, -1)
	reverse(result)
	return result, false
}

func reverse(diffs []SequenceDiff) {
	for i, j := 0, len(diffs)-1; i < j; i, j = i+1, j-1 {
		diffs[i], diffs[j] = diffs[j], diffs[i]
	}
}
