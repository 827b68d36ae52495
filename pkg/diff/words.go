package diff

// extendDiffsToEntireWords grows character-level diffs so they cover whole
// words (or subwords) whenever a word is already mostly changed: a word
// with more than a third of its characters inside a change reads better
// fully highlighted. findParent picks the word notion: findWordContaining
// for the plain pass, findSubWordContaining for the camelCase pass, which
// runs with force set and swallows any partially changed subword.
func extendDiffsToEntireWords(seq1, seq2 *charSequence, diffs []SequenceDiff, findParent func(s *charSequence, offset int) (OffsetRange, bool), force bool) []SequenceDiff {
	equalRegions := invertSequenceDiffs(diffs, seq1.Len(), seq2.Len())

	var additional []SequenceDiff
	lastPoint1, lastPoint2 := 0, 0

	// scanWord inspects the word around one end of an unchanged region.
	// The word may run past the region into following unchanged regions;
	// those are consumed from the queue as the word is grown over them.
	scanWord := func(offset1, offset2 int, equalRegion SequenceDiff, queue *[]SequenceDiff) {
		if offset1 < lastPoint1 || offset2 < lastPoint2 {
			return
		}
		w1, ok1 := findParent(seq1, offset1)
		w2, ok2 := findParent(seq2, offset2)
		if !ok1 || !ok2 {
			return
		}
		w := SequenceDiff{Seq1: w1, Seq2: w2}
		equalPart := SequenceDiff{
			Seq1: w.Seq1.Intersect(equalRegion.Seq1),
			Seq2: w.Seq2.Intersect(equalRegion.Seq2),
		}
		equalChars := equalPart.Seq1.Len() + equalPart.Seq2.Len()

		for len(*queue) > 0 {
			next := (*queue)[0]
			if !next.Seq1.Intersects(w.Seq1) && !next.Seq2.Intersects(w.Seq2) {
				break
			}
			v1, ok1 := findParent(seq1, next.Seq1.Start)
			v2, ok2 := findParent(seq2, next.Seq2.Start)
			if !ok1 || !ok2 {
				break
			}
			v := SequenceDiff{Seq1: v1, Seq2: v2}
			vPart := SequenceDiff{
				Seq1: v.Seq1.Intersect(next.Seq1),
				Seq2: v.Seq2.Intersect(next.Seq2),
			}
			equalChars += vPart.Seq1.Len() + vPart.Seq2.Len()
			w = w.Join(v)
			if w.Seq1.End >= next.Seq1.End {
				*queue = (*queue)[1:]
			} else {
				break
			}
		}

		total := w.Seq1.Len() + w.Seq2.Len()
		if (force && equalChars < total) || float64(equalChars) < float64(total)*2.0/3.0 {
			additional = append(additional, w)
		}
		lastPoint1, lastPoint2 = w.Seq1.End, w.Seq2.End
	}

	queue := equalRegions
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		scanWord(e.Seq1.Start, e.Seq2.Start, e, &queue)
		scanWord(e.Seq1.End-1, e.Seq2.End-1, e, &queue)
	}

	return mergeSequenceDiffs(diffs, additional)
}

// mergeSequenceDiffs merges two sorted diff lists, joining entries that
// overlap or touch on the first sequence.
func mergeSequenceDiffs(a, b []SequenceDiff) []SequenceDiff {
	result := make([]SequenceDiff, 0, len(a)+len(b))
	for len(a) > 0 || len(b) > 0 {
		var next SequenceDiff
		if len(a) > 0 && (len(b) == 0 || a[0].Seq1.Start < b[0].Seq1.Start) {
			next = a[0]
			a = a[1:]
		} else {
			next = b[0]
			b = b[1:]
		}
		if len(result) > 0 && result[len(result)-1].Seq1.End >= next.Seq1.Start {
			result[len(result)-1] = result[len(result)-1].Join(next)
		} else {
			result = append(result, next)
		}
	}
	return result
}
