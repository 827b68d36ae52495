package diff

// charDiffs is the output of character-level refinement of one line-level
// diff: character mappings in document coordinates.
type charDiffs struct {
	mappings   []RangeMapping
	hitTimeout bool
}

// refineDiff re-runs the diff pipeline on the characters of one
// line-level diff: slice both documents, diff the UTF-16 unit streams,
// reshape with the same optimizers plus the character-only passes (word
// and subword extension, short-text removal), then translate the element
// offsets back into line and column positions.
func refineDiff(original, modified []string, d SequenceDiff, dl deadline, considerWhitespaceChanges bool, opts Options) charDiffs {
	s1 := newCharSequence(original, d.Seq1, considerWhitespaceChanges)
	s2 := newCharSequence(modified, d.Seq2, considerWhitespaceChanges)

	var diffs []SequenceDiff
	var hitTimeout bool
	if s1.Len()+s2.Len() < dpCharLimit {
		diffs, hitTimeout = dpCompute(s1, s2, dl, nil)
	} else {
		diffs, hitTimeout = myersCompute(s1, s2, dl)
	}

	diffs = optimizeSequenceDiffs(s1, s2, diffs)
	if opts.ExtendToSubwords {
		// subword extension replaces the whole-word pass: running the
		// whole-word rule first would swallow entire identifiers and
		// leave nothing for the camelCase-aware variant to refine.
		diffs = extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findSubWordContaining, true)
	} else {
		diffs = extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findWordContaining, false)
	}
	diffs = removeShortMatches(s1, s2, diffs)
	diffs = removeVeryShortMatchingTextBetweenLongDiffs(s1, s2, diffs)

	mappings := make([]RangeMapping, 0, len(diffs))
	for _, cd := range diffs {
		mappings = append(mappings, RangeMapping{
			Original: s1.translateRange(cd.Seq1),
			Modified: s2.translateRange(cd.Seq2),
		})
	}
	return charDiffs{mappings: mappings, hitTimeout: hitTimeout}
}
