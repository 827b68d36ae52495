package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func charSeqPair(t *testing.T, a, b string) (*charSequence, *charSequence) {
	t.Helper()
	return newCharSequence([]string{a}, OffsetRange{0, 1}, true),
		newCharSequence([]string{b}, OffsetRange{0, 1}, true)
}

func TestExtendDiffsToEntireWords(t *testing.T) {
	t.Run("mostly_changed_word_swallowed", func(t *testing.T) {
		// "abcdef" -> "aXYZef": half the word changed, so the whole word
		// becomes the diff.
		s1, s2 := charSeqPair(t, "abcdef", "aXYZef")
		diffs := []SequenceDiff{{OffsetRange{1, 4}, OffsetRange{1, 4}}}
		got := extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findWordContaining, false)
		assert.Equal(t, []SequenceDiff{{OffsetRange{0, 6}, OffsetRange{0, 6}}}, got)
	})
	t.Run("barely_changed_word_kept", func(t *testing.T) {
		// one character of six: more than two thirds of the word is
		// unchanged, the diff stays narrow.
		s1, s2 := charSeqPair(t, "abcdef", "abcXef")
		diffs := []SequenceDiff{{OffsetRange{3, 4}, OffsetRange{3, 4}}}
		got := extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findWordContaining, false)
		assert.Equal(t, diffs, got)
	})
	t.Run("force_swallows_any_partial_word", func(t *testing.T) {
		s1, s2 := charSeqPair(t, "abcdef", "abcXef")
		diffs := []SequenceDiff{{OffsetRange{3, 4}, OffsetRange{3, 4}}}
		got := extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findWordContaining, true)
		assert.Equal(t, []SequenceDiff{{OffsetRange{0, 6}, OffsetRange{0, 6}}}, got)
	})
	t.Run("subwords_stop_at_camel_boundaries", func(t *testing.T) {
		// only the Name/Info subword differs; the get and User subwords
		// are fully unchanged and stay out even under force.
		s1, s2 := charSeqPair(t, "getUserName()", "getUserInfo()")
		diffs := []SequenceDiff{{OffsetRange{7, 11}, OffsetRange{7, 11}}}
		got := extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findSubWordContaining, true)
		assert.Equal(t, diffs, got)
	})
	t.Run("non_word_boundaries_untouched", func(t *testing.T) {
		s1, s2 := charSeqPair(t, "a, b", "a, c")
		diffs := []SequenceDiff{{OffsetRange{3, 4}, OffsetRange{3, 4}}}
		got := extendDiffsToEntireWords(s1, s2, diffs, (*charSequence).findWordContaining, false)
		assert.Equal(t, diffs, got)
	})
}

func TestRemoveVeryShortMatchingText(t *testing.T) {
	t.Run("joins_tiny_island_between_long_diffs", func(t *testing.T) {
		// two multi-line diffs separated by a short unchanged sliver.
		lines1 := []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "x", "cccccccccccccccccccccccccccccccccccccccc", "dddddddddddddddddddddddddddddddddddddddd"}
		lines2 := []string{"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", "x", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC", "DDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD"}
		s1 := newCharSequence(lines1, OffsetRange{0, 5}, true)
		s2 := newCharSequence(lines2, OffsetRange{0, 5}, true)
		// changed: lines 1-2 and lines 4-5, unchanged "\nx\n" between.
		d1 := SequenceDiff{OffsetRange{0, 81}, OffsetRange{0, 81}}
		d2 := SequenceDiff{OffsetRange{84, 165}, OffsetRange{84, 165}}
		got := removeVeryShortMatchingTextBetweenLongDiffs(s1, s2, []SequenceDiff{d1, d2})
		assert.Equal(t, []SequenceDiff{{OffsetRange{0, 165}, OffsetRange{0, 165}}}, got)
	})
	t.Run("keeps_small_diffs_apart", func(t *testing.T) {
		s1, s2 := charSeqPair(t, "abc x def", "ABC x DEF")
		diffs := []SequenceDiff{
			{OffsetRange{0, 3}, OffsetRange{0, 3}},
			{OffsetRange{6, 9}, OffsetRange{6, 9}},
		}
		got := removeVeryShortMatchingTextBetweenLongDiffs(s1, s2, diffs)
		assert.Equal(t, diffs, got)
	})
}
