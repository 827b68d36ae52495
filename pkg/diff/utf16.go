package diff

import "unicode/utf8"

// All columns surfaced by this package count UTF-16 code units, while the
// input lines are UTF-8 strings. The helpers below are the only place the
// two worlds meet; everything else works on exactly one of the two units.

// decodeCodePoint decodes the UTF-8 code point starting at s[i]. Invalid
// input decodes as 0 with a width of 1, so the cursor always advances and
// malformed bytes never fail a computation.
func decodeCodePoint(s string, i int) (cp uint32, size int) {
	r, sz := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError && sz <= 1 {
		return 0, 1
	}
	return uint32(r), sz
}

// utf16Len counts the UTF-16 code units needed to encode s: one per code
// point below U+10000, two for the surrogate pair above it.
func utf16Len(s string) int {
	n := 0
	for i := 0; i < len(s); {
		cp, sz := decodeCodePoint(s, i)
		i += sz
		n++
		if cp >= 0x10000 {
			n++
		}
	}
	return n
}

// utf16ToByteOffset converts a count of UTF-16 code units into the byte
// length of the prefix of s spanning exactly that many units. It stops at
// the unit boundary and never splits a code point: a count that would land
// in the middle of a surrogate pair resolves before the pair.
func utf16ToByteOffset(s string, units int) int {
	i := 0
	for i < len(s) && units > 0 {
		cp, sz := decodeCodePoint(s, i)
		w := 1
		if cp >= 0x10000 {
			w = 2
		}
		if w > units {
			break
		}
		units -= w
		i += sz
	}
	return i
}

// appendUTF16 appends the UTF-16 encoding of s to dst.
func appendUTF16(dst []uint16, s string) []uint16 {
	for i := 0; i < len(s); {
		cp, sz := decodeCodePoint(s, i)
		i += sz
		if cp >= 0x10000 {
			cp -= 0x10000
			dst = append(dst, uint16(0xD800+(cp>>10)), uint16(0xDC00+(cp&0x3FF)))
		} else {
			dst = append(dst, uint16(cp))
		}
	}
	return dst
}

// ColumnToByteOffset converts a 1-based UTF-16 column of a line into the
// byte offset it starts at, for callers that need to slice line content
// around the columns this package reports. Columns past the end of the
// line resolve to len(line).
func ColumnToByteOffset(line string, col int) int {
	if col <= 1 {
		return 0
	}
	return utf16ToByteOffset(line, col-1)
}

// runeLen counts the code points of s, decoding invalid bytes as single
// zero code points like decodeCodePoint does.
func runeLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		_, sz := decodeCodePoint(s, i)
		i += sz
		n++
	}
	return n
}
