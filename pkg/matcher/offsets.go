package matcher

import "unicode/utf8"

// byteToRuneMap returns a table mapping every byte offset of s to the index
// of the rune whose UTF-8 encoding covers that byte. byteLen must be len(s).
// The table is only built for inputs that contain multi-byte runes; for pure
// single-byte content offsets pass through untranslated.
func byteToRuneMap(s string, byteLen int) []int {
	table := make([]int, byteLen)
	runeIdx := 0
	for i := 0; i < len(s); {
		_, width := utf8.DecodeRuneInString(s[i:])
		for j := 0; j < width; j++ {
			table[i+j] = runeIdx
		}
		i += width
		runeIdx++
	}
	return table
}
