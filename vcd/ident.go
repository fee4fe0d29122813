package vcd

import "strconv"

// identAlphabet is the number of printable ASCII glyphs from '!' to '~'.
const identAlphabet = 94

// AllocateIdentifier returns the reference token for the signal at index i.
// The first 94 signals get one printable character ('!'..'~'); the rest get
// "_" followed by the decimal index. The two bands are disjoint, so tokens are
// unique across the signal table.
func AllocateIdentifier(i int) string {
	if i >= 0 && i < identAlphabet {
		return string(rune(33 + i))
	}
	return "_" + strconv.Itoa(i)
}
