package signal

import "unicode/utf16"

// DeriveSeed folds an arbitrary string into a 32-bit seed with a rolling
// hash (h = h*31 + unit) over UTF-16 code units, wrapping at 32 bits and
// returning the absolute value.
func DeriveSeed(raw string) uint32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(raw)) {
		h = h*31 + int32(unit)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}
