//go:build darwin

package darwin

import "unicode/utf8"

// utf16Index maps between rune offsets and UTF-16 unit offsets of a string.
type utf16Index struct {
	content string
	// units[i] is the UTF-16 offset of rune i; the final entry is the
	// total length.
	units []int
}

func newUTF16Index(s string) utf16Index {
	units := make([]int, 0, utf8.RuneCountInString(s)+1)
	n := 0
	for _, r := range s {
		units = append(units, n)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return utf16Index{content: s, units: append(units, n)}
}

// unitOffset clamps runeOff to the string.
func (x utf16Index) unitOffset(runeOff int) int {
	switch {
	case runeOff <= 0:
		return 0
	case runeOff >= len(x.units):
		return x.units[len(x.units)-1]
	}
	return x.units[runeOff]
}

// runeOffset returns the rune containing unit, rounding a low surrogate
// down to its rune.
func (x utf16Index) runeOffset(unit int) int {
	lo, hi := 0, len(x.units)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if x.units[mid] <= unit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
