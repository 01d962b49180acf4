// Package naive implements the O(nm) sliding-window matcher used as the
// reference for the shift-based engines.
package naive

import "bytes"

// Count returns the number of (possibly overlapping) occurrences of pattern
// in text. An empty pattern never matches.
func Count(pattern, text []byte) int {
	count := 0
	Each(pattern, text, func(int) { count++ })
	return count
}

// Positions returns the start offset of every occurrence, in increasing order.
func Positions(pattern, text []byte) []int {
	var pos []int
	Each(pattern, text, func(i int) { pos = append(pos, i) })
	return pos
}

// Each calls fn with the start offset of every occurrence.
func Each(pattern, text []byte, fn func(int)) {
	m := len(pattern)
	if m == 0 {
		return
	}
	for i := 0; i+m <= len(text); i++ {
		j := bytes.Index(text[i:], pattern)
		if j < 0 {
			return
		}
		i += j
		fn(i)
	}
}
