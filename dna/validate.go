package dna

import (
	"errors"
	"fmt"
)

// ErrInvalidBase is returned when a sequence holds a byte that is not one of
// A, C, G or T (either case).
var ErrInvalidBase = errors.New("dna: invalid base")

var isBase = [256]bool{
	'A': true, 'C': true, 'G': true, 'T': true,
	'a': true, 'c': true, 'g': true, 't': true,
}

// IsBase reports whether b is a nucleotide letter.
func IsBase(b byte) bool {
	return isBase[b]
}

// Validate checks that seq only holds nucleotide letters. The error names the
// first offending byte and its offset.
func Validate(seq []byte) error {
	for i, b := range seq {
		if isBase[b] {
			continue
		}
		if b >= 0x80 {
			return fmt.Errorf("%w %#02x at offset %d", ErrInvalidBase, b, i)
		}
		return fmt.Errorf("%w %q at offset %d", ErrInvalidBase, b, i)
	}
	return nil
}
