package shift

import "github.com/bits-and-blooms/bitset"

// Tracker records the shift distances in [1, max] that would misalign an
// already fixed scan position. Marks are never removed within one pass.
type Tracker struct {
	bits *bitset.BitSet
	max  int
}

// NewTracker returns a Tracker for distances up to max.
func NewTracker(max int) *Tracker {
	return &Tracker{bits: bitset.New(uint(max + 1)), max: max}
}

// Mark records k as unsafe.
func (t *Tracker) Mark(k int) {
	t.bits.Set(uint(k))
}

// Unsafe reports whether k has been marked.
func (t *Tracker) Unsafe(k int) bool {
	return t.bits.Test(uint(k))
}

// NextSafe returns the smallest unmarked distance >= k, or max+1 if every
// distance from k on is marked.
func (t *Tracker) NextSafe(k int) int {
	if k > t.max {
		return t.max + 1
	}
	next, ok := t.bits.NextClear(uint(k))
	if !ok || int(next) > t.max {
		return t.max + 1
	}
	return int(next)
}

// Constrain fixes the symbol at pattern offset off: every k in [1, off] that
// would align a different symbol under it becomes unsafe.
func (t *Tracker) Constrain(syms []int, off int) {
	s := syms[off]
	for k := 1; k <= off; k++ {
		if syms[off-k] != s {
			t.bits.Set(uint(k))
		}
	}
}

// Count returns the number of unsafe distances.
func (t *Tracker) Count() int {
	return int(t.bits.Count())
}

// Reset clears every mark.
func (t *Tracker) Reset() {
	t.bits.ClearAll()
}
