package shift

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrEmptyPattern is returned when a matcher is built for an empty pattern.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrShortBuffer is returned when a padded search buffer cannot hold the
	// text followed by a copy of the pattern.
	ErrShortBuffer = errors.New("buffer shorter than text plus pattern")

	// ErrTextTooLarge is returned when occurrence positions do not fit in 32 bits.
	ErrTextTooLarge = errors.New("text too large for 32-bit positions")
)

// Source is the symbol view of a pattern the Builder works on.
type Source struct {
	// Syms holds the symbol at each pattern offset.
	Syms []int
	// Offsets holds the pattern offset compared for each unit.
	Offsets []int
	// Weights holds the frequency weight of each symbol; its length is the
	// alphabet size.
	Weights []int
	// MaxShift is the largest shift, the pattern length.
	MaxShift int
}

// Builder computes maximal average shift plans. Each round extends the scan
// order with the pending unit whose weighted mean shift is largest, given the
// units fixed before it.
type Builder struct {
	src     Source
	sigma   int
	shift   []int32 // per unit, per symbol
	unsafe  *Tracker
	pending *bitset.BitSet
	order   []int
}

// NewBuilder returns a Builder for src.
func NewBuilder(src Source) *Builder {
	units := len(src.Offsets)
	return &Builder{
		src:     src,
		sigma:   len(src.Weights),
		shift:   make([]int32, units*len(src.Weights)),
		unsafe:  NewTracker(src.MaxShift),
		pending: bitset.New(uint(units)),
		order:   make([]int, 0, units),
	}
}

// Build computes the plan with every unit chosen greedily.
func (b *Builder) Build() Plan {
	b.reset()
	b.greedy()
	return b.plan()
}

// BuildFrom computes the plan for a window where unit first is already known
// to match. first is fixed before any other unit but placed last in the
// order: the search loop re-checks it only once everything else matched.
func (b *Builder) BuildFrom(first int) Plan {
	b.reset()
	b.pending.Clear(uint(first))
	b.unsafe.Constrain(b.src.Syms, b.src.Offsets[first])
	b.greedy()
	b.order = append(b.order, first)
	return b.plan()
}

func (b *Builder) reset() {
	for i := range b.shift {
		b.shift[i] = 1
	}
	b.unsafe.Reset()
	b.pending.ClearAll()
	for u := range b.src.Offsets {
		b.pending.Set(uint(u))
	}
	b.order = b.order[:0]
}

func (b *Builder) greedy() {
	for b.pending.Any() {
		b.relax()
		u := b.pick()
		b.order = append(b.order, u)
		b.pending.Clear(uint(u))
		b.unsafe.Constrain(b.src.Syms, b.src.Offsets[u])
	}
}

// relax raises every pending shift to the smallest distance allowed by the
// constraints gathered so far. Constraints only tighten, so each search
// resumes from the previous round's value.
func (b *Builder) relax() {
	for u, ok := b.pending.NextSet(0); ok; u, ok = b.pending.NextSet(u + 1) {
		off := b.src.Offsets[u]
		row := b.row(int(u))
		for s := range row {
			row[s] = int32(b.smallest(off, s, int(row[s])))
		}
	}
}

// smallest returns the least k >= from that is safe and aligns either the
// text left of the pattern or symbol s under offset off.
func (b *Builder) smallest(off, s, from int) int {
	for k := b.unsafe.NextSafe(from); k <= b.src.MaxShift; k = b.unsafe.NextSafe(k + 1) {
		if off-k < 0 || b.src.Syms[off-k] == s {
			return k
		}
	}
	return b.src.MaxShift
}

// pick returns the pending unit with the largest weighted shift sum. Ties go
// to the unit whose own symbol is rarer, then to the lower unit.
func (b *Builder) pick() int {
	best, bestScore := -1, int64(0)
	for u, ok := b.pending.NextSet(0); ok; u, ok = b.pending.NextSet(u + 1) {
		var score int64
		for s, k := range b.row(int(u)) {
			score += int64(k) * int64(b.src.Weights[s])
		}
		switch {
		case best < 0, score > bestScore:
			best, bestScore = int(u), score
		case score == bestScore && b.ownWeight(best) > b.ownWeight(int(u)):
			best = int(u)
		}
	}
	return best
}

func (b *Builder) ownWeight(u int) int {
	return b.src.Weights[b.src.Syms[b.src.Offsets[u]]]
}

func (b *Builder) row(u int) []int32 {
	return b.shift[u*b.sigma : (u+1)*b.sigma]
}

func (b *Builder) plan() Plan {
	p := Plan{
		Order: append([]int(nil), b.order...),
		own:   make([]int, len(b.order)),
		cells: make([]Cell, len(b.order)*b.sigma),
		sigma: b.sigma,
	}
	for i, u := range b.order {
		own := b.src.Syms[b.src.Offsets[u]]
		dst := p.Row(i)
		for s, k := range b.row(u) {
			dst[s] = Cell{Shift: k}
		}
		dst[own].Match = true
		p.own[i] = own
	}
	last := len(p.Order) - 1
	p.MatchShift = int(p.Row(last)[p.own[last]].Shift)
	return p
}
