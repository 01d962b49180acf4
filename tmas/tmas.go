// Package tmas implements the Tuned Maximal Average Shift exact matcher.
//
// After a shift, the text byte that was compared first in the previous
// window often lands inside the new window, at a position where it is known
// to match the pattern. TMAS keeps one scan order and shift table per such
// context and moves between them as a finite-state automaton: every table
// cell stores the context reached after applying its shift.
//
// Preprocessing runs one greedy pass per pattern position, so its cost grows
// with the cube of the pattern length. TMAS is meant for short patterns.
package tmas

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mhr3/mas/dna"
	"github.com/mhr3/mas/internal/shift"
)

var (
	// ErrEmptyPattern is returned by New for an empty pattern.
	ErrEmptyPattern = shift.ErrEmptyPattern

	// ErrShortBuffer is returned by CountPadded when buf cannot hold the
	// text followed by Len() bytes of slack.
	ErrShortBuffer = shift.ErrShortBuffer

	// ErrTextTooLarge is returned by Occurrences for texts whose offsets do
	// not fit in 32 bits.
	ErrTextTooLarge = shift.ErrTextTooLarge
)

type cell struct {
	shift int32
	next  int32 // context after the shift
	match bool
}

// Matcher counts occurrences of one pattern. Construct once with New, then
// search any number of texts. A Matcher is never modified by a search.
type Matcher struct {
	pattern    []byte
	alpha      shift.Alphabet
	sigma      int
	orders     [][]int // scan order per context
	cells      []cell  // context, scan index, symbol
	matchShift int
}

// New preprocesses pattern using the DNA base frequencies.
func New(pattern []byte) (*Matcher, error) {
	return NewWithWeights(pattern, &dna.Weights)
}

// NewWithWeights preprocesses pattern using a custom byte frequency table.
func NewWithWeights(pattern []byte, weights *[256]uint32) (*Matcher, error) {
	if weights == nil {
		panic("tmas: nil weights")
	}
	if len(pattern) == 0 {
		return nil, fmt.Errorf("tmas: %w", ErrEmptyPattern)
	}
	size := len(pattern)
	m := &Matcher{
		pattern: append([]byte(nil), pattern...),
		alpha:   shift.NewAlphabet(pattern, weights),
	}
	m.sigma = m.alpha.Size()

	offsets := make([]int, size)
	for i := range offsets {
		offsets[i] = i
	}
	b := shift.NewBuilder(shift.Source{
		Syms:     m.alpha.Symbols(pattern),
		Offsets:  offsets,
		Weights:  m.alpha.Weights(),
		MaxShift: size,
	})

	// Context size-1 means no position of the window is known yet.
	plans := make([]shift.Plan, size)
	plans[size-1] = b.Build()
	m.matchShift = plans[size-1].MatchShift
	for f := 0; f < size-1; f++ {
		plans[f] = b.BuildFrom(f)
		plans[f].SetMatchShift(m.matchShift)
	}

	m.orders = make([][]int, size)
	m.cells = make([]cell, size*size*m.sigma)
	for ctx, p := range plans {
		m.orders[ctx] = p.Order
		head := p.Order[0]
		for i := 0; i < size; i++ {
			dst := m.row(ctx, i)
			for s, c := range p.Row(i) {
				dst[s] = cell{
					shift: c.Shift,
					next:  int32(m.Next(head, int(c.Shift))),
					match: c.Match,
				}
			}
		}
	}
	return m, nil
}

// Count returns the number of occurrences of pattern in text using the TMAS
// algorithm.
func Count(pattern, text []byte) (int, error) {
	m, err := New(pattern)
	if err != nil {
		return 0, err
	}
	return m.Count(text), nil
}

// Len returns the pattern length.
func (m *Matcher) Len() int {
	return len(m.pattern)
}

// Contexts returns the number of automaton states, the pattern length.
func (m *Matcher) Contexts() int {
	return len(m.orders)
}

// Order returns the scan order used when no position is known, which is also
// the order of the first window.
func (m *Matcher) Order() []int {
	return m.OrderFor(len(m.pattern) - 1)
}

// OrderFor returns the scan order of context ctx. For ctx < Len()-1 the
// known position ctx comes last.
func (m *Matcher) OrderFor(ctx int) []int {
	return append([]int(nil), m.orders[ctx]...)
}

// MatchShift returns the distance the window advances after an occurrence.
func (m *Matcher) MatchShift() int {
	return m.matchShift
}

// Next returns the context reached when a window whose first scanned
// position was head advances by sh: the text byte compared at head now sits
// at head-sh, or left of the window.
func (m *Matcher) Next(head, sh int) int {
	if f := head - sh; f >= 0 {
		return f
	}
	return len(m.pattern) - 1
}

// Count returns the number of occurrences in text, overlapping ones included.
func (m *Matcher) Count(text []byte) int {
	return m.search(text, nil)
}

// CountPadded counts the occurrences in buf[:n]. It accepts the same buffers
// as the other matchers but never writes the slack: the scan checks the end
// of the text itself.
func (m *Matcher) CountPadded(buf []byte, n int) (int, error) {
	if n < 0 || len(buf)-n < len(m.pattern) {
		return 0, fmt.Errorf("tmas: %w: have %d, need %d", ErrShortBuffer, len(buf), n+len(m.pattern))
	}
	return m.search(buf[:n], nil), nil
}

// Occurrences returns the start offset of every occurrence in text.
func (m *Matcher) Occurrences(text []byte) (*roaring.Bitmap, error) {
	if uint64(len(text)) > math.MaxUint32 {
		return nil, fmt.Errorf("tmas: %w: %d bytes", ErrTextTooLarge, len(text))
	}
	bm := roaring.New()
	m.search(text, func(pos int) {
		bm.Add(uint32(pos))
	})
	return bm, nil
}

func (m *Matcher) row(ctx, i int) []cell {
	off := (ctx*len(m.pattern) + i) * m.sigma
	return m.cells[off : off+m.sigma : off+m.sigma]
}

func (m *Matcher) search(text []byte, visit func(int)) int {
	var (
		size  = len(m.pattern)
		last  = len(text) - size
		class = &m.alpha
		ctx   = size - 1
		count = 0
		w     = 0
	)
	for w <= last {
		order := m.orders[ctx]
		c := m.row(ctx, 0)[class.Class(text[w+order[0]])]
		for !c.match {
			w += int(c.shift)
			ctx = int(c.next)
			if w > last {
				return count
			}
			order = m.orders[ctx]
			c = m.row(ctx, 0)[class.Class(text[w+order[0]])]
		}

		i := 1
		for ; i < size; i++ {
			c = m.row(ctx, i)[class.Class(text[w+order[i]])]
			if !c.match {
				break
			}
		}
		if i == size {
			count++
			if visit != nil {
				visit(w)
			}
		}
		// On a full match c is the last matching cell, which carries the
		// match shift.
		w += int(c.shift)
		ctx = int(c.next)
	}
	return count
}
