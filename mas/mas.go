// Package mas implements the Maximal Average Shift exact matcher.
//
// Preprocessing chooses the order in which pattern positions are compared so
// that the expected shift, weighted by symbol frequency, is as large as
// possible at every step. The default weights model DNA text; any byte may
// still appear in the pattern or the text.
package mas

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

// Matcher counts occurrences of one pattern. Construct once with New, then
// search any number of texts. A Matcher is never modified by a search.
type Matcher struct {
	pattern []byte
	alpha   shift.Alphabet
	plan    shift.Plan
}

// New preprocesses pattern using the DNA base frequencies.
func New(pattern []byte) (*Matcher, error) {
	return NewWithWeights(pattern, &dna.Weights)
}

// NewWithWeights preprocesses pattern using a custom byte frequency table.
func NewWithWeights(pattern []byte, weights *[256]uint32) (*Matcher, error) {
	if weights == nil {
		panic("mas: nil weights")
	}
	if len(pattern) == 0 {
		return nil, fmt.Errorf("mas: %w", ErrEmptyPattern)
	}
	m := &Matcher{
		pattern: append([]byte(nil), pattern...),
		alpha:   shift.NewAlphabet(pattern, weights),
	}
	offsets := make([]int, len(pattern))
	for i := range offsets {
		offsets[i] = i
	}
	m.plan = shift.NewBuilder(shift.Source{
		Syms:     m.alpha.Symbols(pattern),
		Offsets:  offsets,
		Weights:  m.alpha.Weights(),
		MaxShift: len(pattern),
	}).Build()
	return m, nil
}

// Count returns the number of occurrences of pattern in text using the MAS
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

// Order returns the scan order: the pattern positions in comparison order.
func (m *Matcher) Order() []int {
	return append([]int(nil), m.plan.Order...)
}

// MatchShift returns the distance the window advances after an occurrence.
func (m *Matcher) MatchShift() int {
	return m.plan.MatchShift
}

// Count returns the number of occurrences in text, overlapping ones included.
// text is not modified; the search runs on a padded copy.
func (m *Matcher) Count(text []byte) int {
	if len(text) < len(m.pattern) {
		return 0
	}
	return m.search(m.padded(text), len(text), nil)
}

// CountPadded counts the occurrences in buf[:n]. buf must hold at least
// n+Len() bytes: buf[n:n+Len()] is overwritten with the pattern, which stops
// the inner loop without an end-of-text check.
func (m *Matcher) CountPadded(buf []byte, n int) (int, error) {
	if n < 0 || len(buf)-n < len(m.pattern) {
		return 0, fmt.Errorf("mas: %w: have %d, need %d", ErrShortBuffer, len(buf), n+len(m.pattern))
	}
	if n < len(m.pattern) {
		return 0, nil
	}
	return m.search(buf, n, nil), nil
}

// Occurrences returns the start offset of every occurrence in text.
func (m *Matcher) Occurrences(text []byte) (*roaring.Bitmap, error) {
	if uint64(len(text)) > math.MaxUint32 {
		return nil, fmt.Errorf("mas: %w: %d bytes", ErrTextTooLarge, len(text))
	}
	bm := roaring.New()
	if len(text) < len(m.pattern) {
		return bm, nil
	}
	m.search(m.padded(text), len(text), func(pos int) {
		bm.Add(uint32(pos))
	})
	return bm, nil
}

func (m *Matcher) padded(text []byte) []byte {
	buf := make([]byte, len(text)+len(m.pattern))
	copy(buf, text)
	return buf
}

// search runs the scan over buf[:n], which must be followed by Len() bytes
// of slack. visit, if non-nil, receives every occurrence.
func (m *Matcher) search(buf []byte, n int, visit func(int)) int {
	size := len(m.pattern)
	copy(buf[n:n+size], m.pattern)

	var (
		order = m.plan.Order
		first = order[0]
		head  = m.plan.Row(0)
		class = &m.alpha
		last  = n - size
		count = 0
		w     = 0
	)
	for {
		// The copy at buf[n:] matches at position first, so this loop stops
		// at the latest when w reaches n.
		c := head[class.Class(buf[w+first])]
		for !c.Match {
			w += int(c.Shift)
			c = head[class.Class(buf[w+first])]
		}
		if w > last {
			return count
		}

		i := 1
		for ; i < size; i++ {
			c = m.plan.Row(i)[class.Class(buf[w+order[i]])]
			if !c.Match {
				break
			}
		}
		if i < size {
			w += int(c.Shift)
			continue
		}
		count++
		if visit != nil {
			visit(w)
		}
		w += m.plan.MatchShift
	}
}
