// Package qmas implements the q-gram Maximal Average Shift matcher for DNA
// patterns, with q = 4.
//
// The pattern is split into blocks of four bases aligned to its end. Each
// block is compared through its one-byte fingerprint, so a scan order entry
// checks four bases at once and the shift table has 256 columns. Leading
// bases that do not fill a block are not scanned; a window whose blocks all
// match is confirmed by comparing its bytes with the pattern.
package qmas

import (
	"bytes"
	"errors"
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

	// ErrShortPattern is returned for patterns shorter than one block.
	ErrShortPattern = errors.New("pattern shorter than 4 bases")
)

// Matcher counts occurrences of one DNA pattern. Construct once with New,
// then search any number of texts. A Matcher is never modified by a search.
type Matcher struct {
	pattern []byte
	offsets []int // pattern offset of each block
	plan    shift.Plan
}

// New preprocesses pattern using fingerprint weights derived from the DNA
// base frequencies.
func New(pattern []byte) (*Matcher, error) {
	return NewWithWeights(pattern, &dna.FingerprintWeights)
}

// NewWithWeights preprocesses pattern using a custom fingerprint frequency
// table.
func NewWithWeights(pattern []byte, weights *[256]uint32) (*Matcher, error) {
	if weights == nil {
		panic("qmas: nil weights")
	}
	switch {
	case len(pattern) == 0:
		return nil, fmt.Errorf("qmas: %w", ErrEmptyPattern)
	case len(pattern) < dna.Q:
		return nil, fmt.Errorf("qmas: %w: got %d", ErrShortPattern, len(pattern))
	}
	if err := dna.Validate(pattern); err != nil {
		return nil, fmt.Errorf("qmas: %w", err)
	}

	size := len(pattern)
	r := size % dna.Q
	m := &Matcher{
		pattern: append([]byte(nil), pattern...),
		offsets: make([]int, size/dna.Q),
	}
	for u := range m.offsets {
		m.offsets[u] = r + dna.Q*u
	}
	syms := make([]int, size-dna.Q+1)
	for j := range syms {
		syms[j] = int(dna.FingerprintAt(pattern, j))
	}
	w := make([]int, len(weights))
	for fp, v := range weights {
		w[fp] = int(v)
	}
	m.plan = shift.NewBuilder(shift.Source{
		Syms:     syms,
		Offsets:  m.offsets,
		Weights:  w,
		MaxShift: size,
	}).Build()
	return m, nil
}

// Count returns the number of occurrences of pattern in text using the 4QMAS
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

// Blocks returns the number of fingerprinted blocks.
func (m *Matcher) Blocks() int {
	return len(m.offsets)
}

// Order returns the scan order as block indexes. Block u starts at pattern
// offset Len()%4 + 4u.
func (m *Matcher) Order() []int {
	return append([]int(nil), m.plan.Order...)
}

// MatchShift returns the distance the window advances after all blocks
// matched.
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
// n+Len() bytes: buf[n:n+Len()] is overwritten with the pattern.
func (m *Matcher) CountPadded(buf []byte, n int) (int, error) {
	if n < 0 || len(buf)-n < len(m.pattern) {
		return 0, fmt.Errorf("qmas: %w: have %d, need %d", ErrShortBuffer, len(buf), n+len(m.pattern))
	}
	if n < len(m.pattern) {
		return 0, nil
	}
	return m.search(buf, n, nil), nil
}

// Occurrences returns the start offset of every occurrence in text.
func (m *Matcher) Occurrences(text []byte) (*roaring.Bitmap, error) {
	if uint64(len(text)) > math.MaxUint32 {
		return nil, fmt.Errorf("qmas: %w: %d bytes", ErrTextTooLarge, len(text))
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

func (m *Matcher) search(buf []byte, n int, visit func(int)) int {
	size := len(m.pattern)
	copy(buf[n:n+size], m.pattern)

	var (
		order  = m.plan.Order
		blocks = len(order)
		first  = m.offsets[order[0]]
		head   = m.plan.Row(0)
		last   = n - size
		count  = 0
		w      = 0
	)
	for {
		c := head[dna.FingerprintAt(buf, w+first)]
		for !c.Match {
			w += int(c.Shift)
			c = head[dna.FingerprintAt(buf, w+first)]
		}
		if w > last {
			return count
		}

		i := 1
		for ; i < blocks; i++ {
			c = m.plan.Row(i)[dna.FingerprintAt(buf, w+m.offsets[order[i]])]
			if !c.Match {
				break
			}
		}
		if i < blocks {
			w += int(c.Shift)
			continue
		}
		if bytes.Equal(buf[w:w+size], m.pattern) {
			count++
			if visit != nil {
				visit(w)
			}
		}
		w += m.plan.MatchShift
	}
}
