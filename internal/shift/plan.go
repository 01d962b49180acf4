package shift

import "fmt"

// Cell is one shift table entry: either the symbol matches the pattern at
// this scan position, or the window can safely advance by Shift.
//
// A matching cell still carries a shift. On the last scan position it is the
// distance to advance after a full match.
type Cell struct {
	Shift int32
	Match bool
}

// Plan is the result of preprocessing: the order in which units are compared
// and, for every scan index, the cell to apply for each symbol.
type Plan struct {
	Order      []int // units by scan index
	MatchShift int   // advance after all units matched

	own   []int // pattern symbol per scan index
	cells []Cell
	sigma int
}

// Len returns the number of scan positions.
func (p *Plan) Len() int {
	return len(p.Order)
}

// Row returns the cells of scan index i, indexed by symbol.
func (p *Plan) Row(i int) []Cell {
	return p.cells[i*p.sigma : (i+1)*p.sigma : (i+1)*p.sigma]
}

// Own returns the pattern symbol compared at scan index i.
func (p *Plan) Own(i int) int {
	return p.own[i]
}

// SetMatchShift replaces the full-match shift, both in MatchShift and in the
// matching cell of the last scan index.
func (p *Plan) SetMatchShift(k int) {
	last := len(p.Order) - 1
	p.Row(last)[p.own[last]].Shift = int32(k)
	p.MatchShift = k
}

// Validate checks that Order is a permutation of 0..Len()-1 and that every
// shift lies in [1, max].
func (p *Plan) Validate(max int) error {
	seen := make([]bool, len(p.Order))
	for i, u := range p.Order {
		if u < 0 || u >= len(p.Order) {
			return fmt.Errorf("scan index %d: unit %d out of range", i, u)
		}
		if seen[u] {
			return fmt.Errorf("scan index %d: unit %d repeated", i, u)
		}
		seen[u] = true
	}
	for i, c := range p.cells {
		if c.Shift < 1 || int(c.Shift) > max {
			return fmt.Errorf("cell %d/%d: shift %d outside [1, %d]", i/p.sigma, i%p.sigma, c.Shift, max)
		}
	}
	if p.MatchShift < 1 || p.MatchShift > max {
		return fmt.Errorf("match shift %d outside [1, %d]", p.MatchShift, max)
	}
	return nil
}
