package shift

// Absent is the class shared by every byte that does not occur in the pattern.
const Absent = 0

// Alphabet maps bytes to dense symbol classes for a given pattern: each
// distinct pattern byte gets its own class and all other bytes share Absent.
// Shift tables are indexed by class, so their width follows the pattern's
// alphabet instead of all 256 byte values.
type Alphabet struct {
	class   [256]uint16
	weights []int
}

// NewAlphabet builds the classes of pattern and folds weights onto them. The
// Absent class weighs the sum of all bytes missing from the pattern, so the
// weighted score over classes equals the weighted score over bytes.
func NewAlphabet(pattern []byte, weights *[256]uint32) Alphabet {
	var a Alphabet
	a.weights = []int{Absent: 0}
	for _, b := range pattern {
		if a.class[b] != Absent {
			continue
		}
		a.class[b] = uint16(len(a.weights))
		a.weights = append(a.weights, int(weights[b]))
	}
	for b, w := range weights {
		if a.class[b] == Absent {
			a.weights[Absent] += int(w)
		}
	}
	return a
}

// Class returns the class of b.
func (a *Alphabet) Class(b byte) int {
	return int(a.class[b])
}

// Size returns the number of classes, Absent included.
func (a *Alphabet) Size() int {
	return len(a.weights)
}

// Weights returns the weight of each class.
func (a *Alphabet) Weights() []int {
	return a.weights
}

// Symbols returns the class of every byte of s.
func (a *Alphabet) Symbols(s []byte) []int {
	syms := make([]int, len(s))
	for i, b := range s {
		syms[i] = int(a.class[b])
	}
	return syms
}
