package mas

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhr3/mas/internal/naive"
)

func randomSeq(r *rand.Rand, n int, alphabet string) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return b
}

func positions(pattern, text []byte) *roaring.Bitmap {
	bm := roaring.New()
	for _, p := range naive.Positions(pattern, text) {
		bm.Add(uint32(p))
	}
	return bm
}

func TestCountScenarios(t *testing.T) {
	tests := []struct {
		pattern, text string
		want          int
	}{
		{"AA", "AAAA", 3},
		{"ACGT", "ACGTACGTACGT", 3},
		{"GGGG", "AAAAAAAAAA", 0},
		{"GATTACA", "GATTACA", 1},
		{"GATTACA", "GATTACC", 0},
		{"A", "A", 1},
		{"A", "C", 0},
		{"T", "ACGTTT", 3},
		{"ACGTA", "ACGT", 0},
		{"ACA", "ACACACA", 3},
		{"AACAA", "AACAACAACAA", 3},
		{"CAT", "the cat sat on a CAT mat", 1},
		{"NNN", "ACNNNNGT", 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.pattern, tt.text), func(t *testing.T) {
			got, err := Count([]byte(tt.pattern), []byte(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsEmptyPattern(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyPattern)
	_, err = Count([]byte{}, []byte("ACGT"))
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestNewWithNilWeightsPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewWithWeights([]byte("A"), nil) })
}

func TestOrderIsPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for size := 1; size <= 48; size++ {
		m, err := New(randomSeq(r, size, "ACGT"))
		require.NoError(t, err)
		order := m.Order()
		require.Len(t, order, size)
		seen := make([]bool, size)
		for _, p := range order {
			require.False(t, seen[p], "position %d repeated in %v", p, order)
			seen[p] = true
		}
	}
}

func TestPreprocessingIsDeterministic(t *testing.T) {
	pattern := []byte("ACGTTGCAAGGCTTAC")
	m1, err := New(pattern)
	require.NoError(t, err)
	m2, err := New(pattern)
	require.NoError(t, err)
	assert.Equal(t, m1.plan, m2.plan)
	assert.Equal(t, m1.alpha, m2.alpha)
}

func TestMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	alphabets := []string{"ACGT", "AC", "A", "ACGTN", "acgtACGT"}
	for i := 0; i < 2000; i++ {
		alpha := alphabets[i%len(alphabets)]
		n := 1 + r.Intn(200)
		size := 1 + r.Intn(min(n, 16))
		text := randomSeq(r, n, alpha)
		pattern := randomSeq(r, size, alpha)
		if r.Intn(2) == 0 {
			// Plant the pattern so matches are frequent.
			at := r.Intn(n - size + 1)
			copy(text[at:], pattern)
		}

		m, err := New(pattern)
		require.NoError(t, err)
		want := naive.Count(pattern, text)
		require.Equal(t, want, m.Count(text), "Count(%q, %q)", pattern, text)
	}
}

func TestNoOccurrenceSkipped(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	texts := [][]byte{
		bytes.Repeat([]byte("A"), 300),
		bytes.Repeat([]byte("AC"), 150),
		bytes.Repeat([]byte("AAC"), 100),
		bytes.Repeat([]byte("ACGTACGA"), 40),
		randomSeq(r, 500, "AC"),
		randomSeq(r, 500, "ACGT"),
	}
	for _, text := range texts {
		for size := 1; size <= 24; size++ {
			for j := 0; j < 4; j++ {
				at := r.Intn(len(text) - size + 1)
				pattern := append([]byte(nil), text[at:at+size]...)
				m, err := New(pattern)
				require.NoError(t, err)

				got, err := m.Occurrences(text)
				require.NoError(t, err)
				want := positions(pattern, text)
				require.True(t, want.Equals(got), "pattern %q: want %v, got %v", pattern, want.ToArray(), got.ToArray())
			}
		}
	}
}

func TestPatternEqualsText(t *testing.T) {
	for _, s := range []string{"A", "ACGT", "GATTACAGATTACA", strings.Repeat("T", 33)} {
		m, err := New([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, 1, m.Count([]byte(s)), s)
	}
}

func TestSameLengthNoMatch(t *testing.T) {
	m, err := New([]byte("ACGTACGT"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count([]byte("ACGTACGA")))
	assert.Equal(t, 0, m.Count([]byte("TTTTTTTT")))
}

func TestTextShorterThanPattern(t *testing.T) {
	m, err := New([]byte("ACGTACGT"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count([]byte("ACG")))
	assert.Equal(t, 0, m.Count(nil))

	bm, err := m.Occurrences([]byte("ACG"))
	require.NoError(t, err)
	assert.True(t, bm.IsEmpty())
}

func TestCountLeavesTextUntouched(t *testing.T) {
	backing := []byte("ACGTACGTxxxxxxxx")
	text := backing[:8]
	m, err := New([]byte("ACGT"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count(text))
	assert.Equal(t, "ACGTACGTxxxxxxxx", string(backing))
}

func TestCountPadded(t *testing.T) {
	pattern := []byte("ACGT")
	m, err := New(pattern)
	require.NoError(t, err)

	buf := append([]byte("TTACGTACGTAC"), make([]byte, len(pattern))...)
	got, err := m.CountPadded(buf, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	// The slack now holds the sentinel copy.
	assert.Equal(t, pattern, buf[12:16])

	_, err = m.CountPadded(buf, 13)
	assert.ErrorIs(t, err, ErrShortBuffer)
	_, err = m.CountPadded(buf, -1)
	assert.ErrorIs(t, err, ErrShortBuffer)

	got, err = m.CountPadded(make([]byte, 6), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCountPaddedIgnoresStaleSlack(t *testing.T) {
	// A match that only exists when the slack is read as text must not count.
	pattern := []byte("ACGT")
	m, err := New(pattern)
	require.NoError(t, err)
	buf := []byte("GGGACGTACG")
	got, err := m.CountPadded(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCustomWeights(t *testing.T) {
	var weights [256]uint32
	for _, b := range []byte("etaoinshrdlu ") {
		weights[b] = 10
	}
	text := []byte("the quick brown fox jumps over the lazy dog, then the fox sleeps")
	m, err := NewWithWeights([]byte("the"), &weights)
	require.NoError(t, err)
	// "then" holds an occurrence too.
	assert.Equal(t, 4, m.Count(text))
}

func TestMatchShift(t *testing.T) {
	m, err := New([]byte("ACAC"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.MatchShift())
	assert.Equal(t, 4, m.Len())
}

func FuzzCount(f *testing.F) {
	f.Add([]byte("ACGT"), []byte("ACGTACGTACGT"))
	f.Add([]byte("AA"), []byte("AAAA"))
	f.Add([]byte("GGGG"), []byte("AAAAAAAAAA"))
	f.Add([]byte("x"), []byte(""))
	f.Fuzz(func(t *testing.T, pattern, text []byte) {
		if len(pattern) == 0 || len(pattern) > 64 {
			return
		}
		m, err := New(pattern)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := m.Count(text), naive.Count(pattern, text); got != want {
			t.Fatalf("Count(%q, %q) = %d, want %d", pattern, text, got, want)
		}
	})
}

func BenchmarkCount(b *testing.B) {
	r := rand.New(rand.NewSource(4))
	text := randomSeq(r, 1<<20, "ACGT")
	for _, size := range []int{4, 8, 16, 32, 64} {
		pattern := append([]byte(nil), text[1000:1000+size]...)
		m, err := New(pattern)
		if err != nil {
			b.Fatal(err)
		}
		buf := append(append([]byte(nil), text...), make([]byte, size)...)
		b.Run(fmt.Sprintf("m=%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				if _, err := m.CountPadded(buf, len(text)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
