package bitseq

import "fmt"

// Hamming returns the number of positions at which a and b differ.
// It does not allocate.
func Hamming(a, b *Sequence) int {
	requireSameLength(a, b)
	return int(a.bits.SymmetricDifferenceCardinality(b.bits))
}

// Distance is Hamming as a float64, usable as a core.DistanceFunc.
func Distance(a, b *Sequence) float64 {
	return float64(Hamming(a, b))
}

// Equal reports whether a and b hold the same bits, usable as a core.EqualFunc.
func Equal(a, b *Sequence) bool {
	return a.Equal(b)
}

// Majority returns the bitwise majority vote of seqs. A bit is set when at
// least half of the inputs have it set, so ties resolve to true.
func Majority(seqs []*Sequence) *Sequence {
	if len(seqs) == 0 {
		panic("bitseq: majority of empty input")
	}
	n := seqs[0].length
	counts := make([]int, n)
	for _, s := range seqs {
		if s.length != n {
			panic(fmt.Sprintf("bitseq: length mismatch: %d != %d", s.length, n))
		}
		for i, ok := s.bits.NextSet(0); ok && int(i) < n; i, ok = s.bits.NextSet(i + 1) {
			counts[i]++
		}
	}
	result := NewWithCapacity(n)
	for _, c := range counts {
		result.Add(2*c >= len(seqs))
	}
	return result
}
