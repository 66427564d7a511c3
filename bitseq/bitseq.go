package bitseq

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// WordSize is the number of bits packed into one storage word.
const WordSize = 64

// Sequence is an ordered sequence of booleans packed into 64-bit words.
//
// Bits beyond Len are always zero. Operations combining two sequences
// require equal lengths and panic otherwise; the same applies to
// out-of-range indices.
type Sequence struct {
	bits   *bitset.BitSet
	length int
}

// New returns an empty sequence.
func New() *Sequence {
	return &Sequence{bits: bitset.New(0)}
}

// NewWithCapacity returns an empty sequence with storage preallocated for n bits.
func NewWithCapacity(n int) *Sequence {
	if n < 0 {
		n = 0
	}
	return &Sequence{bits: bitset.New(uint(n))}
}

// FromBools builds a sequence holding values in order.
func FromBools(values []bool) *Sequence {
	s := NewWithCapacity(len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Parse builds a sequence from a string of '0' and '1' characters.
func Parse(text string) (*Sequence, error) {
	s := NewWithCapacity(len(text))
	for i, c := range text {
		switch c {
		case '0':
			s.Add(false)
		case '1':
			s.Add(true)
		default:
			return nil, fmt.Errorf("bitseq: invalid character %q at offset %d", c, i)
		}
	}
	return s, nil
}

// Len returns the number of bits in the sequence.
func (s *Sequence) Len() int {
	return s.length
}

// WordCount returns the number of 64-bit words backing the sequence.
func (s *Sequence) WordCount() int {
	return (s.length + WordSize - 1) / WordSize
}

// Add appends one bit.
func (s *Sequence) Add(value bool) {
	if value {
		s.bits.Set(uint(s.length))
	}
	s.length++
}

// Set overwrites the bit at index.
func (s *Sequence) Set(index int, value bool) {
	s.checkIndex(index)
	s.bits.SetTo(uint(index), value)
}

// Get returns the bit at index.
func (s *Sequence) Get(index int) bool {
	s.checkIndex(index)
	return s.bits.Test(uint(index))
}

// CountSetBits returns the number of true bits.
func (s *Sequence) CountSetBits() int {
	return int(s.bits.Count())
}

// Xor returns a new sequence holding the bitwise XOR of s and other.
func (s *Sequence) Xor(other *Sequence) *Sequence {
	requireSameLength(s, other)
	return &Sequence{
		bits:   s.bits.SymmetricDifference(other.bits),
		length: s.length,
	}
}

// Equal reports whether both sequences have the same length and bits.
func (s *Sequence) Equal(other *Sequence) bool {
	if s.length != other.length {
		return false
	}
	return s.bits.SymmetricDifferenceCardinality(other.bits) == 0
}

// Clone returns an independent copy of s.
func (s *Sequence) Clone() *Sequence {
	return &Sequence{bits: s.bits.Clone(), length: s.length}
}

// Bools returns the bits as a bool slice.
func (s *Sequence) Bools() []bool {
	result := make([]bool, s.length)
	for i, ok := s.bits.NextSet(0); ok && int(i) < s.length; i, ok = s.bits.NextSet(i + 1) {
		result[i] = true
	}
	return result
}

// String renders the sequence as '0' and '1' characters.
func (s *Sequence) String() string {
	var sb strings.Builder
	sb.Grow(s.length)
	for i := 0; i < s.length; i++ {
		if s.bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (s *Sequence) checkIndex(index int) {
	if index < 0 || index >= s.length {
		panic(fmt.Sprintf("bitseq: index %d out of range [0,%d)", index, s.length))
	}
}

func requireSameLength(a, b *Sequence) {
	if a.length != b.length {
		panic(fmt.Sprintf("bitseq: length mismatch: %d != %d", a.length, b.length))
	}
}
