package distance

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/core"
	"gonum.org/v1/gonum/floats"
)

// Metric represents the distance metric used for comparing representations.
type Metric int

const (
	SquaredEuclidean Metric = iota
	Euclidean
	Manhattan
	Chebyshev
	Hamming
)

func (m Metric) String() string {
	switch m {
	case SquaredEuclidean:
		return "SquaredEuclidean"
	case Euclidean:
		return "Euclidean"
	case Manhattan:
		return "Manhattan"
	case Chebyshev:
		return "Chebyshev"
	case Hamming:
		return "Hamming"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric returns the metric with the given case-insensitive name.
func ParseMetric(name string) (Metric, error) {
	for m := SquaredEuclidean; m <= Hamming; m++ {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", name)
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// FuncBytes is a function type for distance calculation on byte slices.
type FuncBytes func(a, b []byte) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case SquaredEuclidean:
		return SquaredL2, nil
	case Euclidean:
		return L2, nil
	case Manhattan:
		return L1, nil
	case Chebyshev:
		return LInf, nil
	case Hamming:
		return Mismatches, nil
	default:
		return nil, fmt.Errorf("unsupported metric for float64: %v", m)
	}
}

// ProviderBytes returns the distance function for the given metric on byte slices.
func ProviderBytes(m Metric) (FuncBytes, error) {
	switch m {
	case SquaredEuclidean:
		return SquaredL2Bytes, nil
	case Euclidean:
		return func(a, b []byte) float64 { return math.Sqrt(SquaredL2Bytes(a, b)) }, nil
	case Manhattan:
		return L1Bytes, nil
	case Chebyshev:
		return LInfBytes, nil
	case Hamming:
		return HammingBytes, nil
	default:
		return nil, fmt.Errorf("unsupported metric for bytes: %v", m)
	}
}

// ProviderBits returns the distance function for the given metric on bit sequences.
// Only Hamming is defined for bits.
func ProviderBits(m Metric) (core.DistanceFunc[*bitseq.Sequence], error) {
	if m != Hamming {
		return nil, fmt.Errorf("unsupported metric for bits: %v", m)
	}
	return bitseq.Distance, nil
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float64) float64 {
	checkLen(len(a), len(b))
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// L1 calculates the Manhattan distance between two vectors.
func L1(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// LInf calculates the Chebyshev distance between two vectors.
func LInf(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

// Mismatches counts the positions where two vectors differ.
func Mismatches(a, b []float64) float64 {
	checkLen(len(a), len(b))
	var n int
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return float64(n)
}

// SquaredL2Bytes calculates the squared Euclidean distance between two byte vectors.
func SquaredL2Bytes(a, b []byte) float64 {
	checkLen(len(a), len(b))
	var sum int
	for i := range a {
		d := int(a[i]) - int(b[i])
		sum += d * d
	}
	return float64(sum)
}

// L1Bytes calculates the Manhattan distance between two byte vectors.
func L1Bytes(a, b []byte) float64 {
	checkLen(len(a), len(b))
	var sum int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum)
}

// LInfBytes calculates the Chebyshev distance between two byte vectors.
func LInfBytes(a, b []byte) float64 {
	checkLen(len(a), len(b))
	var best int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		best = max(best, d)
	}
	return float64(best)
}

// HammingBytes calculates the number of differing bits between two byte slices.
func HammingBytes(a, b []byte) float64 {
	checkLen(len(a), len(b))
	var n int
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return float64(n)
}

func checkLen(a, b int) {
	if a != b {
		panic(fmt.Sprintf("distance: length mismatch %d != %d", a, b))
	}
}
