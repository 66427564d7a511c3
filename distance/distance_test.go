package distance

import (
	"math"
	"testing"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}

	tests := []struct {
		metric   Metric
		expected float64
	}{
		{SquaredEuclidean, 25},
		{Euclidean, 5},
		{Manhattan, 7},
		{Chebyshev, 4},
		{Hamming, 2},
	}

	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			fn, err := Provider(tt.metric)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, fn(a, b), 1e-9)
			assert.InDelta(t, tt.expected, fn(b, a), 1e-9)
			assert.Zero(t, fn(a, a))
		})
	}

	_, err := Provider(Metric(42))
	assert.Error(t, err)
}

func TestProviderBytes(t *testing.T) {
	a := []byte{0, 10, 255}
	b := []byte{3, 6, 255}

	tests := []struct {
		metric   Metric
		expected float64
	}{
		{SquaredEuclidean, 25},
		{Euclidean, 5},
		{Manhattan, 7},
		{Chebyshev, 4},
		// 0^3 = 0b011, 10^6 = 0b1100
		{Hamming, 4},
	}

	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			fn, err := ProviderBytes(tt.metric)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, fn(a, b), 1e-9)
			assert.Zero(t, fn(b, b))
		})
	}

	_, err := ProviderBytes(Metric(-1))
	assert.Error(t, err)
}

func TestSquaredL2Bytes_NoOverflow(t *testing.T) {
	a := make([]byte, 784)
	b := make([]byte, 784)
	for i := range b {
		b[i] = 255
	}
	assert.Equal(t, float64(784*255*255), SquaredL2Bytes(a, b))
}

func TestProviderBits(t *testing.T) {
	fn, err := ProviderBits(Hamming)
	require.NoError(t, err)

	a, err := bitseq.Parse("1100")
	require.NoError(t, err)
	b, err := bitseq.Parse("1010")
	require.NoError(t, err)
	assert.Equal(t, 2.0, fn(a, b))

	_, err = ProviderBits(Euclidean)
	assert.Error(t, err)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("manhattan")
	require.NoError(t, err)
	assert.Equal(t, Manhattan, m)

	m, err = ParseMetric("SquaredEuclidean")
	require.NoError(t, err)
	assert.Equal(t, SquaredEuclidean, m)

	_, err = ParseMetric("cosine")
	assert.Error(t, err)

	assert.Equal(t, "Unknown(9)", Metric(9).String())
}

func TestLengthMismatch(t *testing.T) {
	assert.Panics(t, func() { SquaredL2([]float64{1}, []float64{1, 2}) })
	assert.Panics(t, func() { HammingBytes([]byte{1}, nil) })
}

func TestTriangleInequality(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}
	c := []float64{6, 0}

	for _, fn := range []Func{L2, L1, LInf} {
		assert.LessOrEqual(t, fn(a, c), fn(a, b)+fn(b, c)+1e-12)
	}
	assert.False(t, math.IsNaN(L2(a, b)))
}
