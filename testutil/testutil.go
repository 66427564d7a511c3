package testutil

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/mnist"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Source returns an independent source derived from the next random value.
func (r *RNG) Source() rand.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.NewPCG(r.rand.Uint64(), r.rand.Uint64())
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bools returns n random booleans.
func (r *RNG) Bools(n int) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]bool, n)
	for i := range out {
		out[i] = r.rand.IntN(2) == 1
	}
	return out
}

// Bits returns a random bit sequence of length n.
func (r *RNG) Bits(n int) *bitseq.Sequence {
	return bitseq.FromBools(r.Bools(n))
}

// Pixels fills a side×side image with uniform random intensities.
func (r *RNG) Pixels(side int) mnist.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	pixels := make([]uint8, side*side)
	for i := range pixels {
		pixels[i] = uint8(r.rand.IntN(256))
	}
	return mnist.FromPixels(pixels)
}

// ClusteredPoints generates num points of dimension dim around clusters
// random centers in [0, 1). spread bounds the per-coordinate offset.
// It returns the points and the index of the center each belongs to.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][]float64, clusters)
	for i := range centers {
		centers[i] = make([]float64, dim)
		for j := range centers[i] {
			centers[i][j] = r.rand.Float64()
		}
	}

	points := make([][]float64, num)
	owners := make([]int, num)
	for i := range points {
		c := i % clusters
		owners[i] = c
		points[i] = make([]float64, dim)
		for j := range points[i] {
			points[i][j] = centers[c][j] + (r.rand.Float64()*2-1)*spread
		}
	}
	return points, owners
}

// Digits generates num labeled side×side images over the given number of
// labels. Each label draws a bright horizontal band at its own height plus
// a little noise, so images of one label are closer to each other than to
// any other label. Labels cycle 0, 1, ..., labels-1.
func (r *RNG) Digits(num, side, labels int) []core.Labeled[mnist.Image] {
	r.mu.Lock()
	defer r.mu.Unlock()

	band := max(side/(labels+1), 1)
	items := make([]core.Labeled[mnist.Image], num)
	for i := range items {
		label := i % labels
		top := (label * side) / labels
		pixels := make([]uint8, side*side)
		for y := range side {
			for x := range side {
				v := r.rand.IntN(32)
				if y >= top && y < top+band {
					v = 223 + r.rand.IntN(33)
				}
				pixels[y*side+x] = uint8(v)
			}
		}
		items[i] = core.Labeled[mnist.Image]{Label: core.Label(label), Value: mnist.FromPixels(pixels)}
	}
	return items
}

// NearestLabel returns the label of the closest example by brute force.
// Ties go to the earliest example.
func NearestLabel[T any](query T, examples []core.Labeled[T], distance core.DistanceFunc[T]) core.Label {
	type scored struct {
		index int
		dist  float64
	}
	all := make([]scored, len(examples))
	for i, ex := range examples {
		all[i] = scored{index: i, dist: distance(query, ex.Value)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	return examples[all[0].index].Label
}
