package features

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/mnist"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBriefBits is the number of pixel pairs in a BRIEF descriptor.
const DefaultBriefBits = 8192

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Pair is one BRIEF intensity test.
type Pair struct {
	A, B Point
}

// Descriptor is a fixed set of random pixel-pair tests over images of one side length.
type Descriptor struct {
	pairs []Pair
	side  int
}

// NewDescriptor samples n pixel pairs for images of the given side.
//
// Coordinates are drawn from Normal(side/2, side/2) and clamped into the
// image, which concentrates tests around the center where digits are drawn.
func NewDescriptor(n, side int, src rand.Source) *Descriptor {
	center := float64(side / 2)
	dist := distuv.Normal{Mu: center, Sigma: center, Src: src}

	coord := func() int {
		v := int(math.Floor(dist.Rand()))
		return min(max(v, 0), side-1)
	}

	pairs := make([]Pair, n)
	for i := range pairs {
		pairs[i] = Pair{
			A: Point{X: coord(), Y: coord()},
			B: Point{X: coord(), Y: coord()},
		}
	}
	return &Descriptor{pairs: pairs, side: side}
}

// Len returns the number of bits the descriptor produces.
func (d *Descriptor) Len() int {
	return len(d.pairs)
}

// Side returns the image side the descriptor applies to.
func (d *Descriptor) Side() int {
	return d.side
}

// Pairs returns the sampled tests.
func (d *Descriptor) Pairs() []Pair {
	return d.pairs
}

// Apply computes one bit per pair: whether the first pixel is darker than the second.
// It panics when img does not match the descriptor's side.
func (d *Descriptor) Apply(img mnist.Image) *bitseq.Sequence {
	if img.Side() != d.side {
		panic(fmt.Sprintf("features: descriptor for side %d applied to side %d", d.side, img.Side()))
	}

	seq := bitseq.NewWithCapacity(len(d.pairs))
	for _, p := range d.pairs {
		seq.Add(img.Get(p.A.X, p.A.Y) < img.Get(p.B.X, p.B.Y))
	}
	return seq
}
