package features

import (
	"fmt"

	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/distance"
	"github.com/hupe1980/knnlab/mnist"
)

// DefaultReduction is the shrink factor between pyramid levels.
const DefaultReduction = 2

// Pyramid holds an image followed by successively shrunken copies of it.
type Pyramid []mnist.Image

// NewPyramid shrinks img by reduction while its side is at least 2.
// The last level kept is the final one with side >= 2. It panics when reduction < 2.
func NewPyramid(img mnist.Image, reduction int) Pyramid {
	if reduction < 2 {
		panic(fmt.Sprintf("features: pyramid reduction %d must be at least 2", reduction))
	}

	var levels Pyramid
	for img.Side() >= 2 {
		levels = append(levels, img)
		img = img.Shrunken(reduction)
	}
	return levels
}

// PyramidDistance sums the per-level image distances under the given metric.
// Both pyramids must have the same number of levels.
func PyramidDistance(m distance.Metric) (core.DistanceFunc[Pyramid], error) {
	fn, err := Baseline(m)
	if err != nil {
		return nil, err
	}
	return func(a, b Pyramid) float64 {
		if len(a) != len(b) {
			panic(fmt.Sprintf("features: pyramid depth mismatch %d != %d", len(a), len(b)))
		}
		var sum float64
		for i := range a {
			sum += fn(a[i], b[i])
		}
		return sum
	}, nil
}
