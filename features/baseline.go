package features

import (
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/distance"
	"github.com/hupe1980/knnlab/mnist"
)

// Baseline returns a pixel-wise distance between images under the given metric.
func Baseline(m distance.Metric) (core.DistanceFunc[mnist.Image], error) {
	fn, err := distance.ProviderBytes(m)
	if err != nil {
		return nil, err
	}
	return func(a, b mnist.Image) float64 {
		return fn(a.Pixels(), b.Pixels())
	}, nil
}
