package features

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/knnlab/distance"
	"github.com/hupe1980/knnlab/kmeans"
	"github.com/hupe1980/knnlab/mnist"
	"gonum.org/v1/gonum/floats"
)

// ErrNoTrainingImages is returned when Fit receives no images.
var ErrNoTrainingImages = errors.New("features: no training images")

// Convolutional learns pixel kernels from training patches with k-means.
//
// Every level convolves each current image with each kernel. The response at
// a pixel is 255 at zero distance and falls linearly to 0 at the largest
// possible Euclidean distance. Responses are then mean-pooled by Stride.
type Convolutional struct {
	KernelSize    int
	NumKernels    int
	Levels        int
	Stride        int
	MaxPatches    int
	Seed          uint64
	MaxIterations int
}

// DefaultConvolutional returns the parameters used when none are configured.
func DefaultConvolutional() Convolutional {
	return Convolutional{
		KernelSize:    3,
		NumKernels:    8,
		Levels:        1,
		Stride:        2,
		MaxPatches:    20000,
		MaxIterations: 100,
	}
}

// ConvolutionalModel holds the kernels learned for every level.
type ConvolutionalModel struct {
	cfg     Convolutional
	kernels [][][]float64
}

// Fit learns NumKernels kernels per level. Later levels are learned on the
// pooled responses of earlier ones.
func (c Convolutional) Fit(ctx context.Context, training []mnist.Image) (*ConvolutionalModel, error) {
	if len(training) == 0 {
		return nil, ErrNoTrainingImages
	}
	if c.KernelSize < 1 || c.NumKernels < 1 || c.Stride < 1 {
		return nil, fmt.Errorf("features: invalid convolutional parameters %+v", c)
	}

	model := &ConvolutionalModel{cfg: c}
	current := training
	for level := range c.Levels {
		patches := c.samplePatches(current)
		km, err := kmeans.Train(ctx, c.NumKernels, patches, PatchSpace(),
			kmeans.WithSeed(c.Seed+uint64(level)),
			kmeans.WithMaxIterations(c.MaxIterations),
		)
		if err != nil {
			return nil, fmt.Errorf("features: fit level %d: %w", level, err)
		}
		kernels := km.Means()
		model.kernels = append(model.kernels, kernels)

		if level+1 < c.Levels {
			next := make([]mnist.Image, 0, len(current)*len(kernels))
			for _, img := range current {
				next = append(next, model.applyLevel(img, kernels)...)
			}
			current = next
		}
	}
	return model, nil
}

// samplePatches collects the KernelSize windows of every pixel, keeping an
// evenly spaced subset of at most MaxPatches.
func (c Convolutional) samplePatches(images []mnist.Image) [][]float64 {
	total := 0
	for _, img := range images {
		total += img.Side() * img.Side()
	}
	step := 1
	if c.MaxPatches > 0 && total > c.MaxPatches {
		step = (total + c.MaxPatches - 1) / c.MaxPatches
	}

	patches := make([][]float64, 0, total/step+1)
	i := 0
	for _, img := range images {
		for x, y := range img.Coords(1) {
			if i%step == 0 {
				patches = append(patches, img.Subimage(x, y, c.KernelSize).Float64s())
			}
			i++
		}
	}
	return patches
}

// Kernels returns the kernels of every level.
func (m *ConvolutionalModel) Kernels() [][][]float64 {
	return m.kernels
}

// Convert returns the pooled responses of img to every kernel path.
// The result holds NumKernels^Levels images.
func (m *ConvolutionalModel) Convert(img mnist.Image) []mnist.Image {
	current := []mnist.Image{img}
	for _, kernels := range m.kernels {
		next := make([]mnist.Image, 0, len(current)*len(kernels))
		for _, src := range current {
			next = append(next, m.applyLevel(src, kernels)...)
		}
		current = next
	}
	return current
}

func (m *ConvolutionalModel) applyLevel(img mnist.Image, kernels [][]float64) []mnist.Image {
	out := make([]mnist.Image, len(kernels))
	for i, kernel := range kernels {
		out[i] = Respond(img, kernel, m.cfg.KernelSize).Shrunken(m.cfg.Stride)
	}
	return out
}

// Respond maps every pixel of img to its closeness to kernel, where kernel
// is a kernelSize×kernelSize patch of intensities.
func Respond(img mnist.Image, kernel []float64, kernelSize int) mnist.Image {
	dmax := math.Sqrt(float64(len(kernel))) * 255

	var result mnist.Image
	for x, y := range img.Coords(1) {
		patch := img.Subimage(x, y, kernelSize).Float64s()
		d := math.Sqrt(distance.SquaredL2(patch, kernel))
		r := 255 * (1 - d/dmax)
		result.Add(uint8(math.Round(min(max(r, 0), 255))))
	}
	return result
}

// StackDistance sums the squared Euclidean distances of corresponding images.
// It panics when the stacks differ in length.
func StackDistance(a, b []mnist.Image) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("features: image stack mismatch %d != %d", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		sum += distance.SquaredL2Bytes(a[i].Pixels(), b[i].Pixels())
	}
	return sum
}

// PatchSpace is the k-means geometry of float patches.
func PatchSpace() kmeans.Space[[]float64] {
	return kmeans.Space[[]float64]{
		Distance: distance.SquaredL2,
		Mean:     patchMean,
		Equal:    func(a, b []float64) bool { return floats.Equal(a, b) },
	}
}

func patchMean(patches [][]float64) []float64 {
	mean := make([]float64, len(patches[0]))
	for _, p := range patches {
		floats.Add(mean, p)
	}
	floats.Scale(1/float64(len(patches)), mean)
	return mean
}
