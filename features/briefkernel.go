package features

import (
	"context"
	"fmt"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/kmeans"
	"github.com/hupe1980/knnlab/mnist"
)

// BriefKernel converts an image into bit images by learning binary kernels
// from the image itself.
//
// The image first becomes its Patchify bits. Each level then clusters the
// KernelSize windows of every current bit image into NumKernels kernels and
// projects the source through each of them, so the output holds
// NumKernels^Levels images.
type BriefKernel struct {
	PatchSize     int
	KernelSize    int
	Levels        int
	NumKernels    int
	Stride        int
	Seed          uint64
	MaxIterations int
}

// DefaultBriefKernel returns the parameters used when none are configured.
func DefaultBriefKernel() BriefKernel {
	return BriefKernel{
		PatchSize:     DefaultPatchSize,
		KernelSize:    3,
		Levels:        1,
		NumKernels:    4,
		Stride:        2,
		MaxIterations: 100,
	}
}

// Convert returns the kernelized bit images of img.
func (bk BriefKernel) Convert(ctx context.Context, img mnist.Image) ([]BitImage, error) {
	if bk.NumKernels < 1 || bk.KernelSize < 1 || bk.Stride < 1 {
		return nil, fmt.Errorf("features: invalid brief kernel parameters %+v", bk)
	}

	current := []BitImage{FromBits(Patchify(img, bk.PatchSize))}
	for range bk.Levels {
		next := make([]BitImage, 0, len(current)*bk.NumKernels)
		for _, src := range current {
			kernels, err := src.FindKernels(ctx, bk.NumKernels, bk.KernelSize,
				kmeans.WithSeed(bk.Seed),
				kmeans.WithMaxIterations(bk.MaxIterations),
			)
			if err != nil {
				return nil, err
			}
			for _, kernel := range kernels {
				next = append(next, src.ProjectThrough(kernel, bk.Stride))
			}
		}
		current = next
	}
	return current, nil
}

// KernelizedDistance sums the Hamming distances of corresponding bit images.
// It panics when the stacks differ in length.
func KernelizedDistance(a, b []BitImage) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("features: kernel stack mismatch %d != %d", len(a), len(b)))
	}
	var sum int
	for i := range a {
		sum += bitseq.Hamming(a[i].Bits(), b[i].Bits())
	}
	return float64(sum)
}
