package features

import (
	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/mnist"
)

// DefaultPatchSize is the side of the neighborhood window used by Patchify.
const DefaultPatchSize = 3

// Patchify emits, for every pixel and every position in the patchSize window
// centered on it, whether the pixel is brighter than that neighbor.
// Neighbors outside the image count as 0.
func Patchify(img mnist.Image, patchSize int) *bitseq.Sequence {
	seq := bitseq.NewWithCapacity(img.Len() * patchSize * patchSize)
	for x, y := range img.Coords(1) {
		p, _ := img.OptionGet(x, y)
		for i, j := range mnist.Window(x, y, patchSize) {
			n, _ := img.OptionGet(i, j)
			seq.Add(p > n)
		}
	}
	return seq
}
