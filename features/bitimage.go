package features

import (
	"context"
	"fmt"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/kmeans"
	"github.com/hupe1980/knnlab/mnist"
)

// BitImage is a square grid of bits stored row-major in a bit sequence.
// The zero value is an empty image ready for Add.
type BitImage struct {
	bits *bitseq.Sequence
	side int
}

// FromBits lays bits out row by row in the smallest square that holds them.
func FromBits(bits *bitseq.Sequence) BitImage {
	side := 0
	for side*side < bits.Len() {
		side++
	}
	return BitImage{bits: bits.Clone(), side: side}
}

// Add appends a bit, growing the side once the square is full.
func (b *BitImage) Add(bit bool) {
	if b.bits == nil {
		b.bits = bitseq.New()
	}
	b.bits.Add(bit)
	if b.bits.Len() > b.side*b.side {
		b.side++
	}
}

// Get returns the bit at (x, y). It panics when the position is out of range.
func (b BitImage) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.side || y >= b.side {
		panic(fmt.Sprintf("features: bit (%d, %d) outside image of side %d", x, y, b.side))
	}
	return b.bits.Get(y*b.side + x)
}

// OptionGet returns the bit at (x, y) and whether the position holds one.
func (b BitImage) OptionGet(x, y int) (bool, bool) {
	if x < 0 || y < 0 || x >= b.side || y >= b.side {
		return false, false
	}
	i := y*b.side + x
	if i >= b.Len() {
		return false, false
	}
	return b.bits.Get(i), true
}

// Side returns the side length.
func (b BitImage) Side() int {
	return b.side
}

// Len returns the number of bits.
func (b BitImage) Len() int {
	if b.bits == nil {
		return 0
	}
	return b.bits.Len()
}

// Bits returns the backing sequence.
func (b BitImage) Bits() *bitseq.Sequence {
	if b.bits == nil {
		return bitseq.New()
	}
	return b.bits
}

// Equal reports whether both images have the same side and bits.
func (b BitImage) Equal(other BitImage) bool {
	return b.side == other.side && b.Bits().Equal(other.Bits())
}

// Subimage returns the side×side window centered on (cx, cy).
// Positions outside the source read as false.
func (b BitImage) Subimage(cx, cy, side int) BitImage {
	result := BitImage{bits: bitseq.NewWithCapacity(side * side)}
	for x, y := range mnist.Window(cx, cy, side) {
		bit, _ := b.OptionGet(x, y)
		result.Add(bit)
	}
	return result
}

// Subimages returns the kernelSize window around every position.
func (b BitImage) Subimages(kernelSize int) []BitImage {
	subs := make([]BitImage, 0, b.side*b.side)
	for x, y := range mnist.Grid(b.side, 1) {
		subs = append(subs, b.Subimage(x, y, kernelSize))
	}
	return subs
}

// FindKernels clusters the kernelSize windows of the image into numKernels
// groups and returns the majority image of each group.
func (b BitImage) FindKernels(ctx context.Context, numKernels, kernelSize int, opts ...kmeans.Option) ([]BitImage, error) {
	model, err := kmeans.Train(ctx, numKernels, b.Subimages(kernelSize), BitImageSpace(), opts...)
	if err != nil {
		return nil, fmt.Errorf("features: find kernels: %w", err)
	}
	return model.Means(), nil
}

// ProjectThrough slides kernel over the image at the given stride. Each output
// bit is set when the window differs from the kernel in more than half its bits.
func (b BitImage) ProjectThrough(kernel BitImage, stride int) BitImage {
	var result BitImage
	for x, y := range mnist.Grid(b.side, stride) {
		sub := b.Subimage(x, y, kernel.Side())
		result.Add(bitseq.Hamming(sub.Bits(), kernel.Bits()) > kernel.Len()/2)
	}
	return result
}

// BitImageDistance is the Hamming distance between two bit images.
func BitImageDistance(a, b BitImage) float64 {
	return bitseq.Distance(a.Bits(), b.Bits())
}

// MajorityImage returns the bitwise majority of images. Ties resolve to true.
func MajorityImage(images []BitImage) BitImage {
	seqs := make([]*bitseq.Sequence, len(images))
	for i, img := range images {
		seqs[i] = img.Bits()
	}
	return BitImage{bits: bitseq.Majority(seqs), side: images[0].side}
}

// BitImageSpace is the k-means geometry of bit images.
func BitImageSpace() kmeans.Space[BitImage] {
	return kmeans.Space[BitImage]{
		Distance: BitImageDistance,
		Mean:     MajorityImage,
		Equal:    func(a, b BitImage) bool { return a.Equal(b) },
	}
}
