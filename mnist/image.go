package mnist

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidPermutation is returned when a permutation does not fit an image.
var ErrInvalidPermutation = errors.New("mnist: invalid permutation")

// Image is a square grid of 8-bit pixels stored row-major.
//
// The side grows as pixels are added: it is the smallest s with s*s >= Len().
// A partially filled image reads as zero past its last pixel through OptionGet.
type Image struct {
	pixels []uint8
	side   int
}

// FromPixels returns an image holding a copy of pixels.
func FromPixels(pixels []uint8) Image {
	return Image{pixels: bytes.Clone(pixels), side: sideFor(len(pixels))}
}

func sideFor(n int) int {
	side := 0
	for side*side < n {
		side++
	}
	return side
}

// Add appends one pixel, growing the side when the grid overflows.
func (img *Image) Add(pixel uint8) {
	img.pixels = append(img.pixels, pixel)
	if len(img.pixels) > img.side*img.side {
		img.side++
	}
}

// Get returns the pixel at column x, row y. It panics when the position is outside the image.
func (img Image) Get(x, y int) uint8 {
	if x < 0 || x >= img.side || y < 0 || y >= img.side {
		panic(fmt.Sprintf("mnist: pixel (%d,%d) out of range for side %d", x, y, img.side))
	}
	return img.pixels[y*img.side+x]
}

// OptionGet returns the pixel at column x, row y, or false when there is none.
func (img Image) OptionGet(x, y int) (uint8, bool) {
	if x < 0 || x >= img.side || y < 0 || y >= img.side {
		return 0, false
	}
	i := y*img.side + x
	if i >= len(img.pixels) {
		return 0, false
	}
	return img.pixels[i], true
}

// Side returns the width (and height) of the grid.
func (img Image) Side() int {
	return img.side
}

// Len returns the number of pixels.
func (img Image) Len() int {
	return len(img.pixels)
}

// Pixels returns the row-major pixel data. The slice must not be modified.
func (img Image) Pixels() []uint8 {
	return img.pixels
}

// Float64s returns the pixels converted to float64.
func (img Image) Float64s() []float64 {
	out := make([]float64, len(img.pixels))
	for i, p := range img.pixels {
		out[i] = float64(p)
	}
	return out
}

// Equal reports whether both images have the same side and pixels.
func (img Image) Equal(other Image) bool {
	return img.side == other.side && bytes.Equal(img.pixels, other.pixels)
}

// Shrunken returns an image of side Side()/factor whose pixels are the
// integer means of factor×factor blocks. It panics when factor < 1.
func (img Image) Shrunken(factor int) Image {
	if factor < 1 {
		panic(fmt.Sprintf("mnist: shrink factor %d must be positive", factor))
	}

	target := img.side / factor
	result := Image{pixels: make([]uint8, 0, target*target)}
	for y := range target {
		for x := range target {
			sum := 0
			for j := y * factor; j < (y+1)*factor; j++ {
				for i := x * factor; i < (x+1)*factor; i++ {
					p, _ := img.OptionGet(i, j)
					sum += int(p)
				}
			}
			result.Add(uint8(sum / (factor * factor)))
		}
	}
	return result
}

// Subimage returns the side×side window centered on (cx, cy).
// Positions outside the source read as zero.
func (img Image) Subimage(cx, cy, side int) Image {
	result := Image{pixels: make([]uint8, 0, side*side)}
	for x, y := range Window(cx, cy, side) {
		p, _ := img.OptionGet(x, y)
		result.Add(p)
	}
	return result
}

// Permuted returns an image whose i-th pixel is the perm[i]-th pixel of img.
func (img Image) Permuted(perm []int) (Image, error) {
	if len(perm) != len(img.pixels) {
		return Image{}, fmt.Errorf("%w: length %d, image has %d pixels", ErrInvalidPermutation, len(perm), len(img.pixels))
	}

	result := Image{pixels: make([]uint8, 0, len(perm))}
	for _, idx := range perm {
		if idx < 0 || idx >= len(img.pixels) {
			return Image{}, fmt.Errorf("%w: index %d out of range", ErrInvalidPermutation, idx)
		}
		result.Add(img.pixels[idx])
	}
	return result, nil
}

// Coords yields every (x, y) of the grid row by row, stepping by stride.
func (img Image) Coords(stride int) iter.Seq2[int, int] {
	return Grid(img.side, stride)
}

// Grid yields (x, y) for a side×side grid row by row, stepping by stride.
func Grid(side, stride int) iter.Seq2[int, int] {
	stride = max(stride, 1)
	return func(yield func(int, int) bool) {
		for y := 0; y < side; y += stride {
			for x := 0; x < side; x += stride {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

// Window yields (x, y) for the side×side window centered on (cx, cy), row by row.
// Coordinates may fall outside any particular image.
func Window(cx, cy, side int) iter.Seq2[int, int] {
	x0, y0 := cx-side/2, cy-side/2
	return func(yield func(int, int) bool) {
		for y := y0; y < y0+side; y++ {
			for x := x0; x < x0+side; x++ {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}
