package mnist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(i)
	}
	return out
}

func TestImage_Add(t *testing.T) {
	var img Image
	assert.Equal(t, 0, img.Side())

	img.Add(10)
	assert.Equal(t, 1, img.Side())
	assert.Equal(t, uint8(10), img.Get(0, 0))

	img.Add(20)
	assert.Equal(t, 2, img.Side())
	assert.Equal(t, uint8(20), img.Get(1, 0))

	img.Add(30)
	assert.Equal(t, 2, img.Side())
	assert.Equal(t, uint8(30), img.Get(0, 1))

	img.Add(40)
	assert.Equal(t, 2, img.Side())
	assert.Equal(t, uint8(40), img.Get(1, 1))

	img.Add(50)
	assert.Equal(t, 3, img.Side())
	assert.Equal(t, 5, img.Len())
	assert.Equal(t, uint8(30), img.Get(2, 0))
	assert.Equal(t, uint8(40), img.Get(0, 1))
	assert.Equal(t, uint8(50), img.Get(1, 1))

	_, ok := img.OptionGet(2, 2)
	assert.False(t, ok)
	assert.Panics(t, func() { img.Get(3, 0) })
}

func TestImage_OptionGet(t *testing.T) {
	img := FromPixels(seq(9))

	p, ok := img.OptionGet(2, 1)
	require.True(t, ok)
	assert.Equal(t, uint8(5), p)

	for _, xy := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, ok := img.OptionGet(xy[0], xy[1])
		assert.False(t, ok, "(%d,%d)", xy[0], xy[1])
	}
}

func TestFromPixels_Copies(t *testing.T) {
	src := seq(4)
	img := FromPixels(src)
	src[0] = 99

	assert.Equal(t, uint8(0), img.Get(0, 0))
	assert.Equal(t, 2, img.Side())
	assert.Equal(t, []float64{0, 1, 2, 3}, img.Float64s())
}

func TestImage_Shrunken(t *testing.T) {
	img := FromPixels(seq(16))

	small := img.Shrunken(2)
	assert.Equal(t, 2, small.Side())
	assert.Equal(t, []uint8{2, 4, 10, 12}, small.Pixels())

	assert.True(t, img.Equal(img.Shrunken(1)))
	assert.Equal(t, 0, img.Shrunken(5).Len())
	assert.Panics(t, func() { img.Shrunken(0) })
}

func TestImage_Subimage(t *testing.T) {
	img := FromPixels([]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9})

	corner := img.Subimage(0, 0, 3)
	assert.Equal(t, 3, corner.Side())
	assert.Equal(t, []uint8{0, 0, 0, 0, 1, 2, 0, 4, 5}, corner.Pixels())

	even := img.Subimage(1, 1, 2)
	assert.Equal(t, []uint8{1, 2, 4, 5}, even.Pixels())

	assert.True(t, img.Equal(img.Subimage(1, 1, 3)))
}

func TestImage_Permuted(t *testing.T) {
	img := FromPixels([]uint8{1, 2, 3, 4})

	p, err := img.Permuted([]int{3, 2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 3, 2, 1}, p.Pixels())

	identity, err := img.Permuted([]int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.True(t, img.Equal(identity))

	_, err = img.Permuted([]int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidPermutation)

	_, err = img.Permuted([]int{0, 1, 2, 7})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
}

func TestGrid(t *testing.T) {
	var got [][2]int
	for x, y := range Grid(4, 2) {
		got = append(got, [2]int{x, y})
	}
	assert.Equal(t, [][2]int{{0, 0}, {2, 0}, {0, 2}, {2, 2}}, got)

	count := 0
	for range FromPixels(seq(9)).Coords(1) {
		count++
	}
	assert.Equal(t, 9, count)
}

func TestWindow(t *testing.T) {
	var got [][2]int
	for x, y := range Window(5, 5, 3) {
		got = append(got, [2]int{x, y})
	}
	assert.Len(t, got, 9)
	assert.Equal(t, [2]int{4, 4}, got[0])
	assert.Equal(t, [2]int{6, 6}, got[8])

	// Early break stops the iteration.
	n := 0
	for range Window(0, 0, 4) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
