package features

import (
	"context"
	"testing"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/distance"
	"github.com/hupe1980/knnlab/knn"
	"github.com/hupe1980/knnlab/mnist"
	"github.com/hupe1980/knnlab/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(side int, v uint8) mnist.Image {
	pixels := make([]uint8, side*side)
	for i := range pixels {
		pixels[i] = v
	}
	return mnist.FromPixels(pixels)
}

func TestBaseline(t *testing.T) {
	dist, err := Baseline(distance.SquaredEuclidean)
	require.NoError(t, err)

	a := mnist.FromPixels([]uint8{0, 1, 2, 3})
	b := mnist.FromPixels([]uint8{1, 1, 4, 3})
	assert.Equal(t, 5.0, dist(a, b))
	assert.Equal(t, 0.0, dist(a, a))

	_, err = Baseline(distance.Metric(99))
	assert.Error(t, err)
}

func TestPyramid(t *testing.T) {
	img := testutil.NewRNG(1).Pixels(28)

	p := NewPyramid(img, DefaultReduction)

	sides := make([]int, len(p))
	for i, level := range p {
		sides[i] = level.Side()
	}
	assert.Equal(t, []int{28, 14, 7, 3}, sides)
	assert.True(t, p[0].Equal(img))

	assert.Panics(t, func() { NewPyramid(img, 1) })
}

func TestPyramidDistance(t *testing.T) {
	dist, err := PyramidDistance(distance.SquaredEuclidean)
	require.NoError(t, err)

	a := NewPyramid(constant(4, 0), 2)
	b := NewPyramid(constant(4, 1), 2)

	// 16 pixels at level 0, 4 at level 1.
	assert.Equal(t, 20.0, dist(a, b))
	assert.Panics(t, func() { dist(a, b[:1]) })
}

func TestDescriptor(t *testing.T) {
	rng := testutil.NewRNG(7)
	d := NewDescriptor(256, 28, rng.Source())

	assert.Equal(t, 256, d.Len())
	assert.Equal(t, 28, d.Side())
	for _, p := range d.Pairs() {
		for _, pt := range []Point{p.A, p.B} {
			assert.GreaterOrEqual(t, pt.X, 0)
			assert.Less(t, pt.X, 28)
			assert.GreaterOrEqual(t, pt.Y, 0)
			assert.Less(t, pt.Y, 28)
		}
	}

	img := rng.Pixels(28)
	bits := d.Apply(img)
	require.Equal(t, 256, bits.Len())
	for i, p := range d.Pairs() {
		assert.Equal(t, img.Get(p.A.X, p.A.Y) < img.Get(p.B.X, p.B.Y), bits.Get(i))
	}

	assert.Zero(t, d.Apply(constant(28, 9)).CountSetBits())
	assert.Panics(t, func() { d.Apply(constant(14, 0)) })
}

func TestDescriptorReproducible(t *testing.T) {
	a := NewDescriptor(64, 28, testutil.NewRNG(3).Source())
	b := NewDescriptor(64, 28, testutil.NewRNG(3).Source())
	assert.Equal(t, a.Pairs(), b.Pairs())
}

func TestPatchify(t *testing.T) {
	tests := []struct {
		name  string
		img   mnist.Image
		patch int
		want  []bool
	}{
		{
			name:  "single bright pixel",
			img:   mnist.FromPixels([]uint8{5}),
			patch: 3,
			// Eight zero neighbors outside the image, the pixel itself is not greater.
			want: []bool{true, true, true, true, false, true, true, true, true},
		},
		{
			name:  "single dark pixel",
			img:   mnist.FromPixels([]uint8{0}),
			patch: 1,
			want:  []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Patchify(tt.img, tt.patch)
			assert.Equal(t, tt.want, got.Bools())
		})
	}

	img := testutil.NewRNG(1).Pixels(28)
	assert.Equal(t, 28*28*9, Patchify(img, DefaultPatchSize).Len())
}

func TestBitImage(t *testing.T) {
	var b BitImage
	for _, bit := range []bool{true, false, false, true, true} {
		b.Add(bit)
	}
	assert.Equal(t, 3, b.Side())
	assert.Equal(t, 5, b.Len())
	assert.True(t, b.Get(0, 0))
	assert.True(t, b.Get(1, 1))

	v, ok := b.OptionGet(2, 2)
	assert.False(t, v)
	assert.False(t, ok)
	_, ok = b.OptionGet(-1, 0)
	assert.False(t, ok)
	assert.Panics(t, func() { b.Get(3, 0) })

	fb := FromBits(bitseq.FromBools([]bool{true, false, false, true}))
	assert.Equal(t, 2, fb.Side())

	sub := fb.Subimage(0, 0, 3)
	assert.Equal(t, []bool{false, false, false, false, true, false, false, false, true}, sub.Bits().Bools())
	assert.True(t, sub.Equal(fb.Subimage(0, 0, 3)))
}

func TestMajorityImage(t *testing.T) {
	imgs := []BitImage{
		FromBits(bitseq.FromBools([]bool{true, true, false, false})),
		FromBits(bitseq.FromBools([]bool{true, false, true, false})),
		FromBits(bitseq.FromBools([]bool{true, false, false, false})),
	}
	got := MajorityImage(imgs)
	assert.Equal(t, []bool{true, false, false, false}, got.Bits().Bools())
	assert.Equal(t, 2, got.Side())
}

func TestProjectThrough(t *testing.T) {
	src := FromBits(testutil.NewRNG(5).Bits(16 * 16))
	kernel := FromBits(bitseq.FromBools(make([]bool, 9)))

	got := src.ProjectThrough(kernel, 2)
	assert.Equal(t, 8, got.Side())
	assert.Equal(t, 64, got.Len())

	// An all-false source never differs from an all-false kernel.
	blank := FromBits(bitseq.FromBools(make([]bool, 16)))
	assert.Zero(t, blank.ProjectThrough(kernel, 1).Bits().CountSetBits())
}

func TestFindKernels(t *testing.T) {
	src := FromBits(testutil.NewRNG(5).Bits(12 * 12))

	kernels, err := src.FindKernels(context.Background(), 4, 3)
	require.NoError(t, err)
	require.Len(t, kernels, 4)
	for _, k := range kernels {
		assert.Equal(t, 9, k.Len())
	}

	_, err = src.FindKernels(context.Background(), 0, 3)
	assert.Error(t, err)
}

func TestBriefKernel(t *testing.T) {
	img := testutil.NewRNG(9).Pixels(12)

	tests := []struct {
		name   string
		levels int
		count  int
		side   int
	}{
		{name: "no levels", levels: 0, count: 1, side: 36},
		{name: "one level", levels: 1, count: 2, side: 18},
		{name: "two levels", levels: 2, count: 4, side: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk := DefaultBriefKernel()
			bk.NumKernels = 2
			bk.Levels = tt.levels
			bk.Seed = 11

			got, err := bk.Convert(context.Background(), img)
			require.NoError(t, err)
			require.Len(t, got, tt.count)
			for _, b := range got {
				assert.Equal(t, tt.side, b.Side())
			}

			again, err := bk.Convert(context.Background(), img)
			require.NoError(t, err)
			assert.Zero(t, KernelizedDistance(got, again))
		})
	}

	bad := DefaultBriefKernel()
	bad.NumKernels = 0
	_, err := bad.Convert(context.Background(), img)
	assert.Error(t, err)
}

func TestKernelizedDistance(t *testing.T) {
	a := []BitImage{FromBits(bitseq.FromBools([]bool{true, false})), FromBits(bitseq.FromBools([]bool{true}))}
	b := []BitImage{FromBits(bitseq.FromBools([]bool{false, false})), FromBits(bitseq.FromBools([]bool{false}))}

	assert.Equal(t, 2.0, KernelizedDistance(a, b))
	assert.Panics(t, func() { KernelizedDistance(a, b[:1]) })
}

func TestRespond(t *testing.T) {
	img := constant(4, 255)
	kernel := make([]float64, 9)
	for i := range kernel {
		kernel[i] = 255
	}

	got := Respond(img, kernel, 3)
	require.Equal(t, 4, got.Side())
	// The center pixels see a full window matching the kernel.
	assert.Equal(t, uint8(255), got.Get(1, 1))
	// Corners see five zero-padded positions.
	assert.Less(t, got.Get(0, 0), uint8(255))
}

func TestConvolutional(t *testing.T) {
	items := testutil.NewRNG(13).Digits(20, 28, 4)
	images := make([]mnist.Image, len(items))
	for i, it := range items {
		images[i] = it.Value
	}

	tests := []struct {
		name   string
		levels int
		count  int
		side   int
	}{
		{name: "one level", levels: 1, count: 3, side: 14},
		{name: "two levels", levels: 2, count: 9, side: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConvolutional()
			c.NumKernels = 3
			c.Levels = tt.levels
			c.MaxPatches = 500
			c.Seed = 1

			model, err := c.Fit(context.Background(), images)
			require.NoError(t, err)
			require.Len(t, model.Kernels(), tt.levels)
			for _, level := range model.Kernels() {
				require.Len(t, level, 3)
				assert.Len(t, level[0], 9)
			}

			got := model.Convert(images[0])
			require.Len(t, got, tt.count)
			for _, img := range got {
				assert.Equal(t, tt.side, img.Side())
			}
			assert.Zero(t, StackDistance(got, model.Convert(images[0])))
		})
	}

	_, err := DefaultConvolutional().Fit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTrainingImages)
}

func TestConvertAll(t *testing.T) {
	items := testutil.NewRNG(2).Digits(30, 8, 3)

	got, err := ConvertAll(context.Background(), items, 4, Pure(func(img mnist.Image) int { return img.Side() }))
	require.NoError(t, err)
	require.Len(t, got, 30)
	for i, it := range got {
		assert.Equal(t, items[i].Label, it.Label)
		assert.Equal(t, 8, it.Value)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ConvertAll(ctx, items, 2, Pure(func(img mnist.Image) int { return 0 }))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrategiesClassifySyntheticDigits(t *testing.T) {
	rng := testutil.NewRNG(21)
	train := rng.Digits(40, 28, 4)
	test := rng.Digits(12, 28, 4)
	ctx := context.Background()

	brief := NewDescriptor(512, 28, rng.Source())
	briefDist, err := distance.ProviderBits(distance.Hamming)
	require.NoError(t, err)
	baseline, err := Baseline(distance.SquaredEuclidean)
	require.NoError(t, err)

	t.Run("baseline", func(t *testing.T) {
		c, err := knn.New(3, baseline)
		require.NoError(t, err)
		c.Train(train)
		cm, err := c.Test(ctx, test)
		require.NoError(t, err)
		assert.Zero(t, cm.ErrorRate())
	})

	t.Run("brief", func(t *testing.T) {
		convert := func(img mnist.Image) *bitseq.Sequence { return brief.Apply(img) }
		c, err := knn.New(3, briefDist)
		require.NoError(t, err)
		c.Train(core.Relabel(train, convert))
		cm, err := c.Test(ctx, core.Relabel(test, convert))
		require.NoError(t, err)
		assert.LessOrEqual(t, cm.ErrorRate(), 0.25)
	})
}
