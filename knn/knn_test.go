package knn

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indicator(a, b int) float64 {
	if a == b {
		return 0
	}
	return 1
}

func manhattan(a, b int) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func labeled(pairs ...int) []core.Labeled[int] {
	out := make([]core.Labeled[int], 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, core.Labeled[int]{Label: core.Label(pairs[i]), Value: pairs[i+1]})
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New(0, indicator)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = New[int](1, nil)
	assert.ErrorIs(t, err, ErrNilDistance)

	clf, err := New(3, indicator)
	require.NoError(t, err)
	assert.Equal(t, 3, clf.K())
	assert.Equal(t, 0, clf.Len())
}

func TestClassify_NearestExact(t *testing.T) {
	clf, err := New(1, indicator)
	require.NoError(t, err)

	clf.Train(labeled(4, 40, 7, 70, 9, 90))
	assert.Equal(t, 3, clf.Len())

	for _, ex := range clf.examples {
		label, err := clf.Classify(ex.Value)
		require.NoError(t, err)
		assert.Equal(t, ex.Label, label)
	}
}

func TestClassify_AllTied(t *testing.T) {
	constant := func(int, int) float64 { return 1 }

	t.Run("clear majority", func(t *testing.T) {
		clf, err := New(5, constant)
		require.NoError(t, err)
		clf.Train(labeled(2, 0, 1, 0, 1, 0, 2, 0, 2, 0))

		label, err := clf.Classify(0)
		require.NoError(t, err)
		assert.Equal(t, core.Label(2), label)
	})

	t.Run("vote tie favors first stored", func(t *testing.T) {
		clf, err := New(4, constant)
		require.NoError(t, err)
		clf.Train(labeled(3, 0, 1, 0, 1, 0, 3, 0))

		label, err := clf.Classify(0)
		require.NoError(t, err)
		assert.Equal(t, core.Label(3), label)
	})
}

func TestClassify_VoteTieFavorsNearest(t *testing.T) {
	clf, err := New(2, manhattan)
	require.NoError(t, err)
	clf.Train(labeled(5, 10, 6, 12))

	label, err := clf.Classify(13)
	require.NoError(t, err)
	assert.Equal(t, core.Label(6), label)
}

func TestNeighbors(t *testing.T) {
	clf, err := New(3, manhattan)
	require.NoError(t, err)
	clf.Train(labeled(0, 1, 1, 5, 2, 9, 3, 5, 4, 20))

	neighbors, err := clf.Neighbors(6)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)

	assert.Equal(t, Neighbor{Index: 1, Label: 1, Distance: 1}, neighbors[0])
	assert.Equal(t, Neighbor{Index: 3, Label: 3, Distance: 1}, neighbors[1])
	assert.Equal(t, Neighbor{Index: 2, Label: 2, Distance: 3}, neighbors[2])
}

func TestNeighbors_NotEnoughExamples(t *testing.T) {
	clf, err := New(3, manhattan)
	require.NoError(t, err)
	clf.Train(labeled(0, 1, 1, 2))

	_, err = clf.Neighbors(0)
	assert.ErrorIs(t, err, ErrNotEnoughExamples)

	_, err = clf.Classify(0)
	assert.ErrorIs(t, err, ErrNotEnoughExamples)

	_, err = clf.Test(context.Background(), labeled(0, 1))
	assert.ErrorIs(t, err, ErrNotEnoughExamples)
}

func TestClassify_BitSequences(t *testing.T) {
	a, err := bitseq.Parse("1010")
	require.NoError(t, err)
	b, err := bitseq.Parse("0101")
	require.NoError(t, err)

	clf, err := New(1, bitseq.Distance)
	require.NoError(t, err)
	clf.Train([]core.Labeled[*bitseq.Sequence]{
		{Label: 0, Value: a},
		{Label: 1, Value: b},
	})

	query, err := bitseq.Parse("1010")
	require.NoError(t, err)

	label, err := clf.Classify(query)
	require.NoError(t, err)
	assert.Equal(t, core.Label(0), label)

	cm, err := clf.Test(context.Background(), []core.Labeled[*bitseq.Sequence]{
		{Label: 0, Value: query},
		{Label: 1, Value: b},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cm.Total())
	assert.Zero(t, cm.ErrorRate())
}

func TestTest_ParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	randomSet := func(n int) []core.Labeled[int] {
		out := make([]core.Labeled[int], n)
		for i := range out {
			v := r.IntN(300)
			out[i] = core.Labeled[int]{Label: core.Label(v / 100), Value: v}
		}
		return out
	}

	training := randomSet(200)
	queries := randomSet(150)

	clf, err := New(5, manhattan, WithWorkers(7))
	require.NoError(t, err)
	clf.Train(training)

	expected := NewConfusionMatrix()
	for _, q := range queries {
		label, err := clf.Classify(q.Value)
		require.NoError(t, err)
		expected.Record(q.Label, label)
	}

	got, err := clf.Test(context.Background(), queries)
	require.NoError(t, err)

	assert.Equal(t, expected.Total(), got.Total())
	assert.Equal(t, expected.Labels(), got.Labels())
	for _, truth := range expected.Labels() {
		assert.Equal(t, expected.Correct(truth), got.Correct(truth))
		assert.Equal(t, expected.Incorrect(truth), got.Incorrect(truth))
		for _, predicted := range expected.Labels() {
			assert.Equal(t, expected.Count(truth, predicted), got.Count(truth, predicted))
		}
	}
	assert.InDelta(t, expected.ErrorRate(), got.ErrorRate(), 1e-12)
}

func TestTest_Observer(t *testing.T) {
	var calls atomic.Int64
	observer := func(_, _ core.Label, _ time.Duration) {
		calls.Add(1)
	}

	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	clf, err := New(1, manhattan, WithController(rc), WithObserver(observer))
	require.NoError(t, err)
	clf.Train(labeled(0, 0, 1, 10))

	cm, err := clf.Test(context.Background(), labeled(0, 1, 0, 2, 1, 9, 1, 4, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, int64(5), calls.Load())
	assert.Equal(t, 5, cm.Total())
	assert.Equal(t, 2, cm.Correct(0))
	assert.Equal(t, 1, cm.Incorrect(0))
	assert.Equal(t, 1, cm.Correct(1))
	assert.Equal(t, 1, cm.Incorrect(1))
}

func TestTest_Empty(t *testing.T) {
	clf, err := New(1, manhattan)
	require.NoError(t, err)
	clf.Train(labeled(0, 0))

	cm, err := clf.Test(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.Total())
	assert.Zero(t, cm.ErrorRate())
}

func TestTest_Canceled(t *testing.T) {
	clf, err := New(1, manhattan)
	require.NoError(t, err)
	clf.Train(labeled(0, 0, 1, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = clf.Test(ctx, labeled(0, 1, 1, 9))
	assert.ErrorIs(t, err, context.Canceled)
}
