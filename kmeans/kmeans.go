package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/knnlab/core"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("kmeans: k must be positive")
	// ErrNotEnoughData is returned when k exceeds the number of data points.
	ErrNotEnoughData = errors.New("kmeans: k exceeds number of data points")
	// ErrNilFunc is returned when the distance or mean function is missing.
	ErrNilFunc = errors.New("kmeans: distance and mean functions are required")
)

// Space describes the geometry of T.
type Space[T any] struct {
	Distance core.DistanceFunc[T]
	Mean     core.MeanFunc[T]
	// Equal decides whether a center changed between iterations.
	// If nil, two centers are equal when their distance is zero.
	Equal core.EqualFunc[T]
}

// Model is the result of a clustering run. It is immutable.
type Model[T any] struct {
	means      []T
	distance   core.DistanceFunc[T]
	members    []*roaring.Bitmap
	iterations int
	converged  bool
	inertia    float64
}

// Train clusters data into k groups and returns their representative centers.
//
// Centers may alias elements of data; neither data nor the centers are modified.
// A single run can settle in a local optimum; WithRestarts keeps the best of several.
func Train[T any](ctx context.Context, k int, data []T, space Space[T], opts ...Option) (*Model[T], error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if k > len(data) {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrNotEnoughData, k, len(data))
	}
	if space.Distance == nil || space.Mean == nil {
		return nil, ErrNilFunc
	}
	if space.Equal == nil {
		dist := space.Distance
		space.Equal = func(a, b T) bool { return dist(a, b) == 0 }
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var best *Model[T]
	for run := 0; run < o.restarts; run++ {
		m, err := train(ctx, k, data, space, &o)
		if err != nil {
			return nil, err
		}
		o.logger.DebugContext(ctx, "kmeans run finished",
			"run", run,
			"k", k,
			"iterations", m.iterations,
			"converged", m.converged,
			"inertia", m.inertia,
		)
		if best == nil || m.inertia < best.inertia {
			best = m
		}
	}

	if !best.converged {
		o.logger.WarnContext(ctx, "kmeans stopped before convergence",
			"k", k,
			"max_iterations", o.maxIterations,
		)
	}

	return best, nil
}

func train[T any](ctx context.Context, k int, data []T, space Space[T], o *options) (*Model[T], error) {
	means := seedPlusPlus(k, data, space.Distance, o.rand)
	assignments := make([]int, len(data))

	m := &Model[T]{distance: space.Distance}

	for iter := 0; iter < o.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Assignment step
		if err := assign(ctx, data, means, space.Distance, assignments, o.workers); err != nil {
			return nil, err
		}

		// Update step
		clusters := make([][]T, k)
		for i, c := range assignments {
			clusters[c] = append(clusters[c], data[i])
		}
		next := make([]T, k)
		for i, members := range clusters {
			if len(members) > 0 {
				next[i] = space.Mean(members)
			} else {
				next[i] = means[i]
			}
		}

		m.iterations = iter + 1
		unchanged := true
		for i := range next {
			if !space.Equal(means[i], next[i]) {
				unchanged = false
				break
			}
		}
		means = next
		if unchanged {
			m.converged = true
			break
		}
	}

	if !m.converged {
		if err := assign(ctx, data, means, space.Distance, assignments, o.workers); err != nil {
			return nil, err
		}
	}

	m.means = means
	m.members = make([]*roaring.Bitmap, k)
	for i := range m.members {
		m.members[i] = roaring.New()
	}
	for i, c := range assignments {
		m.members[c].Add(uint32(i))
		d := space.Distance(data[i], means[c])
		m.inertia += d * d
	}

	return m, nil
}

// seedPlusPlus picks k initial centers with k-means++: each new center is
// sampled with weight 1 + d^2, d being the distance to the nearest center
// chosen so far. The +1 keeps the total weight positive when every point
// coincides with a chosen center.
func seedPlusPlus[T any](k int, data []T, distance core.DistanceFunc[T], r *rand.Rand) []T {
	means := make([]T, 0, k)
	means = append(means, data[r.IntN(len(data))])

	nearest := make([]float64, len(data))
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	cumulative := make([]float64, len(data))

	for len(means) < k {
		last := means[len(means)-1]
		total := 0.0
		for i, x := range data {
			if d := distance(x, last); d < nearest[i] {
				nearest[i] = d
			}
			total += 1 + nearest[i]*nearest[i]
			cumulative[i] = total
		}

		target := r.Float64() * total
		idx := sort.SearchFloat64s(cumulative, target)
		if idx >= len(data) {
			idx = len(data) - 1
		}
		means = append(means, data[idx])
	}

	return means
}

// assign writes the index of the nearest center for every point into out.
// Workers own disjoint ranges of out and only read means.
func assign[T any](ctx context.Context, data []T, means []T, distance core.DistanceFunc[T], out []int, workers int) error {
	if workers <= 1 || len(data) < 2*workers {
		for i, x := range data {
			out[i] = nearestIndex(x, means, distance)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(data) + workers - 1) / workers
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = nearestIndex(data[i], means, distance)
			}
			return nil
		})
	}
	return g.Wait()
}

// nearestIndex returns the index of the closest mean; ties go to the lowest index.
func nearestIndex[T any](x T, means []T, distance core.DistanceFunc[T]) int {
	best := 0
	bestDist := math.Inf(1)
	for i, m := range means {
		if d := distance(x, m); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// K returns the number of centers.
func (m *Model[T]) K() int {
	return len(m.means)
}

// Means returns a copy of the centers slice.
func (m *Model[T]) Means() []T {
	out := make([]T, len(m.means))
	copy(out, m.means)
	return out
}

// Classify returns the index of the center closest to x.
func (m *Model[T]) Classify(x T) int {
	return nearestIndex(x, m.means, m.distance)
}

// Members returns the indices of the data points assigned to cluster i.
func (m *Model[T]) Members(i int) *roaring.Bitmap {
	return m.members[i].Clone()
}

// Iterations returns the number of Lloyd iterations performed.
func (m *Model[T]) Iterations() int {
	return m.iterations
}

// Converged reports whether the centers stopped changing before the iteration cap.
func (m *Model[T]) Converged() bool {
	return m.converged
}

// Inertia returns the sum of squared distances from each point to its center.
func (m *Model[T]) Inertia() float64 {
	return m.inertia
}
