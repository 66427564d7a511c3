package knn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/histogram"
	"github.com/hupe1980/knnlab/internal/queue"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("knn: k must be positive")
	// ErrNilDistance is returned when no distance function is given.
	ErrNilDistance = errors.New("knn: distance function is required")
	// ErrNotEnoughExamples is returned when k exceeds the number of stored examples.
	ErrNotEnoughExamples = errors.New("knn: k exceeds number of stored examples")
)

// Neighbor is a stored example ranked against a query.
type Neighbor struct {
	Index    int
	Label    core.Label
	Distance float64
}

// Classifier is a k-nearest-neighbor classifier.
//
// Train must not run concurrently with other methods. Once trained, a
// Classifier can be queried from multiple goroutines.
type Classifier[T any] struct {
	k        int
	distance core.DistanceFunc[T]
	examples []core.Labeled[T]
	opts     options
}

// New creates a classifier voting among k neighbors.
func New[T any](k int, distance core.DistanceFunc[T], opts ...Option) (*Classifier[T], error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if distance == nil {
		return nil, ErrNilDistance
	}

	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	return &Classifier[T]{
		k:        k,
		distance: distance,
		opts:     o,
	}, nil
}

// K returns the neighbor count.
func (c *Classifier[T]) K() int {
	return c.k
}

// Len returns the number of stored examples.
func (c *Classifier[T]) Len() int {
	return len(c.examples)
}

// Train appends examples to the stored set. Repeated calls accumulate.
func (c *Classifier[T]) Train(examples []core.Labeled[T]) {
	c.examples = append(c.examples, examples...)
}

// Neighbors returns the k stored examples closest to query, nearest first.
func (c *Classifier[T]) Neighbors(query T) ([]Neighbor, error) {
	if c.k > len(c.examples) {
		return nil, fmt.Errorf("%w: k=%d, examples=%d", ErrNotEnoughExamples, c.k, len(c.examples))
	}

	top := queue.NewTopK(c.k)
	for i, ex := range c.examples {
		top.Push(queue.Item{Index: i, Distance: c.distance(query, ex.Value)})
	}

	items := top.Sorted()
	neighbors := make([]Neighbor, len(items))
	for i, it := range items {
		neighbors[i] = Neighbor{
			Index:    it.Index,
			Label:    c.examples[it.Index].Label,
			Distance: it.Distance,
		}
	}
	return neighbors, nil
}

// Classify returns the majority label among the k nearest stored examples.
func (c *Classifier[T]) Classify(query T) (core.Label, error) {
	neighbors, err := c.Neighbors(query)
	if err != nil {
		return 0, err
	}

	votes := histogram.New[core.Label]()
	for _, n := range neighbors {
		votes.Bump(n.Label)
	}
	return votes.Mode()
}

// Test classifies every query and tallies the outcomes by true label.
//
// Queries are split across workers; each worker fills its own partial
// matrix and the partials are merged once all workers finish.
func (c *Classifier[T]) Test(ctx context.Context, queries []core.Labeled[T]) (*ConfusionMatrix, error) {
	if c.k > len(c.examples) {
		return nil, fmt.Errorf("%w: k=%d, examples=%d", ErrNotEnoughExamples, c.k, len(c.examples))
	}

	workers := c.opts.workers
	if workers <= 0 {
		workers = c.opts.controller.MaxWorkers()
	}
	workers = max(1, min(workers, len(queries)))

	start := time.Now()
	partials := make([]*ConfusionMatrix, workers)
	chunk := (len(queries) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := range partials {
		partial := NewConfusionMatrix()
		partials[w] = partial

		lo := min(w*chunk, len(queries))
		hi := min(lo+chunk, len(queries))
		if lo == hi {
			continue
		}

		g.Go(func() error {
			if err := c.opts.controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer c.opts.controller.ReleaseWorker()

			for _, q := range queries[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				began := time.Now()
				predicted, err := c.Classify(q.Value)
				if err != nil {
					return err
				}
				partial.Record(q.Label, predicted)
				if c.opts.observer != nil {
					c.opts.observer(q.Label, predicted, time.Since(began))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.opts.logger.ErrorContext(ctx, "knn test failed", "k", c.k, "error", err)
		return nil, err
	}

	result := NewConfusionMatrix()
	for _, p := range partials {
		result.Merge(p)
	}

	c.opts.logger.DebugContext(ctx, "knn test completed",
		"k", c.k,
		"queries", len(queries),
		"workers", workers,
		"error_rate", result.ErrorRate(),
		"elapsed", time.Since(start),
	)

	return result, nil
}
