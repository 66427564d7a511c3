package features

import (
	"context"
	"runtime"

	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/mnist"
	"golang.org/x/sync/errgroup"
)

// ConvertFunc turns one image into a representation.
type ConvertFunc[T any] func(ctx context.Context, img mnist.Image) (T, error)

// ConvertAll converts every image with up to workers goroutines, keeping labels and order.
// workers <= 0 means GOMAXPROCS.
func ConvertAll[T any](ctx context.Context, items []core.Labeled[mnist.Image], workers int, convert ConvertFunc[T]) ([]core.Labeled[T], error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]core.Labeled[T], len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := convert(gctx, it.Value)
			if err != nil {
				return err
			}
			out[i] = core.Labeled[T]{Label: it.Label, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Pure adapts a conversion that cannot fail.
func Pure[T any](fn func(mnist.Image) T) ConvertFunc[T] {
	return func(_ context.Context, img mnist.Image) (T, error) {
		return fn(img), nil
	}
}
