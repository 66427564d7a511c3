package knnlab

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/knnlab/bitseq"
	"github.com/hupe1980/knnlab/config"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/features"
	"github.com/hupe1980/knnlab/knn"
	"github.com/hupe1980/knnlab/mnist"
	"github.com/hupe1980/knnlab/resource"
)

// Env carries what a strategy needs besides the data.
type Env struct {
	K          int
	Workers    int
	Controller *resource.Controller
	Logger     *Logger
	Metrics    MetricsCollector
}

// Strategy converts images into a representation and classifies them with k-NN.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, env Env, train, test []core.Labeled[mnist.Image]) (*knn.ConfusionMatrix, error)
}

// PrepareFunc builds the conversion and distance of a strategy.
// It sees the training images so that learned strategies can fit to them.
type PrepareFunc[T any] func(ctx context.Context, training []mnist.Image) (features.ConvertFunc[T], core.DistanceFunc[T], error)

type strategy[T any] struct {
	name    string
	prepare PrepareFunc[T]
}

// NewStrategy returns a Strategy over representation T.
func NewStrategy[T any](name string, prepare PrepareFunc[T]) Strategy {
	return &strategy[T]{name: name, prepare: prepare}
}

func (s *strategy[T]) Name() string {
	return s.name
}

func (s *strategy[T]) Evaluate(ctx context.Context, env Env, train, test []core.Labeled[mnist.Image]) (*knn.ConfusionMatrix, error) {
	if len(train) == 0 || len(test) == 0 {
		return nil, ErrNoData
	}

	images := make([]mnist.Image, len(train))
	for i, it := range train {
		images[i] = it.Value
	}

	var (
		convert  features.ConvertFunc[T]
		distance core.DistanceFunc[T]
	)
	if _, err := env.Logger.Timed(ctx, fmt.Sprintf("preparing %s", s.name), func() (err error) {
		convert, distance, err = s.prepare(ctx, images)
		return err
	}); err != nil {
		return nil, err
	}

	var trainSet, testSet []core.Labeled[T]
	for _, step := range []struct {
		label string
		src   []core.Labeled[mnist.Image]
		dst   *[]core.Labeled[T]
	}{
		{label: "training", src: train, dst: &trainSet},
		{label: "testing", src: test, dst: &testSet},
	} {
		elapsed, err := env.Logger.Timed(ctx, fmt.Sprintf("converting %s images to %s", step.label, s.name), func() (err error) {
			*step.dst, err = features.ConvertAll(ctx, step.src, env.Workers, convert)
			return err
		})
		env.Metrics.RecordConversion(s.name, len(step.src), elapsed, err)
		if err != nil {
			return nil, err
		}
	}

	classifier, err := knn.New(env.K, distance,
		knn.WithWorkers(env.Workers),
		knn.WithController(env.Controller),
		knn.WithLogger(env.Logger.Logger),
		knn.WithObserver(func(truth, predicted core.Label, elapsed time.Duration) {
			env.Metrics.RecordClassification(s.name, truth, predicted, elapsed)
		}),
	)
	if err != nil {
		return nil, err
	}

	elapsed, _ := env.Logger.Timed(ctx, fmt.Sprintf("training %s model (k=%d)", s.name, env.K), func() error {
		classifier.Train(trainSet)
		return nil
	})
	env.Metrics.RecordTraining(s.name, classifier.Len(), elapsed)

	var matrix *knn.ConfusionMatrix
	if _, err := env.Logger.Timed(ctx, "testing", func() (err error) {
		matrix, err = classifier.Test(ctx, testSet)
		return err
	}); err != nil {
		return nil, err
	}
	return matrix, nil
}

// Builtin returns the strategies configured by cfg, keyed by name.
func Builtin(cfg config.Config) map[string]Strategy {
	f := cfg.Features
	metric := cfg.ParsedMetric()

	all := []Strategy{
		NewStrategy(config.StrategyBaseline, func(context.Context, []mnist.Image) (features.ConvertFunc[mnist.Image], core.DistanceFunc[mnist.Image], error) {
			dist, err := features.Baseline(metric)
			return features.Pure(func(img mnist.Image) mnist.Image { return img }), dist, err
		}),
		NewStrategy(config.StrategyPyramid, func(context.Context, []mnist.Image) (features.ConvertFunc[features.Pyramid], core.DistanceFunc[features.Pyramid], error) {
			dist, err := features.PyramidDistance(metric)
			return features.Pure(func(img mnist.Image) features.Pyramid { return features.NewPyramid(img, f.Reduction) }), dist, err
		}),
		NewStrategy(config.StrategyBrief, func(_ context.Context, training []mnist.Image) (features.ConvertFunc[*bitseq.Sequence], core.DistanceFunc[*bitseq.Sequence], error) {
			d := features.NewDescriptor(f.BriefBits, training[0].Side(), rand.NewPCG(cfg.Seed, cfg.Seed))
			return features.Pure(d.Apply), bitseq.Distance, nil
		}),
		NewStrategy(config.StrategyPatch, func(context.Context, []mnist.Image) (features.ConvertFunc[*bitseq.Sequence], core.DistanceFunc[*bitseq.Sequence], error) {
			return features.Pure(func(img mnist.Image) *bitseq.Sequence { return features.Patchify(img, f.PatchSize) }), bitseq.Distance, nil
		}),
		NewStrategy(config.StrategyBriefKernel, func(context.Context, []mnist.Image) (features.ConvertFunc[[]features.BitImage], core.DistanceFunc[[]features.BitImage], error) {
			bk := features.BriefKernel{
				PatchSize:     f.PatchSize,
				KernelSize:    f.KernelSize,
				Levels:        f.Levels,
				NumKernels:    f.NumKernels,
				Stride:        f.Stride,
				Seed:          cfg.Seed,
				MaxIterations: f.MaxIterations,
			}
			return bk.Convert, features.KernelizedDistance, nil
		}),
		NewStrategy(config.StrategyConvolutional, func(ctx context.Context, training []mnist.Image) (features.ConvertFunc[[]mnist.Image], core.DistanceFunc[[]mnist.Image], error) {
			c := features.Convolutional{
				KernelSize:    f.KernelSize,
				NumKernels:    f.NumKernels,
				Levels:        f.Levels,
				Stride:        f.Stride,
				MaxPatches:    f.MaxPatches,
				Seed:          cfg.Seed,
				MaxIterations: f.MaxIterations,
			}
			model, err := c.Fit(ctx, training)
			if err != nil {
				return nil, nil, err
			}
			return features.Pure(model.Convert), features.StackDistance, nil
		}),
	}

	m := make(map[string]Strategy, len(all))
	for _, s := range all {
		m[s.Name()] = s
	}
	return m
}
