package knnlab

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/hupe1980/knnlab/blobstore"
	"github.com/hupe1980/knnlab/config"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/knn"
	"github.com/hupe1980/knnlab/mnist"
	"github.com/hupe1980/knnlab/resource"
)

// Dataset is a loaded training and testing set.
type Dataset struct {
	Train []core.Labeled[mnist.Image]
	Test  []core.Labeled[mnist.Image]
	// Permutation reorders pixels for the permuted experiment. It is nil
	// unless the run permutes.
	Permutation []int
}

// Result is the outcome of one strategy on one dataset variant.
type Result struct {
	Strategy string
	Permuted bool
	Matrix   *knn.ConfusionMatrix
	Duration time.Duration
}

// Runner executes the configured experiments.
type Runner struct {
	cfg        config.Config
	opts       options
	controller *resource.Controller
	strategies map[string]Strategy
}

// NewRunner validates cfg and prepares its strategies.
func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	controller := o.controller
	if controller == nil {
		controller = resource.NewController(resource.Config{
			MaxWorkers:         int64(cfg.Resources.MaxWorkers),
			MemoryLimitBytes:   cfg.Resources.MemoryLimitBytes,
			IOLimitBytesPerSec: cfg.Resources.IOLimitBytesPerSec,
		})
	}

	strategies := Builtin(cfg)
	for _, s := range o.strategies {
		strategies[s.Name()] = s
	}

	return &Runner{
		cfg:        cfg,
		opts:       o,
		controller: controller,
		strategies: strategies,
	}, nil
}

// Strategies returns the names of every registered strategy, sorted.
func (r *Runner) Strategies() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Controller returns the resource controller shared by the run.
func (r *Runner) Controller() *resource.Controller {
	return r.controller
}

// Load reads, thins and optionally permutes the configured dataset.
func (r *Runner) Load(ctx context.Context) (*Dataset, error) {
	store := r.opts.store
	if store == nil {
		s, err := blobstore.Open(ctx, r.cfg.Dataset.URI, blobstore.WithCache(r.cfg.Dataset.CacheBytes))
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		store = s
	}

	log := r.opts.logger
	ds := &Dataset{}
	for _, set := range []struct {
		prefix string
		dst    *[]core.Labeled[mnist.Image]
	}{
		{prefix: r.cfg.Dataset.TrainPrefix, dst: &ds.Train},
		{prefix: r.cfg.Dataset.TestPrefix, dst: &ds.Test},
	} {
		if _, err := log.Timed(ctx, fmt.Sprintf("loading mnist %s images", set.prefix), func() (err error) {
			*set.dst, err = mnist.Load(ctx, store, set.prefix,
				mnist.WithController(r.controller),
				mnist.WithLogger(log.Logger),
			)
			return err
		}); err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "loaded images", "prefix", set.prefix, "count", len(*set.dst))
	}

	if n := r.cfg.Dataset.Shrink; n > 1 {
		log.InfoContext(ctx, "shrinking", "keep_one_in", n)
		ds.Train = mnist.Discard(ds.Train, n)
		ds.Test = mnist.Discard(ds.Test, n)
	}

	log.InfoContext(ctx, "label counts",
		"training", mnist.LabelCounts(ds.Train).String(),
		"testing", mnist.LabelCounts(ds.Test).String(),
	)

	if r.cfg.Permute {
		data, err := blobstore.ReadAll(ctx, store, r.cfg.PermutationFile)
		if err != nil {
			return nil, fmt.Errorf("read permutation: %w", err)
		}
		perm, err := mnist.ReadPermutation(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ds.Permutation = perm
	}
	return ds, nil
}

// Run evaluates every configured strategy on ds, then again on the permuted
// images when ds carries a permutation.
func (r *Runner) Run(ctx context.Context, ds *Dataset) ([]Result, error) {
	for _, name := range r.cfg.Strategies {
		if _, ok := r.strategies[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
		}
	}

	results, err := r.runAll(ctx, ds.Train, ds.Test, false)
	if err != nil {
		return results, err
	}

	if ds.Permutation != nil {
		r.opts.logger.InfoContext(ctx, "Permuting images")
		train, err := mnist.PermuteAll(ds.Train, ds.Permutation)
		if err != nil {
			return results, err
		}
		test, err := mnist.PermuteAll(ds.Test, ds.Permutation)
		if err != nil {
			return results, err
		}
		permuted, err := r.runAll(ctx, train, test, true)
		results = append(results, permuted...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *Runner) runAll(ctx context.Context, train, test []core.Labeled[mnist.Image], permuted bool) ([]Result, error) {
	results := make([]Result, 0, len(r.cfg.Strategies))
	for _, name := range r.cfg.Strategies {
		res, err := r.Evaluate(ctx, name, train, test)
		if err != nil {
			return results, &StrategyError{Strategy: name, Permuted: permuted, cause: err}
		}
		res.Permuted = permuted
		results = append(results, res)
		r.report(ctx, res)
	}
	return results, nil
}

// Evaluate runs a single registered strategy.
func (r *Runner) Evaluate(ctx context.Context, name string, train, test []core.Labeled[mnist.Image]) (Result, error) {
	s, ok := r.strategies[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}

	log := r.opts.logger.WithStrategy(name).WithK(r.cfg.K)
	env := Env{
		K:          r.cfg.K,
		Workers:    r.cfg.Workers,
		Controller: r.controller,
		Logger:     log,
		Metrics:    r.opts.metricsCollector,
	}

	start := time.Now()
	matrix, err := s.Evaluate(ctx, env, train, test)
	elapsed := time.Since(start)
	if err != nil {
		r.opts.metricsCollector.RecordRun(name, 0, elapsed, err)
		return Result{}, err
	}
	r.opts.metricsCollector.RecordRun(name, matrix.ErrorRate(), elapsed, nil)

	return Result{Strategy: name, Matrix: matrix, Duration: elapsed}, nil
}

func (r *Runner) report(ctx context.Context, res Result) {
	r.opts.logger.InfoContext(ctx, "strategy finished",
		"strategy", res.Strategy,
		"permuted", res.Permuted,
		"error_rate_percent", res.Matrix.ErrorRate()*100,
		"elapsed", res.Duration,
	)
	if r.opts.output != nil {
		writeReport(r.opts.output, res)
	}
}

func writeReport(w io.Writer, res Result) {
	title := res.Strategy
	if res.Permuted {
		title += " (permuted)"
	}
	fmt.Fprintf(w, "%s\n", title)
	res.Matrix.Render(w)
	fmt.Fprintf(w, "Error rate: %.2f%%\n\n", res.Matrix.ErrorRate()*100)
}
