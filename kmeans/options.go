package kmeans

import (
	"log/slog"
	"math/rand/v2"
)

// DefaultMaxIterations bounds the Lloyd loop when no cap is configured.
const DefaultMaxIterations = 100

type options struct {
	maxIterations int
	restarts      int
	workers       int
	rand          *rand.Rand
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		maxIterations: DefaultMaxIterations,
		restarts:      1,
		workers:       1,
		logger:        slog.New(slog.DiscardHandler),
	}
}

// Option configures Train.
type Option func(*options)

// WithMaxIterations caps the number of Lloyd iterations.
// A run that hits the cap returns its current centers with Converged() == false.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithRestarts runs n independently seeded trainings and keeps the one
// with the lowest inertia.
func WithRestarts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.restarts = n
		}
	}
}

// WithWorkers sets how many goroutines share the assignment step.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSeed makes seeding reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses r as the source of randomness. r must not be shared with
// concurrent callers.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithLogger sets the logger used for convergence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
