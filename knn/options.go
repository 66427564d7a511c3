package knn

import (
	"log/slog"
	"time"

	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/resource"
)

// Observer is notified after every query classified by Test.
// It is called from multiple goroutines and must be safe for concurrent use.
type Observer func(truth, predicted core.Label, elapsed time.Duration)

type options struct {
	workers    int
	controller *resource.Controller
	logger     *slog.Logger
	observer   Observer
}

// Option configures a Classifier.
type Option func(*options)

// WithWorkers sets how many goroutines Test fans queries out to.
// Defaults to the controller's worker count, or GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithController bounds Test's concurrency with a shared resource controller.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithLogger sets the logger used by Test.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers a per-query callback for Test.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}
