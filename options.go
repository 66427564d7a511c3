package knnlab

import (
	"io"

	"github.com/hupe1980/knnlab/blobstore"
	"github.com/hupe1980/knnlab/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	store            blobstore.Store
	output           io.Writer
	strategies       []Strategy
}

// Option configures a Runner.
type Option func(*options)

// WithMetricsCollector sets the collector that receives run metrics.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger sets the logger for run progress.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithController shares a resource controller instead of building one from
// the configured resource limits.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithStore reads the dataset from store instead of opening the configured URI.
func WithStore(store blobstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithOutput sets where confusion matrices are rendered. By default they
// are only logged.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithStrategy registers an additional strategy, replacing a built-in one
// of the same name.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategies = append(o.strategies, s)
	}
}
