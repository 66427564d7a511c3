package knnlab

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/knnlab/core"
)

// MetricsCollector defines an interface for collecting experiment metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// metrics.PrometheusCollector is one such implementation.
type MetricsCollector interface {
	// RecordConversion is called after a data set is converted to a strategy's
	// representation. images is the number of images converted.
	RecordConversion(strategy string, images int, duration time.Duration, err error)

	// RecordTraining is called after a classifier stores its examples.
	RecordTraining(strategy string, examples int, duration time.Duration)

	// RecordClassification is called after each test query is classified.
	RecordClassification(strategy string, truth, predicted core.Label, duration time.Duration)

	// RecordRun is called after a strategy finishes. errorRate is in [0, 1].
	RecordRun(strategy string, errorRate float64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConversion(string, int, time.Duration, error)                 {}
func (NoopMetricsCollector) RecordTraining(string, int, time.Duration)                          {}
func (NoopMetricsCollector) RecordClassification(string, core.Label, core.Label, time.Duration) {}
func (NoopMetricsCollector) RecordRun(string, float64, time.Duration, error)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ConversionCount      atomic.Int64
	ConversionImages     atomic.Int64
	ConversionErrors     atomic.Int64
	TrainingCount        atomic.Int64
	TrainingExamples     atomic.Int64
	ClassificationCount  atomic.Int64
	ClassificationWrong  atomic.Int64
	ClassificationNanos  atomic.Int64
	RunCount             atomic.Int64
	RunErrors            atomic.Int64
	lastErrorRateInMilli atomic.Int64
}

// RecordConversion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConversion(_ string, images int, _ time.Duration, err error) {
	b.ConversionCount.Add(1)
	b.ConversionImages.Add(int64(images))
	if err != nil {
		b.ConversionErrors.Add(1)
	}
}

// RecordTraining implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraining(_ string, examples int, _ time.Duration) {
	b.TrainingCount.Add(1)
	b.TrainingExamples.Add(int64(examples))
}

// RecordClassification implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassification(_ string, truth, predicted core.Label, duration time.Duration) {
	b.ClassificationCount.Add(1)
	b.ClassificationNanos.Add(duration.Nanoseconds())
	if truth != predicted {
		b.ClassificationWrong.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ string, errorRate float64, _ time.Duration, err error) {
	b.RunCount.Add(1)
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.lastErrorRateInMilli.Store(int64(errorRate * 1000))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ConversionCount:     b.ConversionCount.Load(),
		ConversionImages:    b.ConversionImages.Load(),
		ConversionErrors:    b.ConversionErrors.Load(),
		TrainingCount:       b.TrainingCount.Load(),
		TrainingExamples:    b.TrainingExamples.Load(),
		ClassificationCount: b.ClassificationCount.Load(),
		ClassificationWrong: b.ClassificationWrong.Load(),
		ClassifyAvgNanos:    b.getAvgClassifyNanos(),
		RunCount:            b.RunCount.Load(),
		RunErrors:           b.RunErrors.Load(),
		LastErrorRate:       float64(b.lastErrorRateInMilli.Load()) / 1000,
	}
}

func (b *BasicMetricsCollector) getAvgClassifyNanos() int64 {
	count := b.ClassificationCount.Load()
	if count == 0 {
		return 0
	}
	return b.ClassificationNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ConversionCount     int64
	ConversionImages    int64
	ConversionErrors    int64
	TrainingCount       int64
	TrainingExamples    int64
	ClassificationCount int64
	ClassificationWrong int64
	ClassifyAvgNanos    int64
	RunCount            int64
	RunErrors           int64
	// LastErrorRate is the error rate of the most recent successful run,
	// rounded down to three decimals.
	LastErrorRate float64
}
