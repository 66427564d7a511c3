// Package metrics exports run metrics in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/hupe1980/knnlab/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector records run metrics on its own registry.
// It satisfies knnlab.MetricsCollector.
type PrometheusCollector struct {
	registry *prometheus.Registry

	conversionLatency *prometheus.HistogramVec
	convertedImages   *prometheus.CounterVec
	trainingExamples  *prometheus.GaugeVec
	classifyLatency   *prometheus.HistogramVec
	classifications   *prometheus.CounterVec
	runLatency        *prometheus.HistogramVec
	errorRate         *prometheus.GaugeVec
}

// NewPrometheusCollector creates a collector with every metric registered.
func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		conversionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "knnlab_conversion_duration_seconds",
			Help:    "Time to convert a data set to a strategy's representation",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy", "status"}),
		convertedImages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "knnlab_converted_images_total",
			Help: "Images converted per strategy",
		}, []string{"strategy"}),
		trainingExamples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "knnlab_training_examples",
			Help: "Examples stored by the most recent classifier per strategy",
		}, []string{"strategy"}),
		classifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "knnlab_classification_duration_seconds",
			Help:    "Time to classify one query",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "knnlab_classifications_total",
			Help: "Classified queries by outcome",
		}, []string{"strategy", "outcome"}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "knnlab_run_duration_seconds",
			Help:    "Time to evaluate one strategy",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}, []string{"strategy", "status"}),
		errorRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "knnlab_error_rate_ratio",
			Help: "Error rate of the most recent run per strategy (0.0-1.0)",
		}, []string{"strategy"}),
	}

	c.registry.MustRegister(
		c.conversionLatency,
		c.convertedImages,
		c.trainingExamples,
		c.classifyLatency,
		c.classifications,
		c.runLatency,
		c.errorRate,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordConversion implements knnlab.MetricsCollector.
func (c *PrometheusCollector) RecordConversion(strategy string, images int, d time.Duration, err error) {
	c.conversionLatency.WithLabelValues(strategy, status(err)).Observe(d.Seconds())
	if err == nil {
		c.convertedImages.WithLabelValues(strategy).Add(float64(images))
	}
}

// RecordTraining implements knnlab.MetricsCollector.
func (c *PrometheusCollector) RecordTraining(strategy string, examples int, _ time.Duration) {
	c.trainingExamples.WithLabelValues(strategy).Set(float64(examples))
}

// RecordClassification implements knnlab.MetricsCollector.
func (c *PrometheusCollector) RecordClassification(strategy string, truth, predicted core.Label, d time.Duration) {
	outcome := "correct"
	if truth != predicted {
		outcome = "incorrect"
	}
	c.classifyLatency.WithLabelValues(strategy).Observe(d.Seconds())
	c.classifications.WithLabelValues(strategy, outcome).Inc()
}

// RecordRun implements knnlab.MetricsCollector.
func (c *PrometheusCollector) RecordRun(strategy string, rate float64, d time.Duration, err error) {
	c.runLatency.WithLabelValues(strategy, status(err)).Observe(d.Seconds())
	if err == nil {
		c.errorRate.WithLabelValues(strategy).Set(rate)
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics over HTTP.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the metrics to path in the text exposition format,
// replacing the file atomically.
func (c *PrometheusCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
