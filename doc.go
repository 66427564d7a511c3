// Package knnlab runs k-nearest-neighbor experiments on MNIST-style digit images.
//
// A run loads a training and a testing set from a blob store, converts the
// images with one or more feature strategies, classifies every test image
// with a k-NN classifier and reports a confusion matrix per strategy.
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.Dataset.URI = "./mnist"
//	cfg.Strategies = []string{"baseline", "brief"}
//
//	runner, _ := knnlab.NewRunner(cfg,
//	    knnlab.WithLogger(knnlab.NewTextLogger(os.Stderr, slog.LevelInfo).WithRun()),
//	    knnlab.WithOutput(os.Stdout),
//	)
//	ds, _ := runner.Load(ctx)
//	results, _ := runner.Run(ctx, ds)
//
// # Datasets
//
// The dataset URI selects a blobstore: a local directory (memory-mapped),
// minio://host/bucket/prefix or s3://bucket/prefix. Each set is read from
// <prefix>-images-idx3-ubyte and <prefix>-labels-idx1-ubyte, optionally
// compressed as .gz, .zst or .lz4.
//
// # Strategies
//
// Built-in strategies are baseline, pyramid, brief, patch, brief-kernel and
// convolutional; see package features. Custom strategies are registered with
// WithStrategy and NewStrategy.
//
// # Observability
//
// Progress is logged through Logger as Started/Finished pairs. A
// MetricsCollector receives conversion, training, classification and run
// metrics; metrics.PrometheusCollector exports them in the Prometheus text
// format.
package knnlab
