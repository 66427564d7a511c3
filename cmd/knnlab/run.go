package main

import (
	"github.com/hupe1980/knnlab"
	"github.com/hupe1980/knnlab/config"
	"github.com/hupe1980/knnlab/metrics"
	"github.com/spf13/cobra"
)

const (
	datasetF         = "dataset"
	trainPrefixF     = "train-prefix"
	testPrefixF      = "test-prefix"
	kF               = "k"
	strategyF        = "strategy"
	metricF          = "metric"
	shrinkF          = "shrink"
	permuteF         = "permute"
	permutationFileF = "permutation-file"
	workersF         = "workers"
	seedF            = "seed"
	ioLimitF         = "io-limit"
	memoryLimitF     = "memory-limit"
	cacheBytesF      = "cache-bytes"
	briefBitsF       = "brief-bits"
	levelsF          = "levels"
	numKernelsF      = "num-kernels"
	metricsFileF     = "metrics-textfile"
)

type runFlags struct {
	dataset         string
	trainPrefix     string
	testPrefix      string
	k               int
	strategies      []string
	metric          string
	shrink          int
	permute         bool
	permutationFile string
	workers         int
	seed            uint64
	ioLimit         int64
	memoryLimit     int64
	cacheBytes      int64
	briefBits       int
	levels          int
	numKernels      int
	metricsFile     string
}

// RunCmd trains and tests every selected strategy.
func RunCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train and test the selected strategies",
		Long: `This command loads the training and testing sets, runs every selected
strategy and prints one confusion matrix per strategy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &rf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rf.dataset, datasetF, "", "dataset URI: a directory, file://, minio:// or s3://")
	f.StringVar(&rf.trainPrefix, trainPrefixF, "", "file prefix of the training set (default train)")
	f.StringVar(&rf.testPrefix, testPrefixF, "", "file prefix of the testing set (default t10k)")
	f.IntVar(&rf.k, kF, 0, "number of neighbors (default 7)")
	f.StringSliceVar(&rf.strategies, strategyF, nil, "strategies to run, in order (default baseline)")
	f.StringVar(&rf.metric, metricF, "", "pixel distance metric for baseline and pyramid")
	f.IntVar(&rf.shrink, shrinkF, 0, "use only 1 out of n training/testing images")
	f.BoolVar(&rf.permute, permuteF, false, "also run every strategy on pixel-permuted images")
	f.StringVar(&rf.permutationFile, permutationFileF, "", "permutation file inside the dataset store")
	f.IntVar(&rf.workers, workersF, 0, "classification workers (default GOMAXPROCS)")
	f.Uint64Var(&rf.seed, seedF, 0, "seed for BRIEF sampling and k-means")
	f.Int64Var(&rf.ioLimit, ioLimitF, 0, "dataset read limit in bytes per second")
	f.Int64Var(&rf.memoryLimit, memoryLimitF, 0, "limit on dataset pixel bytes held in memory")
	f.Int64Var(&rf.cacheBytes, cacheBytesF, 0, "cache remote dataset blobs up to this many bytes")
	f.IntVar(&rf.briefBits, briefBitsF, 0, "number of BRIEF pixel pairs")
	f.IntVar(&rf.levels, levelsF, 0, "kernel levels for brief-kernel and convolutional")
	f.IntVar(&rf.numKernels, numKernelsF, 0, "kernels per level for brief-kernel and convolutional")
	f.StringVar(&rf.metricsFile, metricsFileF, "", "write Prometheus metrics to this file after the run")

	return cmd
}

func run(cmd *cobra.Command, rf *runFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rf.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	logger = logger.WithRun()

	collector := metrics.NewPrometheusCollector()
	runner, err := knnlab.NewRunner(cfg,
		knnlab.WithLogger(logger),
		knnlab.WithMetricsCollector(collector),
		knnlab.WithOutput(cmd.OutOrStdout()),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ds, err := runner.Load(ctx)
	if err != nil {
		return err
	}
	_, runErr := runner.Run(ctx, ds)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			logger.ErrorContext(ctx, "writing metrics failed", "path", path, "error", err)
		}
	}
	return runErr
}

// apply copies every flag the user set over the config values.
func (rf *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed(datasetF) {
		cfg.Dataset.URI = rf.dataset
	}
	if changed(trainPrefixF) {
		cfg.Dataset.TrainPrefix = rf.trainPrefix
	}
	if changed(testPrefixF) {
		cfg.Dataset.TestPrefix = rf.testPrefix
	}
	if changed(kF) {
		cfg.K = rf.k
	}
	if changed(strategyF) {
		cfg.Strategies = rf.strategies
	}
	if changed(metricF) {
		cfg.Metric = rf.metric
	}
	if changed(shrinkF) {
		cfg.Dataset.Shrink = rf.shrink
	}
	if changed(permuteF) {
		cfg.Permute = rf.permute
	}
	if changed(permutationFileF) {
		cfg.PermutationFile = rf.permutationFile
	}
	if changed(workersF) {
		cfg.Workers = rf.workers
	}
	if changed(seedF) {
		cfg.Seed = rf.seed
	}
	if changed(ioLimitF) {
		cfg.Resources.IOLimitBytesPerSec = rf.ioLimit
	}
	if changed(memoryLimitF) {
		cfg.Resources.MemoryLimitBytes = rf.memoryLimit
	}
	if changed(cacheBytesF) {
		cfg.Dataset.CacheBytes = rf.cacheBytes
	}
	if changed(briefBitsF) {
		cfg.Features.BriefBits = rf.briefBits
	}
	if changed(levelsF) {
		cfg.Features.Levels = rf.levels
	}
	if changed(numKernelsF) {
		cfg.Features.NumKernels = rf.numKernels
	}
	if changed(metricsFileF) {
		cfg.Metrics.Textfile = rf.metricsFile
	}
}
