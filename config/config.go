// Package config loads and validates experiment configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/knnlab/distance"
	"gopkg.in/yaml.v3"
)

// Strategy names accepted in Config.Strategies.
const (
	StrategyBaseline      = "baseline"
	StrategyPyramid       = "pyramid"
	StrategyBrief         = "brief"
	StrategyPatch         = "patch"
	StrategyBriefKernel   = "brief-kernel"
	StrategyConvolutional = "convolutional"
)

// Config is the full description of one experiment run.
type Config struct {
	Dataset    DatasetConfig `yaml:"dataset"`
	K          int           `yaml:"k" validate:"gte=1"`
	Strategies []string      `yaml:"strategies" validate:"min=1,dive,strategy"`
	Metric     string        `yaml:"metric" validate:"metric"`

	Permute bool `yaml:"permute"`
	// PermutationFile names a comma-separated pixel permutation in the dataset store.
	PermutationFile string `yaml:"permutation_file" validate:"required_if=Permute true"`

	Workers   int            `yaml:"workers" validate:"gte=0"`
	Seed      uint64         `yaml:"seed"`
	Resources ResourceConfig `yaml:"resources"`
	Features  FeatureConfig  `yaml:"features"`
	Log       LogConfig      `yaml:"log"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

// DatasetConfig locates the training and testing sets.
type DatasetConfig struct {
	URI         string `yaml:"uri" validate:"required"`
	TrainPrefix string `yaml:"train_prefix" validate:"required"`
	TestPrefix  string `yaml:"test_prefix" validate:"required"`
	// Shrink keeps one out of every Shrink images. 1 keeps all of them.
	Shrink     int   `yaml:"shrink" validate:"gte=1"`
	CacheBytes int64 `yaml:"cache_bytes" validate:"gte=0"`
}

// ResourceConfig bounds the resources a run may use. Zero means unlimited.
type ResourceConfig struct {
	MaxWorkers         int   `yaml:"max_workers" validate:"gte=0"`
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes" validate:"gte=0"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec" validate:"gte=0"`
}

// FeatureConfig holds the parameters of every feature strategy.
type FeatureConfig struct {
	BriefBits     int `yaml:"brief_bits" validate:"gte=1"`
	PatchSize     int `yaml:"patch_size" validate:"gte=1"`
	KernelSize    int `yaml:"kernel_size" validate:"gte=1"`
	NumKernels    int `yaml:"num_kernels" validate:"gte=1"`
	Levels        int `yaml:"levels" validate:"gte=0"`
	Stride        int `yaml:"stride" validate:"gte=1"`
	Reduction     int `yaml:"reduction" validate:"gte=2"`
	MaxPatches    int `yaml:"max_patches" validate:"gte=0"`
	MaxIterations int `yaml:"max_iterations" validate:"gte=1"`
}

// LogConfig selects the log format and level.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after the run.
	Textfile string `yaml:"textfile"`
}

// Default returns a configuration with every optional field filled in.
func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			TrainPrefix: "train",
			TestPrefix:  "t10k",
			Shrink:      1,
		},
		K:          7,
		Strategies: []string{StrategyBaseline},
		Metric:     distance.SquaredEuclidean.String(),
		Features: FeatureConfig{
			BriefBits:     8192,
			PatchSize:     3,
			KernelSize:    3,
			NumKernels:    4,
			Levels:        1,
			Stride:        2,
			Reduction:     2,
			MaxPatches:    20000,
			MaxIterations: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from the specified file path and validates it.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read decodes the file at path over the defaults without validating, so
// that callers can still override fields.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	cfg, err := Decode(r)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode decodes YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := Validator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParsedMetric returns the configured distance metric.
func (c Config) ParsedMetric() distance.Metric {
	m, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return distance.SquaredEuclidean
	}
	return m
}

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns a singleton that validates configuration structs.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())

		if err := v.RegisterValidation("strategy", validateStrategy); err != nil {
			panic("failed to register validation: " + err.Error())
		}
		if err := v.RegisterValidation("metric", validateMetric); err != nil {
			panic("failed to register validation: " + err.Error())
		}
	})
	return v
}

// Strategies lists every strategy name in the order runs execute them.
func Strategies() []string {
	return []string{
		StrategyBaseline,
		StrategyPyramid,
		StrategyBrief,
		StrategyPatch,
		StrategyBriefKernel,
		StrategyConvolutional,
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	for _, s := range Strategies() {
		if s == name {
			return true
		}
	}
	return false
}

func validateMetric(fl validator.FieldLevel) bool {
	_, err := distance.ParseMetric(fl.Field().String())
	return err == nil
}
