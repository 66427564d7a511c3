package main

import (
	"fmt"
	"io"

	"github.com/hupe1980/knnlab"
	"github.com/hupe1980/knnlab/config"
	"github.com/spf13/cobra"
)

const (
	configF    = "config"
	logLevelF  = "log-level"
	logFormatF = "log-format"
)

// NewCmd builds the knnlab command tree.
func NewCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "knnlab [command] [flags]",
		Short: "k-nearest-neighbor experiments on MNIST digits",
		Long: `knnlab converts MNIST images with feature strategies (baseline, pyramid,
brief, patch, brief-kernel, convolutional), classifies the test set with k-NN
and reports a confusion matrix per strategy.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP(configF, "c", "", "YAML config file; flags override its values")
	rootCmd.PersistentFlags().String(logLevelF, "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String(logFormatF, "", "log format: text or json")

	rootCmd.AddCommand(RunCmd(), PermutationCmd(), LabelsCmd(), StrategiesCmd())
	return rootCmd
}

// loadConfig reads the config file if one is given, otherwise starts from
// the defaults, and applies the persistent log flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString(configF); path != "" {
		loaded, err := config.Read(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed(logLevelF) {
		cfg.Log.Level, _ = cmd.Flags().GetString(logLevelF)
	}
	if cmd.Flags().Changed(logFormatF) {
		cfg.Log.Format, _ = cmd.Flags().GetString(logFormatF)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) (*knnlab.Logger, error) {
	level, err := knnlab.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	switch cfg.Format {
	case "json":
		return knnlab.NewJSONLogger(w, level), nil
	case "text", "":
		return knnlab.NewTextLogger(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
