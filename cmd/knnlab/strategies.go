package main

import (
	"fmt"

	"github.com/hupe1980/knnlab/config"
	"github.com/spf13/cobra"
)

var strategyDescriptions = map[string]string{
	config.StrategyBaseline:      "straightforward knn on raw pixels",
	config.StrategyPyramid:       "knn with pyramid images",
	config.StrategyBrief:         "knn with BRIEF descriptors",
	config.StrategyPatch:         "knn with pixel-versus-neighbor patch bits",
	config.StrategyBriefKernel:   "knn with per-image k-means bit kernels",
	config.StrategyConvolutional: "knn with k-means pixel kernels learned from training patches",
}

// StrategiesCmd lists the built-in strategies.
func StrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range config.Strategies() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", name, strategyDescriptions[name]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
