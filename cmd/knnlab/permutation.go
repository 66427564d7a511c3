package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/hupe1980/knnlab/mnist"
	"github.com/spf13/cobra"
)

const (
	sizeF = "size"
	outF  = "out"
)

// PermutationCmd writes a random pixel permutation file.
func PermutationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permutation",
		Short: "Generate a pixel permutation file",
		Long:  `This command writes a random permutation of pixel indices for the permute experiment.`,
		RunE:  permutation,
	}
	cmd.Flags().Int(sizeF, 784, "number of pixels per image")
	cmd.Flags().Uint64(seedF, 0, "random seed; 0 picks one at random")
	cmd.Flags().String(outF, "image_permutation_file", "output file, - for stdout")

	return cmd
}

func permutation(cmd *cobra.Command, _ []string) error {
	size, err := cmd.Flags().GetInt(sizeF)
	if err != nil {
		return err
	}
	if size < 1 {
		return fmt.Errorf("size must be positive, got %d", size)
	}
	seed, err := cmd.Flags().GetUint64(seedF)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	out, err := cmd.Flags().GetString(outF)
	if err != nil {
		return err
	}

	perm := mnist.MakePermutation(size, rand.New(rand.NewPCG(seed, seed)))

	if out == "-" {
		return mnist.WritePermutation(cmd.OutOrStdout(), perm)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := mnist.WritePermutation(f, perm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
