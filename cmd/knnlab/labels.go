package main

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/knnlab/blobstore"
	"github.com/hupe1980/knnlab/mnist"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const prefixF = "prefix"

// LabelsCmd prints how many images carry each label.
func LabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Show label counts of a dataset",
		Long:  `This command loads one set of a dataset and displays the number of images per label.`,
		RunE:  labels,
	}
	cmd.Flags().String(datasetF, "", "dataset URI: a directory, file://, minio:// or s3://")
	cmd.Flags().StringSlice(prefixF, []string{"train", "t10k"}, "set prefixes to count")
	cmd.Flags().Int(shrinkF, 1, "use only 1 out of n images")

	return cmd
}

func labels(cmd *cobra.Command, _ []string) error {
	uri, err := cmd.Flags().GetString(datasetF)
	if err != nil {
		return err
	}
	if uri == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		uri = cfg.Dataset.URI
	}
	if uri == "" {
		return fmt.Errorf("--%s is required", datasetF)
	}
	prefixes, err := cmd.Flags().GetStringSlice(prefixF)
	if err != nil {
		return err
	}
	shrink, err := cmd.Flags().GetInt(shrinkF)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := blobstore.Open(ctx, uri)
	if err != nil {
		return err
	}

	counts := make([][]int, len(prefixes))
	for i, prefix := range prefixes {
		items, err := mnist.Load(ctx, store, prefix)
		if err != nil {
			return err
		}
		items = mnist.Discard(items, shrink)
		hist := mnist.LabelCounts(items)
		counts[i] = make([]int, 256)
		for _, l := range hist.Keys() {
			counts[i][l] = hist.Get(l)
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(append([]string{"Label"}, prefixes...))
	totals := make([]int, len(prefixes))
	for l := range 256 {
		row := []string{strconv.Itoa(l)}
		seen := false
		for i := range prefixes {
			n := counts[i][l]
			seen = seen || n > 0
			totals[i] += n
			row = append(row, strconv.Itoa(n))
		}
		if seen {
			table.Append(row)
		}
	}
	footer := []string{"Total"}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	table.SetFooter(footer)
	table.Render()
	return nil
}
