package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seanmperez/ann-fundamentals/trainer"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Load the configured dataset and print split statistics",
	Long: `Loads the configured dataset (verifying MNIST file digests along the
way) and prints per-class sample counts for the train and test splits.`,
	RunE: runDatasets,
}

func init() {
	addDatasetFlags(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	cfg.Scaler = "none" // report raw data

	train, test, err := trainer.LoadData(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %dx%d images, %d train / %d test samples\n",
		cfg.Dataset, train.Side, train.Side, train.Len(), test.Len())

	trainCounts := train.ClassCounts()
	testCounts := test.ClassCounts()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "class\ttrain\ttest")
	for i, class := range train.Classes {
		fmt.Fprintf(w, "%s\t%d\t%d\n", class, trainCounts[i], testCounts[i])
	}
	return w.Flush()
}
