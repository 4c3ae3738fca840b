package main

import (
	"github.com/spf13/cobra"

	"github.com/seanmperez/ann-fundamentals/config"
)

// Dataset selection flags shared by the train, evaluate and datasets
// commands.
var (
	flagDataset   string
	flagDataDirs  []string
	flagTrainFile string
	flagTestFile  string
)

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDataset, "dataset", "", "dataset: mnist or optdigits")
	cmd.Flags().StringSliceVar(&flagDataDirs, "data-dir", nil, "mnist search directories")
	cmd.Flags().StringVar(&flagTrainFile, "train-file", "", "optdigits train CSV")
	cmd.Flags().StringVar(&flagTestFile, "test-file", "", "optdigits test CSV")
}

// loadRunConfig reads --config when given, otherwise the defaults, and
// overlays the dataset flags.
func loadRunConfig() (config.Run, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	if flagDataset != "" {
		cfg.Dataset = flagDataset
	}
	if len(flagDataDirs) > 0 {
		cfg.DataDirs = flagDataDirs
	}
	if flagTrainFile != "" {
		cfg.TrainFile = flagTrainFile
	}
	if flagTestFile != "" {
		cfg.TestFile = flagTestFile
	}
	return cfg, nil
}
