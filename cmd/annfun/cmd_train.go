package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seanmperez/ann-fundamentals/trainer"
)

var (
	trainEpochs int
	trainHidden []int
	trainResume string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a classifier and write its run artifacts",
	Long: `Trains an MLP on the configured dataset and writes the model weights,
a summary.yaml, the confusion matrix PNG and a misclassification gallery
into runs/<run-id>/.

Examples:
  annfun train --dataset mnist --data-dir /tmp/mnist
  annfun train --config runs/optdigits.yaml --epochs 30`,
	RunE: runTrain,
}

func init() {
	addDatasetFlags(trainCmd)
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "override epochs")
	trainCmd.Flags().IntSliceVar(&trainHidden, "hidden", nil, "override hidden layer sizes")
	trainCmd.Flags().StringVar(&trainResume, "resume", "", "weights file to continue from")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if trainEpochs > 0 {
		cfg.Epochs = trainEpochs
	}
	if len(trainHidden) > 0 {
		cfg.Hidden = trainHidden
	}
	if trainResume != "" {
		cfg.Resume = trainResume
	}

	t, err := trainer.New(cfg, logger)
	if err != nil {
		return err
	}
	res, err := t.Run()
	if err != nil {
		return err
	}

	fmt.Printf("run %s: accuracy %.2f on %d test samples (%d misclassified)\n",
		res.RunID, res.Accuracy, res.TestSamples, res.Misclassified)
	fmt.Printf("artifacts: %s\n", res.ConfusionPath)
	return nil
}
