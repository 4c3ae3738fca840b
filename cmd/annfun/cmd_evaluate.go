package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seanmperez/ann-fundamentals/mlp"
	"github.com/seanmperez/ann-fundamentals/trainer"
	"github.com/seanmperez/ann-fundamentals/viz"
)

var (
	evalModel     string
	evalConfusion string
	evalNormalize bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a saved model on the test split",
	Long: `Loads saved weights, predicts the configured dataset's test split and
prints accuracy with a per-class precision/recall table. Optionally renders
the confusion matrix to a PNG.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalModel, "model", "m", "", "weights file (required)")
	evaluateCmd.Flags().StringVar(&evalConfusion, "confusion", "", "write confusion matrix PNG here")
	evaluateCmd.Flags().BoolVar(&evalNormalize, "normalize", false, "row-normalize the confusion matrix")
	_ = evaluateCmd.MarkFlagRequired("model")
	addDatasetFlags(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	net, err := mlp.LoadFile(evalModel)
	if err != nil {
		return err
	}
	_, test, err := trainer.LoadData(cfg)
	if err != nil {
		return err
	}
	eval, err := trainer.Evaluate(net, test, cfg.Parallelism)
	if err != nil {
		return err
	}

	fmt.Printf("accuracy: %.2f (%d/%d correct)\n",
		eval.Accuracy, test.Len()-len(eval.Misclassified), test.Len())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "class\tprecision\trecall\tsupport")
	for _, c := range eval.PerClass {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%d\n", c.Class, c.Precision, c.Recall, c.Support)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if evalConfusion != "" {
		err := viz.RenderConfusionMatrix(eval.Confusion, viz.ConfusionOptions{
			Normalize: evalNormalize,
			Title:     cfg.Dataset + " confusion matrix",
		}, evalConfusion)
		if err != nil {
			return err
		}
		fmt.Printf("confusion matrix written to %s\n", evalConfusion)
	}
	return nil
}
