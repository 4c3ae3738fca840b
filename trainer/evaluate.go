package trainer

import (
	deep "github.com/patrikeh/go-deep"
	"github.com/pkg/errors"

	"github.com/seanmperez/ann-fundamentals/datasets"
	"github.com/seanmperez/ann-fundamentals/inference"
	"github.com/seanmperez/ann-fundamentals/metrics"
)

// ClassReport holds per-class evaluation numbers.
type ClassReport struct {
	Class     string  `yaml:"class"`
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	Support   int     `yaml:"support"`
}

// Evaluation is the outcome of running a model over a held-out split.
type Evaluation struct {
	Accuracy      float64
	Predictions   []int
	Misclassified []int
	Confusion     *metrics.ConfusionMatrix
	PerClass      []ClassReport
}

// Evaluate predicts every sample of the split and computes accuracy, the
// confusion matrix and per-class precision/recall. The network must match
// the split's input dimension; go-deep's forward pass silently skips
// mismatched inputs, which would score never-written activations.
func Evaluate(net *deep.Neural, split *datasets.Dataset, workers int) (*Evaluation, error) {
	if net.Config.Inputs != split.InputDim() {
		return nil, errors.Errorf("trainer: model expects %d inputs, dataset %s has %d",
			net.Config.Inputs, split.Name, split.InputDim())
	}
	pred := inference.NewPredictor(net, workers).Predict(split.Inputs())
	labels := split.Labels()

	acc, err := metrics.Accuracy(pred, labels)
	if err != nil {
		return nil, err
	}
	cm, err := metrics.Confusion(pred, labels, split.Classes)
	if err != nil {
		return nil, err
	}
	wrong, err := metrics.Misclassified(pred, labels)
	if err != nil {
		return nil, err
	}

	counts := split.ClassCounts()
	perClass := make([]ClassReport, len(split.Classes))
	for i, class := range split.Classes {
		perClass[i] = ClassReport{
			Class:     class,
			Precision: cm.Precision(i),
			Recall:    cm.Recall(i),
			Support:   counts[i],
		}
	}

	return &Evaluation{
		Accuracy:      acc,
		Predictions:   pred,
		Misclassified: wrong,
		Confusion:     cm,
		PerClass:      perClass,
	}, nil
}
