// Package metrics implements the evaluation reporting used after training:
// classification accuracy and a confusion matrix with per-class statistics.
package metrics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidInput is returned when predictions and targets differ in length
// or are empty.
var ErrInvalidInput = errors.New("metrics: predictions and targets must be non-empty and equal-length")

// Accuracy returns the fraction of positions where predictions and targets
// agree, rounded to two decimal places.
func Accuracy(predictions, targets []int) (float64, error) {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return 0, errors.Wrapf(ErrInvalidInput, "%d predictions, %d targets", len(predictions), len(targets))
	}
	correct := 0
	for i := range predictions {
		if predictions[i] == targets[i] {
			correct++
		}
	}
	acc := float64(correct) / float64(len(predictions))
	return math.Round(acc*100) / 100, nil
}

// ConfusionMatrix counts predictions per true class. Rows are the actual
// class, columns the predicted class.
type ConfusionMatrix struct {
	counts  *mat.Dense
	classes []string
}

// NewConfusionMatrix returns an empty matrix over the given class labels.
func NewConfusionMatrix(classes []string) (*ConfusionMatrix, error) {
	if len(classes) < 2 {
		return nil, errors.Errorf("metrics: need at least 2 classes, got %d", len(classes))
	}
	n := len(classes)
	return &ConfusionMatrix{
		counts:  mat.NewDense(n, n, nil),
		classes: append([]string{}, classes...),
	}, nil
}

// Confusion builds a confusion matrix from parallel prediction and target
// slices.
func Confusion(predictions, targets []int, classes []string) (*ConfusionMatrix, error) {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return nil, errors.Wrapf(ErrInvalidInput, "%d predictions, %d targets", len(predictions), len(targets))
	}
	cm, err := NewConfusionMatrix(classes)
	if err != nil {
		return nil, err
	}
	for i := range predictions {
		if err := cm.Observe(predictions[i], targets[i]); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}
	return cm, nil
}

// Observe records one prediction against its true class.
func (c *ConfusionMatrix) Observe(predicted, actual int) error {
	n := len(c.classes)
	if predicted < 0 || predicted >= n || actual < 0 || actual >= n {
		return errors.Errorf("metrics: class out of range: predicted %d, actual %d, classes %d", predicted, actual, n)
	}
	c.counts.Set(actual, predicted, c.counts.At(actual, predicted)+1)
	return nil
}

// Classes returns the class labels in matrix order.
func (c *ConfusionMatrix) Classes() []string { return c.classes }

// Dim returns the number of classes.
func (c *ConfusionMatrix) Dim() int { return len(c.classes) }

// At returns the count of samples of class actual predicted as predicted.
func (c *ConfusionMatrix) At(actual, predicted int) float64 {
	return c.counts.At(actual, predicted)
}

// Counts returns a copy of the raw count matrix.
func (c *ConfusionMatrix) Counts() *mat.Dense {
	var out mat.Dense
	out.CloneFrom(c.counts)
	return &out
}

// Normalized returns a copy with each row divided by its row sum. Rows with
// no observations stay all-zero.
func (c *ConfusionMatrix) Normalized() *mat.Dense {
	n := len(c.classes)
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		row := c.counts.RawRowView(i)
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for j, v := range row {
			out.Set(i, j, v/sum)
		}
	}
	return out
}

// Max returns the largest cell count.
func (c *ConfusionMatrix) Max() float64 {
	return mat.Max(c.counts)
}

// Precision returns the column-wise precision of a class: correct
// predictions of the class over all predictions of it. Zero when the class
// is never predicted.
func (c *ConfusionMatrix) Precision(class int) float64 {
	n := len(c.classes)
	if class < 0 || class >= n {
		return 0
	}
	col := 0.0
	for i := 0; i < n; i++ {
		col += c.counts.At(i, class)
	}
	if col == 0 {
		return 0
	}
	return c.counts.At(class, class) / col
}

// Recall returns the row-wise recall of a class: correct predictions of the
// class over all samples of it. Zero when the class never occurs.
func (c *ConfusionMatrix) Recall(class int) float64 {
	n := len(c.classes)
	if class < 0 || class >= n {
		return 0
	}
	row := 0.0
	for j := 0; j < n; j++ {
		row += c.counts.At(class, j)
	}
	if row == 0 {
		return 0
	}
	return c.counts.At(class, class) / row
}

// Misclassified returns the indices where predictions and targets disagree.
func Misclassified(predictions, targets []int) ([]int, error) {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return nil, errors.Wrapf(ErrInvalidInput, "%d predictions, %d targets", len(predictions), len(targets))
	}
	var idx []int
	for i := range predictions {
		if predictions[i] != targets[i] {
			idx = append(idx, i)
		}
	}
	return idx, nil
}
