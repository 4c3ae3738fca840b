// Package datasets holds the in-memory representation shared by the digit
// dataset loaders, plus the conversions the training pipeline needs.
package datasets

import (
	"math"
	"math/rand"

	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"
)

// Sample is a single labeled digit image, flattened row-major.
type Sample struct {
	Pixels []float64
	Label  int
}

// Dataset is an ordered collection of samples from one source split.
type Dataset struct {
	Name    string
	Side    int
	Classes []string
	Samples []Sample
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// InputDim returns the flattened pixel count per sample.
func (d *Dataset) InputDim() int { return d.Side * d.Side }

// Labels returns the label of every sample, in order.
func (d *Dataset) Labels() []int {
	out := make([]int, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Label
	}
	return out
}

// Inputs returns the pixel vectors of every sample, in order. The slices
// alias the dataset's backing storage.
func (d *Dataset) Inputs() [][]float64 {
	out := make([][]float64, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Pixels
	}
	return out
}

// ClassCounts tallies samples per class label.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, len(d.Classes))
	for _, s := range d.Samples {
		if s.Label >= 0 && s.Label < len(counts) {
			counts[s.Label]++
		}
	}
	return counts
}

// Shuffle permutes the samples in place using the given seed.
func (d *Dataset) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.Samples), func(i, j int) {
		d.Samples[i], d.Samples[j] = d.Samples[j], d.Samples[i]
	})
}

// Split shuffles a copy of the dataset and cuts it in two, the first part
// holding frac of the samples. Every sample lands in exactly one part.
func (d *Dataset) Split(frac float64, seed int64) (*Dataset, *Dataset, error) {
	if frac < 0 || frac > 1 {
		return nil, nil, errors.Errorf("datasets: split fraction %v out of [0,1]", frac)
	}
	shuffled := make([]Sample, len(d.Samples))
	copy(shuffled, d.Samples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cut := int(math.Round(frac * float64(len(shuffled))))
	first := &Dataset{Name: d.Name, Side: d.Side, Classes: d.Classes, Samples: shuffled[:cut]}
	second := &Dataset{Name: d.Name, Side: d.Side, Classes: d.Classes, Samples: shuffled[cut:]}
	return first, second, nil
}

// OneHot encodes label as a one-of-classes vector. Labels outside
// [0, classes) are rejected so the vector always carries exactly one 1.
func OneHot(classes, label int) ([]float64, error) {
	if label < 0 || label >= classes {
		return nil, errors.Errorf("datasets: label %d outside [0, %d)", label, classes)
	}
	v := make([]float64, classes)
	v[label] = 1
	return v, nil
}

// Examples converts the dataset to go-deep training examples. Inputs alias
// the dataset's pixel storage; responses are one-hot class vectors.
func (d *Dataset) Examples() (training.Examples, error) {
	ex := make(training.Examples, len(d.Samples))
	for i, s := range d.Samples {
		resp, err := OneHot(len(d.Classes), s.Label)
		if err != nil {
			return nil, errors.Wrapf(err, "datasets: %s sample %d", d.Name, i)
		}
		ex[i] = training.Example{Input: s.Pixels, Response: resp}
	}
	return ex, nil
}

// DigitClasses returns the labels "0".."9" used by both bundled loaders.
func DigitClasses() []string {
	return []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
}
