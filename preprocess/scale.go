// Package preprocess provides the feature scaling applied before training.
// Scalers are fit on the training split only and then applied to both
// splits, so no statistics leak from held-out data.
package preprocess

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/seanmperez/ann-fundamentals/datasets"
)

// Scaler rescales feature vectors in place.
type Scaler interface {
	// Fit learns per-feature statistics from the rows of x.
	Fit(x [][]float64) error
	// Transform rescales every row of x in place.
	Transform(x [][]float64) error
}

// MinMaxScaler maps each feature linearly onto [0,1] using the min and max
// observed during Fit. Constant features map to 0.
type MinMaxScaler struct {
	min, max []float64
}

// Fit records per-feature minima and maxima.
func (s *MinMaxScaler) Fit(x [][]float64) error {
	cols, err := columns(x)
	if err != nil {
		return err
	}
	s.min = make([]float64, len(cols))
	s.max = make([]float64, len(cols))
	for j, col := range cols {
		s.min[j] = floats.Min(col)
		s.max[j] = floats.Max(col)
	}
	return nil
}

// Transform rescales rows in place using the fitted range.
func (s *MinMaxScaler) Transform(x [][]float64) error {
	if s.min == nil {
		return errors.New("preprocess: MinMaxScaler used before Fit")
	}
	for _, row := range x {
		if len(row) != len(s.min) {
			return errors.Errorf("preprocess: row has %d features, scaler fitted on %d", len(row), len(s.min))
		}
		for j := range row {
			span := s.max[j] - s.min[j]
			if span == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - s.min[j]) / span
		}
	}
	return nil
}

// StandardScaler centers each feature and divides by its standard
// deviation. Features with zero deviation are set to 0.
type StandardScaler struct {
	mean, std []float64
}

// Fit computes per-feature mean and standard deviation.
func (s *StandardScaler) Fit(x [][]float64) error {
	cols, err := columns(x)
	if err != nil {
		return err
	}
	s.mean = make([]float64, len(cols))
	s.std = make([]float64, len(cols))
	for j, col := range cols {
		s.mean[j], s.std[j] = stat.MeanStdDev(col, nil)
	}
	return nil
}

// Transform standardizes rows in place using the fitted statistics.
func (s *StandardScaler) Transform(x [][]float64) error {
	if s.mean == nil {
		return errors.New("preprocess: StandardScaler used before Fit")
	}
	for _, row := range x {
		if len(row) != len(s.mean) {
			return errors.Errorf("preprocess: row has %d features, scaler fitted on %d", len(row), len(s.mean))
		}
		for j := range row {
			if s.std[j] == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - s.mean[j]) / s.std[j]
		}
	}
	return nil
}

// ByName returns the scaler registered under name, or nil for "none".
func ByName(name string) (Scaler, error) {
	switch name {
	case "minmax":
		return &MinMaxScaler{}, nil
	case "standard":
		return &StandardScaler{}, nil
	case "none", "":
		return nil, nil
	}
	return nil, errors.Errorf("preprocess: unknown scaler %q", name)
}

// ScaleDatasets fits the scaler on train pixels and transforms both splits
// in place. A nil scaler is a no-op.
func ScaleDatasets(s Scaler, train, test *datasets.Dataset) error {
	if s == nil {
		return nil
	}
	if err := s.Fit(train.Inputs()); err != nil {
		return err
	}
	if err := s.Transform(train.Inputs()); err != nil {
		return err
	}
	return s.Transform(test.Inputs())
}

func columns(x [][]float64) ([][]float64, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, errors.New("preprocess: cannot fit on empty data")
	}
	width := len(x[0])
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(x))
	}
	for i, row := range x {
		if len(row) != width {
			return nil, errors.Errorf("preprocess: ragged input: row %d has %d features, want %d", i, len(row), width)
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return cols, nil
}
