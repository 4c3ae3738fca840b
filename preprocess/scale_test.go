package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanmperez/ann-fundamentals/datasets"
)

func TestMinMaxScaler(t *testing.T) {
	x := [][]float64{
		{0, 10, 5},
		{255, 20, 5},
		{51, 15, 5},
	}
	s := &MinMaxScaler{}
	require.NoError(t, s.Fit(x))
	require.NoError(t, s.Transform(x))

	assert.Equal(t, 0.0, x[0][0])
	assert.Equal(t, 1.0, x[1][0])
	assert.InDelta(t, 0.2, x[2][0], 1e-9)
	assert.Equal(t, 0.0, x[0][1])
	assert.Equal(t, 1.0, x[1][1])
	// Constant feature maps to 0.
	for i := range x {
		assert.Zero(t, x[i][2])
	}
}

func TestStandardScaler(t *testing.T) {
	x := [][]float64{
		{1, 7},
		{2, 7},
		{3, 7},
	}
	s := &StandardScaler{}
	require.NoError(t, s.Fit(x))
	require.NoError(t, s.Transform(x))

	// Column zero has mean 2 and sample std 1.
	assert.InDelta(t, -1.0, x[0][0], 1e-9)
	assert.InDelta(t, 0.0, x[1][0], 1e-9)
	assert.InDelta(t, 1.0, x[2][0], 1e-9)
	// Zero-deviation feature maps to 0.
	for i := range x {
		assert.Zero(t, x[i][1])
	}
}

func TestTransformBeforeFit(t *testing.T) {
	assert.Error(t, (&MinMaxScaler{}).Transform([][]float64{{1}}))
	assert.Error(t, (&StandardScaler{}).Transform([][]float64{{1}}))
}

func TestFitEmpty(t *testing.T) {
	assert.Error(t, (&MinMaxScaler{}).Fit(nil))
	assert.Error(t, (&StandardScaler{}).Fit([][]float64{}))
}

func TestFitRagged(t *testing.T) {
	err := (&MinMaxScaler{}).Fit([][]float64{{1, 2}, {1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestTransformWidthMismatch(t *testing.T) {
	s := &MinMaxScaler{}
	require.NoError(t, s.Fit([][]float64{{0, 0}, {1, 1}}))
	assert.Error(t, s.Transform([][]float64{{1, 2, 3}}))
}

func TestByName(t *testing.T) {
	s, err := ByName("minmax")
	require.NoError(t, err)
	assert.IsType(t, &MinMaxScaler{}, s)

	s, err = ByName("standard")
	require.NoError(t, err)
	assert.IsType(t, &StandardScaler{}, s)

	s, err = ByName("none")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = ByName("bogus")
	assert.Error(t, err)
}

func TestScaleDatasetsFitsOnTrainOnly(t *testing.T) {
	train := &datasets.Dataset{Side: 1, Classes: datasets.DigitClasses(), Samples: []datasets.Sample{
		{Pixels: []float64{0}, Label: 0},
		{Pixels: []float64{100}, Label: 1},
	}}
	test := &datasets.Dataset{Side: 1, Classes: datasets.DigitClasses(), Samples: []datasets.Sample{
		{Pixels: []float64{200}, Label: 0},
	}}

	require.NoError(t, ScaleDatasets(&MinMaxScaler{}, train, test))

	assert.Equal(t, 0.0, train.Samples[0].Pixels[0])
	assert.Equal(t, 1.0, train.Samples[1].Pixels[0])
	// Test split uses the train range: 200 maps beyond 1.
	assert.InDelta(t, 2.0, test.Samples[0].Pixels[0], 1e-9)
}

func TestScaleDatasetsNilScaler(t *testing.T) {
	train := &datasets.Dataset{Side: 1, Samples: []datasets.Sample{{Pixels: []float64{5}}}}
	require.NoError(t, ScaleDatasets(nil, train, train))
	assert.Equal(t, 5.0, train.Samples[0].Pixels[0])
}
