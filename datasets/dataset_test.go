package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(n int) *Dataset {
	d := &Dataset{Name: "test", Side: 2, Classes: DigitClasses()}
	for i := 0; i < n; i++ {
		d.Samples = append(d.Samples, Sample{
			Pixels: []float64{float64(i), 0, 0, 0},
			Label:  i % 10,
		})
	}
	return d
}

func TestOneHot(t *testing.T) {
	v, err := OneHot(10, 3)
	require.NoError(t, err)
	require.Len(t, v, 10)
	for i, x := range v {
		if i == 3 {
			assert.Equal(t, 1.0, x)
		} else {
			assert.Equal(t, 0.0, x)
		}
	}
}

func TestOneHotOutOfRange(t *testing.T) {
	for _, label := range []int{-1, 10} {
		_, err := OneHot(10, label)
		assert.Error(t, err, "label %d", label)
	}
}

func TestSplitPreservesSamples(t *testing.T) {
	d := testDataset(100)
	first, second, err := d.Split(0.25, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, first.Len())
	assert.Equal(t, 75, second.Len())

	seen := make(map[float64]bool)
	for _, s := range append(append([]Sample{}, first.Samples...), second.Samples...) {
		seen[s.Pixels[0]] = true
	}
	assert.Len(t, seen, 100, "every sample lands in exactly one part")
}

func TestSplitBadFraction(t *testing.T) {
	d := testDataset(10)
	_, _, err := d.Split(1.5, 1)
	assert.Error(t, err)
	_, _, err = d.Split(-0.1, 1)
	assert.Error(t, err)
}

func TestShuffleDeterministic(t *testing.T) {
	a := testDataset(50)
	b := testDataset(50)
	a.Shuffle(7)
	b.Shuffle(7)
	assert.Equal(t, a.Labels(), b.Labels())

	c := testDataset(50)
	c.Shuffle(8)
	assert.NotEqual(t, a.Labels(), c.Labels())
}

func TestExamples(t *testing.T) {
	d := testDataset(12)
	ex, err := d.Examples()
	require.NoError(t, err)
	require.Len(t, ex, 12)
	for i, e := range ex {
		assert.Equal(t, d.Samples[i].Pixels, e.Input)
		require.Len(t, e.Response, 10)
		assert.Equal(t, 1.0, e.Response[d.Samples[i].Label])
	}
}

func TestExamplesRejectsBadLabel(t *testing.T) {
	d := testDataset(5)
	d.Samples[3].Label = 10
	_, err := d.Examples()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label 10")
}

func TestClassCounts(t *testing.T) {
	d := testDataset(25)
	counts := d.ClassCounts()
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, counts[0]) // labels 0, 10, 20
}

func TestInputDim(t *testing.T) {
	d := testDataset(1)
	assert.Equal(t, 4, d.InputDim())
}
