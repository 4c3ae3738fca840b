// Package optdigits loads the UCI optical recognition of handwritten digits
// set: 8x8 images with pixel intensities 0..16, distributed as CSV rows of
// 64 features followed by the class label.
package optdigits

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/seanmperez/ann-fundamentals/datasets"
)

// ImgSize is the side length of every optdigits image.
const ImgSize = 8

// MaxIntensity is the largest pixel value in the distribution files.
const MaxIntensity = 16

// Load parses one optdigits CSV file (typically optdigits.tra or
// optdigits.tes) into a dataset.
func Load(path string) (*datasets.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "optdigits: open")
	}
	defer f.Close()
	ds, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "optdigits: %s", path)
	}
	ds.Name = path
	return ds, nil
}

// LoadPair loads the train and test files.
func LoadPair(trainPath, testPath string) (train, test *datasets.Dataset, err error) {
	if train, err = Load(trainPath); err != nil {
		return nil, nil, err
	}
	if test, err = Load(testPath); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// Read parses optdigits CSV rows from r.
func Read(r io.Reader) (*datasets.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ImgSize*ImgSize + 1

	var samples []datasets.Sample
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		sample, err := parseRow(record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, errors.New("no rows")
	}
	return &datasets.Dataset{
		Name:    "optdigits",
		Side:    ImgSize,
		Classes: datasets.DigitClasses(),
		Samples: samples,
	}, nil
}

func parseRow(record []string) (datasets.Sample, error) {
	px := make([]float64, ImgSize*ImgSize)
	for i := 0; i < len(px); i++ {
		v, err := strconv.Atoi(record[i])
		if err != nil {
			return datasets.Sample{}, errors.Wrapf(err, "feature %d", i)
		}
		if v < 0 || v > MaxIntensity {
			return datasets.Sample{}, errors.Errorf("feature %d value %d out of 0..%d", i, v, MaxIntensity)
		}
		px[i] = float64(v)
	}
	label, err := strconv.Atoi(record[len(record)-1])
	if err != nil {
		return datasets.Sample{}, errors.Wrap(err, "label")
	}
	if label < 0 || label > 9 {
		return datasets.Sample{}, errors.Errorf("label %d out of 0..9", label)
	}
	return datasets.Sample{Pixels: px, Label: label}, nil
}
