// Package config defines the run configuration shared by the CLI and the
// trainer, loadable from a YAML file with sane defaults.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Optimizer selects and parameterizes the go-deep solver.
type Optimizer struct {
	Name     string  `yaml:"name"` // adam or sgd
	LR       float64 `yaml:"lr"`
	Momentum float64 `yaml:"momentum"` // sgd only
	Decay    float64 `yaml:"decay"`    // sgd only
	Nesterov bool    `yaml:"nesterov"` // sgd only
	Beta1    float64 `yaml:"beta1"`    // adam only
	Beta2    float64 `yaml:"beta2"`    // adam only
	Epsilon  float64 `yaml:"epsilon"`  // adam only
}

// Run is one training run: dataset, preprocessing, architecture, optimizer
// and reporting knobs.
type Run struct {
	Dataset   string   `yaml:"dataset"`    // mnist or optdigits
	DataDirs  []string `yaml:"data_dirs"`  // mnist search directories
	TrainFile string   `yaml:"train_file"` // optdigits train CSV
	TestFile  string   `yaml:"test_file"`  // optdigits test CSV

	Scaler     string `yaml:"scaler"` // minmax, standard or none
	Hidden     []int  `yaml:"hidden"`
	Activation string `yaml:"activation"`

	Epochs          int     `yaml:"epochs"`
	BatchSize       int     `yaml:"batch_size"`
	ValidationSplit float64 `yaml:"validation_split"`
	Parallelism     int     `yaml:"parallelism"` // 0 picks the hardware default
	Seed            int64   `yaml:"seed"`

	Optimizer Optimizer `yaml:"optimizer"`

	OutDir             string `yaml:"out_dir"`
	Resume             string `yaml:"resume"` // weights file to continue from
	NormalizeConfusion bool   `yaml:"normalize_confusion"`
	GalleryTiles       int    `yaml:"gallery_tiles"`
}

// Default returns the configuration used when no file is given: the MNIST
// walkthrough with a two-hidden-layer ReLU net and Adam.
func Default() Run {
	return Run{
		Dataset:         "mnist",
		Scaler:          "minmax",
		Hidden:          []int{128, 64},
		Activation:      "relu",
		Epochs:          10,
		BatchSize:       64,
		ValidationSplit: 0.1,
		Seed:            42,
		Optimizer: Optimizer{
			Name:    "adam",
			LR:      0.001,
			Beta1:   0.9,
			Beta2:   0.999,
			Epsilon: 1e-8,
		},
		OutDir:       "runs",
		GalleryTiles: 50,
	}
}

// Load reads a YAML run file on top of the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (Run, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return r, errors.Wrap(err, "config: read")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && err != io.EOF {
		return r, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := r.Validate(); err != nil {
		return r, errors.Wrapf(err, "config: %s", path)
	}
	return r, nil
}

// Validate rejects configurations the trainer cannot run.
func (r Run) Validate() error {
	switch r.Dataset {
	case "mnist":
	case "optdigits":
		if r.TrainFile == "" || r.TestFile == "" {
			return errors.New("optdigits needs train_file and test_file")
		}
	default:
		return errors.Errorf("unknown dataset %q", r.Dataset)
	}
	switch r.Scaler {
	case "minmax", "standard", "none", "":
	default:
		return errors.Errorf("unknown scaler %q", r.Scaler)
	}
	switch r.Activation {
	case "relu", "sigmoid", "tanh", "":
	default:
		return errors.Errorf("unknown activation %q", r.Activation)
	}
	switch r.Optimizer.Name {
	case "adam", "sgd":
	default:
		return errors.Errorf("unknown optimizer %q", r.Optimizer.Name)
	}
	if r.Optimizer.LR <= 0 {
		return errors.Errorf("learning rate %v must be positive", r.Optimizer.LR)
	}
	if r.Epochs <= 0 {
		return errors.Errorf("epochs %d must be positive", r.Epochs)
	}
	if r.BatchSize <= 0 {
		return errors.Errorf("batch size %d must be positive", r.BatchSize)
	}
	if r.ValidationSplit < 0 || r.ValidationSplit >= 1 {
		return errors.Errorf("validation split %v out of [0,1)", r.ValidationSplit)
	}
	for _, h := range r.Hidden {
		if h <= 0 {
			return errors.Errorf("hidden layer size %d must be positive", h)
		}
	}
	return nil
}
