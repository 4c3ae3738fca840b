package trainer

import (
	"github.com/pkg/errors"

	"github.com/seanmperez/ann-fundamentals/config"
	"github.com/seanmperez/ann-fundamentals/datasets"
	"github.com/seanmperez/ann-fundamentals/datasets/mnist"
	"github.com/seanmperez/ann-fundamentals/datasets/optdigits"
	"github.com/seanmperez/ann-fundamentals/preprocess"
)

// LoadData loads the configured dataset and applies the configured scaler,
// fitting on the train split only.
func LoadData(cfg config.Run) (train, test *datasets.Dataset, err error) {
	switch cfg.Dataset {
	case "mnist":
		train, test, err = mnist.Load(cfg.DataDirs...)
	case "optdigits":
		train, test, err = optdigits.LoadPair(cfg.TrainFile, cfg.TestFile)
	default:
		return nil, nil, errors.Errorf("trainer: unknown dataset %q", cfg.Dataset)
	}
	if err != nil {
		return nil, nil, err
	}
	scaler, err := preprocess.ByName(cfg.Scaler)
	if err != nil {
		return nil, nil, err
	}
	if err := preprocess.ScaleDatasets(scaler, train, test); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
