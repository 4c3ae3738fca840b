// Package trainer provides high-level training orchestration: it loads and
// scales a dataset, builds the go-deep network, runs batch training and
// writes the evaluation artifacts for a run.
package trainer

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seanmperez/ann-fundamentals/config"
	"github.com/seanmperez/ann-fundamentals/mlp"
	"github.com/seanmperez/ann-fundamentals/parallel"
	"github.com/seanmperez/ann-fundamentals/viz"
)

// Trainer runs one configured training run end to end.
type Trainer struct {
	cfg config.Run
	log *zap.Logger
}

// Result summarizes a finished run; it is also what lands in the run
// directory as summary.yaml.
type Result struct {
	RunID         string        `yaml:"run_id"`
	Dataset       string        `yaml:"dataset"`
	Hidden        []int         `yaml:"hidden"`
	Epochs        int           `yaml:"epochs"`
	TrainSamples  int           `yaml:"train_samples"`
	TestSamples   int           `yaml:"test_samples"`
	Accuracy      float64       `yaml:"accuracy"`
	PerClass      []ClassReport `yaml:"per_class"`
	Misclassified int           `yaml:"misclassified"`
	Duration      string        `yaml:"duration"`

	ModelPath     string `yaml:"model"`
	ConfusionPath string `yaml:"confusion_matrix"`
	GalleryPath   string `yaml:"gallery,omitempty"`
}

// New validates the configuration and returns a trainer. A nil logger
// disables logging.
func New(cfg config.Run, log *zap.Logger) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{cfg: cfg, log: log}, nil
}

// Run executes the configured run and returns its summary.
func (t *Trainer) Run() (*Result, error) {
	start := time.Now()
	workers := t.cfg.Parallelism
	if workers <= 0 {
		workers = parallel.DefaultWorkers()
	}
	t.log.Info("starting run",
		zap.String("dataset", t.cfg.Dataset),
		zap.Ints("hidden", t.cfg.Hidden),
		zap.Int("epochs", t.cfg.Epochs),
		zap.Int("workers", workers),
		zap.String("cpu", parallel.CPUBrand()),
		zap.Bool("avx2", parallel.HasAVX2()),
	)

	train, test, err := LoadData(t.cfg)
	if err != nil {
		return nil, err
	}
	t.log.Info("dataset loaded",
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
		zap.Int("input_dim", train.InputDim()),
	)

	spec := mlp.Spec{
		InputDim:   train.InputDim(),
		Hidden:     t.cfg.Hidden,
		Classes:    len(train.Classes),
		Activation: t.cfg.Activation,
	}
	net, err := t.loadOrBuild(spec)
	if err != nil {
		return nil, err
	}

	solver, err := newSolver(t.cfg.Optimizer)
	if err != nil {
		return nil, err
	}

	train.Shuffle(t.cfg.Seed)
	val, fit, err := train.Split(t.cfg.ValidationSplit, t.cfg.Seed)
	if err != nil {
		return nil, err
	}
	t.log.Info("training",
		zap.Int("fit", fit.Len()),
		zap.Int("validation", val.Len()),
		zap.String("optimizer", t.cfg.Optimizer.Name),
		zap.Float64("lr", t.cfg.Optimizer.LR),
	)
	fitEx, err := fit.Examples()
	if err != nil {
		return nil, err
	}
	valEx, err := val.Examples()
	if err != nil {
		return nil, err
	}
	bt := training.NewBatchTrainer(solver, 1, t.cfg.BatchSize, workers)
	bt.Train(net, fitEx, valEx, t.cfg.Epochs)

	eval, err := Evaluate(net, test, workers)
	if err != nil {
		return nil, err
	}
	t.log.Info("evaluated", zap.Float64("accuracy", eval.Accuracy))

	runID := uuid.NewString()
	runDir := filepath.Join(t.cfg.OutDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "trainer: create run dir")
	}

	res := &Result{
		RunID:        runID,
		Dataset:      t.cfg.Dataset,
		Hidden:       t.cfg.Hidden,
		Epochs:       t.cfg.Epochs,
		TrainSamples: train.Len(),
		TestSamples:  test.Len(),
		Accuracy:     eval.Accuracy,
		PerClass:     eval.PerClass,
	}

	res.ModelPath = filepath.Join(runDir, "model.json.gz")
	if err := mlp.SaveFile(net, res.ModelPath); err != nil {
		return nil, err
	}

	res.ConfusionPath = filepath.Join(runDir, "confusion.png")
	err = viz.RenderConfusionMatrix(eval.Confusion, viz.ConfusionOptions{
		Normalize: t.cfg.NormalizeConfusion,
		Title:     t.cfg.Dataset + " confusion matrix",
	}, res.ConfusionPath)
	if err != nil {
		return nil, err
	}

	res.Misclassified = len(eval.Misclassified)
	if t.cfg.GalleryTiles > 0 {
		path := filepath.Join(runDir, "misclassified.png")
		count, err := viz.MisclassifiedGallery(test, eval.Predictions, t.cfg.GalleryTiles, 10, path)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			res.GalleryPath = path
		}
	}

	res.Duration = time.Since(start).Round(time.Millisecond).String()
	if err := writeSummary(res, filepath.Join(runDir, "summary.yaml")); err != nil {
		return nil, err
	}

	t.log.Info("run complete",
		zap.String("run_id", runID),
		zap.String("dir", runDir),
		zap.String("duration", res.Duration),
	)
	return res, nil
}

func writeSummary(res *Result, path string) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "trainer: marshal summary")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "trainer: write summary")
}
