package trainer

import (
	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"

	"github.com/seanmperez/ann-fundamentals/config"
)

// newSolver maps the optimizer configuration onto a go-deep solver.
func newSolver(o config.Optimizer) (training.Solver, error) {
	switch o.Name {
	case "adam":
		return training.NewAdam(o.LR, o.Beta1, o.Beta2, o.Epsilon), nil
	case "sgd":
		return training.NewSGD(o.LR, o.Momentum, o.Decay, o.Nesterov), nil
	}
	return nil, errors.Errorf("trainer: unknown optimizer %q", o.Name)
}
