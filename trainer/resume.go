package trainer

import (
	deep "github.com/patrikeh/go-deep"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/seanmperez/ann-fundamentals/mlp"
)

// loadOrBuild builds a fresh network, or resumes from a saved
// weights file when one is configured. A resumed network must match the
// dataset's input and class dimensions.
func (t *Trainer) loadOrBuild(spec mlp.Spec) (*deep.Neural, error) {
	if t.cfg.Resume == "" {
		return spec.Build()
	}
	net, err := mlp.LoadFile(t.cfg.Resume)
	if err != nil {
		return nil, err
	}
	if net.Config.Inputs != spec.InputDim {
		return nil, errors.Errorf("trainer: resumed model expects %d inputs, dataset has %d",
			net.Config.Inputs, spec.InputDim)
	}
	outputs := net.Config.Layout[len(net.Config.Layout)-1]
	if outputs != spec.Classes {
		return nil, errors.Errorf("trainer: resumed model has %d outputs, dataset has %d classes",
			outputs, spec.Classes)
	}
	t.log.Info("resumed weights", zap.String("from", t.cfg.Resume))
	return net, nil
}
