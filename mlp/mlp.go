// Package mlp builds the feed-forward classifiers used by the walkthroughs.
// All network math lives in go-deep; this package only maps a small spec
// onto its configuration and handles weight persistence.
package mlp

import (
	deep "github.com/patrikeh/go-deep"
	"github.com/pkg/errors"
)

// Spec describes a multi-class MLP: input width, hidden layer sizes and the
// number of output classes. The output layer is always softmax with
// cross-entropy loss.
type Spec struct {
	InputDim   int
	Hidden     []int
	Classes    int
	Activation string // relu, sigmoid or tanh; relu when empty

	// Weight initialization, N(WeightMean, WeightStd). Zero values fall
	// back to N(0, 0.5).
	WeightMean float64
	WeightStd  float64
}

// Build constructs the network described by s.
func (s Spec) Build() (*deep.Neural, error) {
	if s.InputDim <= 0 {
		return nil, errors.Errorf("mlp: input dim %d must be positive", s.InputDim)
	}
	if s.Classes < 2 {
		return nil, errors.Errorf("mlp: need at least 2 classes, got %d", s.Classes)
	}
	for _, h := range s.Hidden {
		if h <= 0 {
			return nil, errors.Errorf("mlp: hidden layer size %d must be positive", h)
		}
	}
	act, err := activation(s.Activation)
	if err != nil {
		return nil, err
	}
	std := s.WeightStd
	if std == 0 {
		std = 0.5
	}
	layout := append(append([]int{}, s.Hidden...), s.Classes)
	return deep.NewNeural(&deep.Config{
		Inputs:     s.InputDim,
		Layout:     layout,
		Activation: act,
		Mode:       deep.ModeMultiClass,
		Loss:       deep.LossCrossEntropy,
		Weight:     deep.NewNormal(std, s.WeightMean),
		Bias:       true,
	}), nil
}

func activation(name string) (deep.ActivationType, error) {
	switch name {
	case "relu", "":
		return deep.ActivationReLU, nil
	case "sigmoid":
		return deep.ActivationSigmoid, nil
	case "tanh":
		return deep.ActivationTanh, nil
	}
	return 0, errors.Errorf("mlp: unknown activation %q", name)
}

// Clone returns an independent copy of the network. The forward pass keeps
// per-neuron state, so concurrent prediction needs one copy per worker.
func Clone(n *deep.Neural) *deep.Neural {
	return deep.FromDump(n.Dump())
}
