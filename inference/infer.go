// Package inference runs a trained classifier over batches of samples.
// go-deep's forward pass stores activations inside the network, so the
// predictor keeps one clone per worker instead of sharing a single net.
package inference

import (
	deep "github.com/patrikeh/go-deep"

	"github.com/seanmperez/ann-fundamentals/mlp"
	"github.com/seanmperez/ann-fundamentals/parallel"
)

// Predictor evaluates a network over many inputs concurrently. A Predictor
// is not safe for concurrent use itself; one batch at a time.
type Predictor struct {
	nets []*deep.Neural
}

// NewPredictor clones the network once per worker. workers <= 0 picks the
// hardware default.
func NewPredictor(n *deep.Neural, workers int) *Predictor {
	if workers <= 0 {
		workers = parallel.DefaultWorkers()
	}
	nets := make([]*deep.Neural, workers)
	nets[0] = n
	for i := 1; i < workers; i++ {
		nets[i] = mlp.Clone(n)
	}
	return &Predictor{nets: nets}
}

// Predict returns the argmax class for every input, in input order. Each
// worker owns one chunk and one network clone.
func (p *Predictor) Predict(inputs [][]float64) []int {
	out := make([]int, len(inputs))
	chunks := parallel.Chunks(len(inputs), len(p.nets))

	parallel.ForEach(len(chunks), len(p.nets), func(w int) {
		net := p.nets[w]
		for i := chunks[w][0]; i < chunks[w][1]; i++ {
			out[i] = deep.ArgMax(net.Predict(inputs[i]))
		}
	})
	return out
}

// PredictOne returns the argmax class for a single input.
func (p *Predictor) PredictOne(input []float64) int {
	return deep.ArgMax(p.nets[0].Predict(input))
}

// Probabilities returns the raw class scores for a single input.
func (p *Predictor) Probabilities(input []float64) []float64 {
	return p.nets[0].Predict(input)
}
