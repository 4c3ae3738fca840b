// Package viz renders the evaluation artifacts: the confusion matrix
// heatmap and a gallery of misclassified digits.
package viz

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/seanmperez/ann-fundamentals/metrics"
)

// ConfusionOptions control the rendered confusion matrix.
type ConfusionOptions struct {
	// Normalize divides each row by its row sum before rendering.
	Normalize bool
	Title     string
}

// matrixGrid adapts a dense matrix to the heatmap's grid interface, with
// row 0 at the top as confusion matrices are conventionally read.
type matrixGrid struct {
	m *mat.Dense
}

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

// RenderConfusionMatrix draws cm as a heat-mapped grid annotated with cell
// values and writes it to path (format chosen by extension, typically PNG).
// Cell annotations are light on dark cells and dark on light ones, cutting
// over at half the matrix maximum.
func RenderConfusionMatrix(cm *metrics.ConfusionMatrix, opts ConfusionOptions, path string) error {
	if cm == nil {
		return errors.New("viz: nil confusion matrix")
	}
	m := cm.Counts()
	format := "%.0f"
	if opts.Normalize {
		m = cm.Normalized()
		format = "%.2f"
	}
	n := cm.Dim()
	classes := cm.Classes()

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Confusion matrix"
	}
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"

	// High counts render dark, so the colormap is reversed.
	pal := palette.Reverse(moreland.Kindlmann()).Palette(255)
	hm := plotter.NewHeatMap(matrixGrid{m: m}, pal)
	hm.Min = 0
	p.Add(hm)

	xticks := make([]plot.Tick, n)
	yticks := make([]plot.Tick, n)
	for i := 0; i < n; i++ {
		xticks[i] = plot.Tick{Value: float64(i), Label: classes[i]}
		yticks[i] = plot.Tick{Value: float64(i), Label: classes[n-1-i]}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)

	labels, err := cellLabels(m, format)
	if err != nil {
		return err
	}
	p.Add(labels)

	side := vg.Length(n) * vg.Centimeter
	if side < 10*vg.Centimeter {
		side = 10 * vg.Centimeter
	}
	return errors.Wrapf(p.Save(side, side, path), "viz: save %s", path)
}

// cellLabels annotates every cell with its value, centered, colored by
// whether the value exceeds half the matrix maximum.
func cellLabels(m *mat.Dense, format string) (*plotter.Labels, error) {
	rows, cols := m.Dims()
	max := mat.Max(m)
	cutoff := max / 2

	xy := make(plotter.XYs, 0, rows*cols)
	texts := make([]string, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xy = append(xy, plotter.XY{X: float64(j), Y: float64(rows - 1 - i)})
			texts = append(texts, fmt.Sprintf(format, m.At(i, j)))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: texts})
	if err != nil {
		return nil, errors.Wrap(err, "viz: cell labels")
	}
	k := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			st := &labels.TextStyle[k]
			st.XAlign = text.XCenter
			st.YAlign = text.YCenter
			if m.At(i, j) > cutoff {
				st.Color = color.White
			} else {
				st.Color = color.Black
			}
			k++
		}
	}
	return labels, nil
}
