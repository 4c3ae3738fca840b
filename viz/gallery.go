package viz

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"

	"github.com/seanmperez/ann-fundamentals/datasets"
	"github.com/seanmperez/ann-fundamentals/metrics"
)

const galleryPad = 2

// MisclassifiedGallery writes a grayscale tile grid of samples the model
// got wrong, up to maxTiles, and returns how many were rendered. Pixel
// values are stretched per tile so scaled inputs stay visible.
func MisclassifiedGallery(ds *datasets.Dataset, predictions []int, maxTiles, cols int, path string) (int, error) {
	wrong, err := metrics.Misclassified(predictions, ds.Labels())
	if err != nil {
		return 0, err
	}
	if maxTiles > 0 && len(wrong) > maxTiles {
		wrong = wrong[:maxTiles]
	}
	if len(wrong) == 0 {
		return 0, nil
	}
	if cols <= 0 {
		cols = 10
	}
	if cols > len(wrong) {
		cols = len(wrong)
	}
	rows := (len(wrong) + cols - 1) / cols

	side := ds.Side
	cell := side + galleryPad
	img := image.NewGray(image.Rect(0, 0, cols*cell+galleryPad, rows*cell+galleryPad))

	for t, idx := range wrong {
		x0 := galleryPad + (t%cols)*cell
		y0 := galleryPad + (t/cols)*cell
		drawTile(img, ds.Samples[idx].Pixels, side, x0, y0)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "viz: create gallery")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return 0, errors.Wrap(err, "viz: encode gallery")
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrap(err, "viz: close gallery")
	}
	return len(wrong), nil
}

// drawTile writes one digit into the gallery, rescaled to the full 0..255
// range so standardized pixels still render.
func drawTile(img *image.Gray, pixels []float64, side, x0, y0 int) {
	lo, hi := pixels[0], pixels[0]
	for _, v := range pixels {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			v := pixels[y*side+x]
			var g byte
			if span > 0 {
				g = byte((v - lo) / span * 255)
			}
			img.Pix[(y0+y)*img.Stride+x0+x] = g
		}
	}
}
