package main

import (
	"fmt"
	"image"
	_ "image/png"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seanmperez/ann-fundamentals/inference"
	"github.com/seanmperez/ann-fundamentals/mlp"
)

var (
	predictModel  string
	predictInvert bool
)

var predictCmd = &cobra.Command{
	Use:   "predict [image.png]",
	Short: "Classify a single digit image with a saved model",
	Long: `Loads saved weights and classifies one grayscale PNG. The image must
match the model's input size (28x28 for MNIST models, 8x8 for optdigits).
MNIST-style inputs are light digits on a dark background; pass --invert for
dark-on-light images. Pixels are scaled to [0,1] before prediction.`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictModel, "model", "m", "", "weights file (required)")
	predictCmd.Flags().BoolVar(&predictInvert, "invert", false, "invert pixel intensities")
	_ = predictCmd.MarkFlagRequired("model")
}

func runPredict(cmd *cobra.Command, args []string) error {
	net, err := mlp.LoadFile(predictModel)
	if err != nil {
		return err
	}
	side := int(math.Sqrt(float64(net.Config.Inputs)))
	if side*side != net.Config.Inputs {
		return errors.Errorf("model input dim %d is not square", net.Config.Inputs)
	}

	pixels, err := loadGrayscale(args[0], side)
	if err != nil {
		return err
	}
	if predictInvert {
		for i := range pixels {
			pixels[i] = 1 - pixels[i]
		}
	}

	p := inference.NewPredictor(net, 1)
	class := p.PredictOne(pixels)
	probs := p.Probabilities(pixels)

	fmt.Printf("predicted: %d\n", class)
	for i, pr := range probs {
		fmt.Printf("  %d: %.3f\n", i, pr)
	}
	return nil
}

// loadGrayscale decodes an image, requires it to be side x side, and
// returns row-major pixels scaled to [0,1].
func loadGrayscale(path string, side int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	b := img.Bounds()
	if b.Dx() != side || b.Dy() != side {
		return nil, errors.Errorf("image is %dx%d, model expects %dx%d", b.Dx(), b.Dy(), side, side)
	}
	pixels := make([]float64, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// Rec. 601 luma over 16-bit channels.
			luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
			pixels[y*side+x] = luma / 65535
		}
	}
	return pixels, nil
}
