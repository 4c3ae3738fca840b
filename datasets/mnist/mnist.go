// Package mnist loads the classic 28x28 handwritten digit set from the four
// gzipped IDX files. Files are searched across a list of directories and
// verified against known sha256 digests before parsing.
package mnist

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/seanmperez/ann-fundamentals/datasets"
)

// ImgSize is the side length of every MNIST image.
const ImgSize = 28

const (
	trainImagesName = "train-images-idx3-ubyte.gz"
	trainLabelsName = "train-labels-idx1-ubyte.gz"
	testImagesName  = "t10k-images-idx3-ubyte.gz"
	testLabelsName  = "t10k-labels-idx1-ubyte.gz"
)

// sha256 digests of the canonical gzipped distribution files.
const (
	trainImagesDigest = "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609"
	trainLabelsDigest = "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c"
	testImagesDigest  = "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6"
	testLabelsDigest  = "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6"
)

const (
	imagesMagic = 0x00000803
	labelsMagic = 0x00000801
)

// DefaultDirs returns the directories searched when none are given.
func DefaultDirs() []string {
	dirs := []string{"/tmp/mnist"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".cache", "mnist"))
	}
	return dirs
}

// Loader reads the MNIST distribution files from a set of directories.
type Loader struct {
	// Dirs are searched in order for each file. Empty means DefaultDirs.
	Dirs []string
	// SkipDigestCheck disables sha256 verification, for locally
	// regenerated files.
	SkipDigestCheck bool
}

// Load reads all four files and returns the train and test splits. The
// files are read and parsed concurrently. Pixels are the raw byte values
// 0..255 as float64; scaling is left to the preprocess package.
func (l Loader) Load() (train, test *datasets.Dataset, err error) {
	dirs := l.Dirs
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}

	var (
		trainImgs, testImgs     [][]float64
		trainLabels, testLabels []int
	)

	var g errgroup.Group
	g.Go(func() error {
		imgs, err := l.loadImages(dirs, trainImagesName, trainImagesDigest)
		if err != nil {
			return err
		}
		trainImgs = imgs
		return nil
	})
	g.Go(func() error {
		imgs, err := l.loadImages(dirs, testImagesName, testImagesDigest)
		if err != nil {
			return err
		}
		testImgs = imgs
		return nil
	})
	g.Go(func() error {
		labels, err := l.loadLabels(dirs, trainLabelsName, trainLabelsDigest)
		if err != nil {
			return err
		}
		trainLabels = labels
		return nil
	})
	g.Go(func() error {
		labels, err := l.loadLabels(dirs, testLabelsName, testLabelsDigest)
		if err != nil {
			return err
		}
		testLabels = labels
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	train, err = assemble("mnist-train", trainImgs, trainLabels)
	if err != nil {
		return nil, nil, err
	}
	test, err = assemble("mnist-test", testImgs, testLabels)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// Load reads MNIST from the given directories (or DefaultDirs when none).
func Load(dirs ...string) (train, test *datasets.Dataset, err error) {
	return Loader{Dirs: dirs}.Load()
}

func assemble(name string, imgs [][]float64, labels []int) (*datasets.Dataset, error) {
	if len(imgs) != len(labels) {
		return nil, errors.Errorf("mnist: %s has %d images but %d labels", name, len(imgs), len(labels))
	}
	samples := make([]datasets.Sample, len(imgs))
	for i := range imgs {
		samples[i] = datasets.Sample{Pixels: imgs[i], Label: labels[i]}
	}
	return &datasets.Dataset{
		Name:    name,
		Side:    ImgSize,
		Classes: datasets.DigitClasses(),
		Samples: samples,
	}, nil
}

// readFile locates name in dirs, verifies its digest and returns the
// gunzipped payload.
func (l Loader) readFile(dirs []string, name, digest string) ([]byte, error) {
	var firstErr error
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "mnist: read %s", path)
			}
			continue
		}
		if !l.SkipDigestCheck {
			sum := fmt.Sprintf("%x", sha256.Sum256(raw))
			if sum != digest {
				return nil, errors.Errorf("mnist: %s digest mismatch: got %s want %s", path, sum, digest)
			}
		}
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "mnist: gunzip %s", path)
		}
		data, err := io.ReadAll(zr)
		if cerr := zr.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, errors.Wrapf(err, "mnist: gunzip %s", path)
		}
		return data, nil
	}
	if firstErr == nil {
		firstErr = errors.Errorf("mnist: %s not found in any search directory", name)
	}
	return nil, firstErr
}

func (l Loader) loadImages(dirs []string, name, digest string) ([][]float64, error) {
	data, err := l.readFile(dirs, name, digest)
	if err != nil {
		return nil, err
	}
	if len(data) < 16 {
		return nil, errors.Errorf("mnist: %s: truncated header", name)
	}
	magic := binary.BigEndian.Uint32(data[0:4])
	if magic != imagesMagic {
		return nil, errors.Errorf("mnist: %s: bad magic %#08x", name, magic)
	}
	count := int(binary.BigEndian.Uint32(data[4:8]))
	rows := int(binary.BigEndian.Uint32(data[8:12]))
	cols := int(binary.BigEndian.Uint32(data[12:16]))
	if rows != ImgSize || cols != ImgSize {
		return nil, errors.Errorf("mnist: %s: unexpected image size %dx%d", name, rows, cols)
	}
	body := data[16:]
	if len(body) != count*rows*cols {
		return nil, errors.Errorf("mnist: %s: payload is %d bytes, want %d", name, len(body), count*rows*cols)
	}
	imgs := make([][]float64, count)
	stride := rows * cols
	for i := 0; i < count; i++ {
		px := make([]float64, stride)
		for j, b := range body[i*stride : (i+1)*stride] {
			px[j] = float64(b)
		}
		imgs[i] = px
	}
	return imgs, nil
}

func (l Loader) loadLabels(dirs []string, name, digest string) ([]int, error) {
	data, err := l.readFile(dirs, name, digest)
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, errors.Errorf("mnist: %s: truncated header", name)
	}
	magic := binary.BigEndian.Uint32(data[0:4])
	if magic != labelsMagic {
		return nil, errors.Errorf("mnist: %s: bad magic %#08x", name, magic)
	}
	count := int(binary.BigEndian.Uint32(data[4:8]))
	body := data[8:]
	if len(body) != count {
		return nil, errors.Errorf("mnist: %s: payload is %d bytes, want %d", name, len(body), count)
	}
	labels := make([]int, count)
	for i, b := range body {
		if b > 9 {
			return nil, errors.Errorf("mnist: %s: label %d out of range at index %d", name, b, i)
		}
		labels[i] = int(b)
	}
	return labels, nil
}
