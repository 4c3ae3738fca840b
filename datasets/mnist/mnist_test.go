package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func imagesPayload(t *testing.T, imgs [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	hdr := make([]byte, 16)
	binary.BigEndian.PutUint32(hdr[0:4], imagesMagic)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(imgs)))
	binary.BigEndian.PutUint32(hdr[8:12], ImgSize)
	binary.BigEndian.PutUint32(hdr[12:16], ImgSize)
	buf.Write(hdr)
	for _, img := range imgs {
		require.Len(t, img, ImgSize*ImgSize)
		buf.Write(img)
	}
	return buf.Bytes()
}

func labelsPayload(labels []byte) []byte {
	var buf bytes.Buffer
	hdr := make([]byte, 8)
	binary.BigEndian.PutUint32(hdr[0:4], labelsMagic)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(labels)))
	buf.Write(hdr)
	buf.Write(labels)
	return buf.Bytes()
}

// writeSet writes a consistent four-file MNIST directory with n train and m
// test samples, where sample i has label i%10 and pixel 0 set to i.
func writeSet(t *testing.T, dir string, n, m int) {
	t.Helper()
	build := func(count int) ([][]byte, []byte) {
		imgs := make([][]byte, count)
		labels := make([]byte, count)
		for i := 0; i < count; i++ {
			img := make([]byte, ImgSize*ImgSize)
			img[0] = byte(i)
			imgs[i] = img
			labels[i] = byte(i % 10)
		}
		return imgs, labels
	}
	trainImgs, trainLabels := build(n)
	testImgs, testLabels := build(m)
	files := map[string][]byte{
		trainImagesName: gzipped(t, imagesPayload(t, trainImgs)),
		trainLabelsName: gzipped(t, labelsPayload(trainLabels)),
		testImagesName:  gzipped(t, imagesPayload(t, testImgs)),
		testLabelsName:  gzipped(t, labelsPayload(testLabels)),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 20, 5)

	train, test, err := Loader{Dirs: []string{dir}, SkipDigestCheck: true}.Load()
	require.NoError(t, err)

	assert.Equal(t, 20, train.Len())
	assert.Equal(t, 5, test.Len())
	assert.Equal(t, ImgSize, train.Side)
	assert.Equal(t, ImgSize*ImgSize, train.InputDim())

	// Pixel 0 carries the sample index; labels follow i%10.
	assert.Equal(t, 7.0, train.Samples[7].Pixels[0])
	assert.Equal(t, 7, train.Samples[7].Label)
	assert.Equal(t, 3, test.Samples[3].Label)
}

func TestLoadSearchesDirsInOrder(t *testing.T) {
	empty := t.TempDir()
	full := t.TempDir()
	writeSet(t, full, 3, 2)

	train, test, err := Loader{Dirs: []string{empty, full}, SkipDigestCheck: true}.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, train.Len())
	assert.Equal(t, 2, test.Len())
}

func TestLoadMissingFiles(t *testing.T) {
	_, _, err := Loader{Dirs: []string{t.TempDir()}, SkipDigestCheck: true}.Load()
	require.Error(t, err)
}

func TestLoadDigestMismatch(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 2, 2)

	// Digest checking on locally generated files must fail.
	_, _, err := Loader{Dirs: []string{dir}}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestLoadBadMagic(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 2, 2)

	payload := labelsPayload([]byte{0, 1})
	binary.BigEndian.PutUint32(payload[0:4], 0xdeadbeef)
	require.NoError(t, os.WriteFile(filepath.Join(dir, trainLabelsName), gzipped(t, payload), 0o644))

	_, _, err := Loader{Dirs: []string{dir}, SkipDigestCheck: true}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad magic")
}

func TestLoadTruncatedImages(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 2, 2)

	payload := imagesPayload(t, [][]byte{make([]byte, ImgSize*ImgSize)})
	truncated := payload[:len(payload)-10]
	require.NoError(t, os.WriteFile(filepath.Join(dir, trainImagesName), gzipped(t, truncated), 0o644))

	_, _, err := Loader{Dirs: []string{dir}, SkipDigestCheck: true}.Load()
	require.Error(t, err)
}

func TestLoadCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 4, 2)

	// Train labels claim 3 samples while train images hold 4.
	payload := labelsPayload([]byte{0, 1, 2})
	require.NoError(t, os.WriteFile(filepath.Join(dir, trainLabelsName), gzipped(t, payload), 0o644))

	_, _, err := Loader{Dirs: []string{dir}, SkipDigestCheck: true}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "images but")
}

func TestLoadLabelOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, 2, 2)

	payload := labelsPayload([]byte{0, 12})
	require.NoError(t, os.WriteFile(filepath.Join(dir, trainLabelsName), gzipped(t, payload), 0o644))

	_, _, err := Loader{Dirs: []string{dir}, SkipDigestCheck: true}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDefaultDirs(t *testing.T) {
	dirs := DefaultDirs()
	require.NotEmpty(t, dirs)
	assert.Equal(t, "/tmp/mnist", dirs[0])
}
