package mlp

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"

	deep "github.com/patrikeh/go-deep"
	"github.com/pkg/errors"
)

// Save writes the network's weight dump as gzip-compressed JSON.
func Save(n *deep.Neural, w io.Writer) error {
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(n.Dump()); err != nil {
		zw.Close()
		return errors.Wrap(err, "mlp: encode weights")
	}
	return errors.Wrap(zw.Close(), "mlp: flush weights")
}

// SaveFile writes the network's weights to a file.
func SaveFile(n *deep.Neural, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "mlp: create weights file")
	}
	if err := Save(n, f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "mlp: close weights file")
}

// Load reads a network from a gzip-compressed JSON weight dump.
func Load(r io.Reader) (*deep.Neural, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "mlp: open weights stream")
	}
	defer zr.Close()
	var dump deep.Dump
	if err := json.NewDecoder(zr).Decode(&dump); err != nil {
		return nil, errors.Wrap(err, "mlp: decode weights")
	}
	return deep.FromDump(&dump), nil
}

// LoadFile reads a network from a weights file written by SaveFile.
func LoadFile(name string) (*deep.Neural, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "mlp: open weights file")
	}
	defer f.Close()
	n, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "mlp: %s", name)
	}
	return n, nil
}
