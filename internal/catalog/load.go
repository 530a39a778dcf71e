package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const supportedVersion = 1

//go:embed data/catalog.v1.json
var defaultCatalog []byte

type document struct {
	Version  int                  `json:"version"`
	Products []ProductSupplierMap `json:"products"`
}

// Load decodes a versioned catalog document.
func Load(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	if doc.Version != supportedVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidCatalog, doc.Version)
	}
	return New(doc.Version, doc.Products)
}

// LoadFile loads the catalog at path, or the embedded default table when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog table shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}
