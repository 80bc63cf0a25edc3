package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Parse decodes a catalog document from YAML text. An empty document yields
// an empty catalog. A document without an equipment_definitions sequence is
// given an empty one.
func Parse(text []byte) (*Catalog, error) {
	var doc omap.Map
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parse catalog document")
	}
	if doc.Len() == 0 {
		return New(), nil
	}
	return FromDocument(&doc), nil
}

// Load reads and parses a catalog file. A missing file yields an empty
// catalog rather than an error; callers creating a catalog for the first
// time start from the same shape as everyone else.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Parse(data)
}

// Marshal serializes the catalog document back to YAML, preserving key
// order throughout.
func (c *Catalog) Marshal() ([]byte, error) {
	out, err := omap.Encode(c.doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return out, nil
}

// Save writes the catalog document to path with 0644 permissions.
func (c *Catalog) Save(path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
