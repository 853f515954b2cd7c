// Package repository loads the vehicle catalog and keeps live sessions.
package repository

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/versus/internal/domain/vehicle"
	"github.com/okian/versus/pkg/metrics"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogFile is the top-level structure of a catalog document.
type catalogFile struct {
	Vehicles []vehicle.Vehicle `yaml:"vehicles"`
}

// LoadCatalog reads the catalog at path, or the embedded default when path
// is empty. Unknown fields and invalid records are rejected.
func LoadCatalog(ctx context.Context, path string) (*vehicle.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := defaultCatalog
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		raw, source = b, path
	}

	c, err := ParseCatalog(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", source, err)
	}

	metrics.UpdateCatalogVehicles(c.Len())
	return c, nil
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(r io.Reader) (*vehicle.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrInvalidCatalog, err)
	}

	c, err := vehicle.NewCatalog(f.Vehicles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return c, nil
}
