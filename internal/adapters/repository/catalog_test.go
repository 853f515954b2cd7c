package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/versus/internal/domain/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const miniCatalog = `
vehicles:
  - id: a
    brand: Seat
    model: Ibiza
    fuel: gasoline
    transmission: manual
    tags: [city]
    price: 15000
    totalScore: 7.5
    safetyScore: 7
    economyScore: 8
    comfortScore: 6
  - id: b
    brand: Kia
    model: Niro
    fuel: hybrid
    transmission: automatic
    tags: [family]
    price: 31000
    totalScore: 8.5
    safetyScore: 8
    economyScore: 8
    comfortScore: 8
`

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := LoadCatalog(context.Background(), "")
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.Len(), 10)

	for _, v := range c.All() {
		assert.NoError(t, v.Validate(), v.ID)
		assert.NotEmpty(t, v.FuelLabel, v.ID)
		assert.NotEmpty(t, v.TransmissionLabel, v.ID)
		assert.NotEmpty(t, v.Tags, v.ID)
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(miniCatalog), 0o600))

	c, err := LoadCatalog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Position("b"))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []vehicle.Usage{"city"}, v.Tags)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadCatalog(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"empty", "", ErrInvalidCatalog},
		{"unknown field", "vehicles:\n  - id: a\n    colour: red\n", ErrInvalidCatalog},
		{"duplicate id", "vehicles:\n  - {id: a, brand: x, model: y}\n  - {id: a, brand: x, model: z}\n", vehicle.ErrDuplicateID},
		{"score out of range", "vehicles:\n  - {id: a, brand: x, model: y, totalScore: 11}\n", vehicle.ErrInvalidVehicle},
		{"negative price", "vehicles:\n  - {id: a, brand: x, model: y, price: -1}\n", vehicle.ErrInvalidVehicle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), err.Error())
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}
