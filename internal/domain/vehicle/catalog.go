package vehicle

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when two records share an id.
var ErrDuplicateID = errors.New("duplicate vehicle id")

// Catalog is the read-only, ordered set of vehicles. Order is the source
// order and doubles as the ranking tie-break.
type Catalog struct {
	vehicles []Vehicle
	index    map[string]int
}

// NewCatalog validates every record and indexes them by id. The input slice
// is copied.
func NewCatalog(vs []Vehicle) (*Catalog, error) {
	c := &Catalog{
		vehicles: make([]Vehicle, len(vs)),
		index:    make(map[string]int, len(vs)),
	}
	for i := range vs {
		if err := vs[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := c.index[vs[i].ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, vs[i].ID)
		}
		c.vehicles[i] = vs[i]
		c.vehicles[i].Tags = append([]Usage(nil), vs[i].Tags...)
		c.index[vs[i].ID] = i
	}
	return c, nil
}

// All returns the vehicles in catalog order. The slice is a copy; the
// records share tag slices with the catalog and must not be mutated.
func (c *Catalog) All() []Vehicle {
	out := make([]Vehicle, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}

// Get looks a vehicle up by id.
func (c *Catalog) Get(id string) (Vehicle, bool) {
	i, ok := c.index[id]
	if !ok {
		return Vehicle{}, false
	}
	return c.vehicles[i], true
}

// Position returns the catalog index of id, or -1.
func (c *Catalog) Position(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of vehicles.
func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// Facet is a distinct value of a vehicle attribute with its display label.
type Facet struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Fuels returns the distinct fuels in first-seen order.
func (c *Catalog) Fuels() []Facet {
	seen := make(map[Fuel]bool)
	var out []Facet
	for i := range c.vehicles {
		v := &c.vehicles[i]
		if seen[v.Fuel] {
			continue
		}
		seen[v.Fuel] = true
		out = append(out, Facet{Value: string(v.Fuel), Label: labelOr(v.FuelLabel, string(v.Fuel))})
	}
	return out
}

// Transmissions returns the distinct transmissions in first-seen order.
func (c *Catalog) Transmissions() []Facet {
	seen := make(map[Transmission]bool)
	var out []Facet
	for i := range c.vehicles {
		v := &c.vehicles[i]
		if seen[v.Transmission] {
			continue
		}
		seen[v.Transmission] = true
		out = append(out, Facet{Value: string(v.Transmission), Label: labelOr(v.TransmissionLabel, string(v.Transmission))})
	}
	return out
}

// Usages returns the distinct usage tags in first-seen order.
func (c *Catalog) Usages() []Usage {
	seen := make(map[Usage]bool)
	var out []Usage
	for i := range c.vehicles {
		for _, t := range c.vehicles[i].Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
