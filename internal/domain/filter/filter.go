// Package filter implements the catalog filter predicate.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/versus/internal/domain/vehicle"
)

// Price bucket upper bounds, in base currency, inclusive.
const (
	LowMax = 15000
	MidMax = 30000
)

// Any is the wildcard value for every criterion.
const Any = "any"

// ErrInvalidBudget is returned by ParseBudget for unknown buckets.
var ErrInvalidBudget = errors.New("invalid budget bucket")

// Budget is a price bucket.
type Budget string

// Budget buckets.
const (
	BudgetAny  Budget = Any
	BudgetLow  Budget = "low"
	BudgetMid  Budget = "mid"
	BudgetHigh Budget = "high"
)

// Budgets lists the buckets in display order.
func Budgets() []Budget {
	return []Budget{BudgetAny, BudgetLow, BudgetMid, BudgetHigh}
}

// Label is the display text of the bucket.
func (b Budget) Label() string {
	switch b {
	case BudgetLow:
		return "Hasta 15.000 €"
	case BudgetMid:
		return "15.000 € - 30.000 €"
	case BudgetHigh:
		return "Más de 30.000 €"
	default:
		return "Cualquier presupuesto"
	}
}

// ParseBudget accepts the bucket names plus "all" and "" for any.
func ParseBudget(s string) (Budget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", Any, "all":
		return BudgetAny, nil
	case string(BudgetLow):
		return BudgetLow, nil
	case string(BudgetMid):
		return BudgetMid, nil
	case string(BudgetHigh):
		return BudgetHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBudget, s)
}

// BucketOf classifies a base-currency price.
func BucketOf(price float64) Budget {
	switch {
	case price <= LowMax:
		return BudgetLow
	case price <= MidMax:
		return BudgetMid
	default:
		return BudgetHigh
	}
}

// Criteria is the set of user-chosen constraints. Empty fields behave as Any.
type Criteria struct {
	Budget       Budget
	Usage        string
	Fuel         string
	Transmission string
	Search       string
}

// Default returns criteria that match every vehicle.
func Default() Criteria {
	return Criteria{
		Budget:       BudgetAny,
		Usage:        Any,
		Fuel:         Any,
		Transmission: Any,
	}
}

// Normalize maps empty and "all" values to Any. Search is kept verbatim.
func (c Criteria) Normalize() Criteria {
	if b, err := ParseBudget(string(c.Budget)); err == nil {
		c.Budget = b
	}
	c.Usage = wildcard(c.Usage)
	c.Fuel = wildcard(c.Fuel)
	c.Transmission = wildcard(c.Transmission)
	return c
}

// Query is the trimmed, lowercased search string.
func (c Criteria) Query() string {
	return strings.ToLower(strings.TrimSpace(c.Search))
}

// Matches reports whether v passes every rule of c. Rules short-circuit in
// order: budget, usage, fuel, transmission, search.
func Matches(v *vehicle.Vehicle, c Criteria) bool {
	c = c.Normalize()
	if c.Budget != BudgetAny && BucketOf(v.Price) != c.Budget {
		return false
	}
	if c.Usage != Any && !v.HasTag(vehicle.Usage(c.Usage)) {
		return false
	}
	if c.Fuel != Any && string(v.Fuel) != c.Fuel {
		return false
	}
	if c.Transmission != Any && string(v.Transmission) != c.Transmission {
		return false
	}
	if q := c.Query(); q != "" && !strings.Contains(strings.ToLower(v.Name()), q) {
		return false
	}
	return true
}

// Apply returns the vehicles matching c, preserving input order.
func Apply(vs []vehicle.Vehicle, c Criteria) []vehicle.Vehicle {
	c = c.Normalize()
	out := make([]vehicle.Vehicle, 0, len(vs))
	for i := range vs {
		if Matches(&vs[i], c) {
			out = append(out, vs[i])
		}
	}
	return out
}

func wildcard(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") || strings.EqualFold(s, Any) {
		return Any
	}
	return s
}
