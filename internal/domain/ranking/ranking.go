// Package ranking orders vehicles by a closed set of score attributes.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/versus/internal/domain/vehicle"
)

// ErrInvalidKey is returned by ParseKey for unknown attributes.
var ErrInvalidKey = errors.New("invalid priority key")

// Key is a ranking attribute.
type Key int

// Ranking attributes. The zero value is Total.
const (
	Total Key = iota
	Safety
	Economy
	Comfort
)

var keyNames = [...]string{
	Total:   "totalScore",
	Safety:  "safetyScore",
	Economy: "economyScore",
	Comfort: "comfortScore",
}

var keyLabels = [...]string{
	Total:   "equilibrio general",
	Safety:  "seguridad",
	Economy: "coste total",
	Comfort: "comodidad",
}

var keyAccessors = [...]func(*vehicle.Vehicle) float64{
	Total:   func(v *vehicle.Vehicle) float64 { return v.TotalScore },
	Safety:  func(v *vehicle.Vehicle) float64 { return v.SafetyScore },
	Economy: func(v *vehicle.Vehicle) float64 { return v.EconomyScore },
	Comfort: func(v *vehicle.Vehicle) float64 { return v.ComfortScore },
}

// Keys returns every key in display order.
func Keys() []Key {
	return []Key{Total, Safety, Economy, Comfort}
}

// ParseKey accepts the wire names ("totalScore") and the short forms
// ("total"), case-insensitively. Empty means Total.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Total, nil
	}
	for _, k := range Keys() {
		name := keyNames[k]
		if strings.EqualFold(s, name) || strings.EqualFold(s, strings.TrimSuffix(name, "Score")) {
			return k, nil
		}
	}
	return Total, fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

func (k Key) valid() bool {
	return k >= Total && k <= Comfort
}

// String returns the wire name.
func (k Key) String() string {
	if !k.valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Label returns the display label used in summaries.
func (k Key) Label() string {
	if !k.valid() {
		return ""
	}
	return keyLabels[k]
}

// Value reads the attribute from v. Missing values and NaN read as zero.
func (k Key) Value(v *vehicle.Vehicle) float64 {
	if v == nil || !k.valid() {
		return 0
	}
	x := keyAccessors[k](v)
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rank returns a new slice sorted by k descending. Ties keep input order.
func Rank(vs []vehicle.Vehicle, k Key) []vehicle.Vehicle {
	out := slices.Clone(vs)
	if out == nil {
		out = []vehicle.Vehicle{}
	}
	slices.SortStableFunc(out, func(a, b vehicle.Vehicle) int {
		av, bv := k.Value(&a), k.Value(&b)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
	return out
}
