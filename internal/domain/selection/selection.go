// Package selection resolves the two compared vehicles from a ranked list.
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/versus/internal/domain/vehicle"
)

// ErrInvalidSlot is returned by ParseSlot for anything but a or b.
var ErrInvalidSlot = errors.New("invalid slot")

// Slot names one side of the comparison.
type Slot string

// Comparison slots.
const (
	SlotA Slot = "a"
	SlotB Slot = "b"
)

// ParseSlot accepts "a" and "b" case-insensitively.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SlotA):
		return SlotA, nil
	case string(SlotB):
		return SlotB, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

// Label is the card heading for the slot.
func (s Slot) Label() string {
	if s == SlotB {
		return "Opción B"
	}
	return "Opción A"
}

// Choice is a slot's state: Auto when ID is empty, Explicit(ID) otherwise.
type Choice struct {
	ID string `json:"id,omitempty"`
}

// Auto follows the ranking.
func Auto() Choice { return Choice{} }

// Explicit pins the slot to a vehicle id. An empty id is Auto.
func Explicit(id string) Choice { return Choice{ID: strings.TrimSpace(id)} }

// IsAuto reports whether the slot follows the ranking.
func (c Choice) IsAuto() bool { return c.ID == "" }

// State holds both slots.
type State struct {
	A Choice `json:"a"`
	B Choice `json:"b"`
}

// Get returns the choice for slot s.
func (st State) Get(s Slot) Choice {
	if s == SlotB {
		return st.B
	}
	return st.A
}

// With returns a copy of st with slot s set to c. The other slot is kept.
func (st State) With(s Slot, c Choice) State {
	if s == SlotB {
		st.B = c
	} else {
		st.A = c
	}
	return st
}

// Result is the resolved pair. A and B point into the ranked slice passed to
// Resolve; either may be nil. State is the input state unchanged: an explicit
// slot whose vehicle is filtered out keeps its id and shows the default.
type Result struct {
	A     *vehicle.Vehicle
	B     *vehicle.Vehicle
	State State
}

// Holds reports whether c is explicit and v is the vehicle it names.
func (c Choice) Holds(v *vehicle.Vehicle) bool {
	return !c.IsAuto() && v != nil && v.ID == c.ID
}

// Resolve picks A and B from ranked.
//
// Empty ranked yields none for both. A single element fills both slots.
// Otherwise A defaults to ranked[0] and B to ranked[1]. An explicit slot is
// honoured when its id is present in ranked; when not, the default is shown
// for this recompute and the choice is kept for later ones.
func Resolve(ranked []vehicle.Vehicle, st State) Result {
	res := Result{State: st}
	if len(ranked) == 0 {
		return res
	}

	defaultA, defaultB := &ranked[0], &ranked[0]
	if len(ranked) > 1 {
		defaultB = &ranked[1]
	}

	res.A = pick(ranked, st.A, defaultA)
	res.B = pick(ranked, st.B, defaultB)
	return res
}

func pick(ranked []vehicle.Vehicle, c Choice, fallback *vehicle.Vehicle) *vehicle.Vehicle {
	if c.IsAuto() {
		return fallback
	}
	if v := find(ranked, c.ID); v != nil {
		return v
	}
	return fallback
}

func find(ranked []vehicle.Vehicle, id string) *vehicle.Vehicle {
	for i := range ranked {
		if ranked[i].ID == id {
			return &ranked[i]
		}
	}
	return nil
}
