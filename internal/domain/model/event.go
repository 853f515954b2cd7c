// Package model contains domain models passed between layers.
package model

import "time"

// Kind identifies what an input event changes.
type Kind string

// Input event kinds.
const (
	KindBudget       Kind = "budget"
	KindUsage        Kind = "usage"
	KindFuel         Kind = "fuel"
	KindTransmission Kind = "transmission"
	KindSearch       Kind = "search"
	KindPriority     Kind = "priority"
	KindSelect       Kind = "select"
	KindReset        Kind = "reset"
)

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindBudget, KindUsage, KindFuel, KindTransmission,
		KindSearch, KindPriority, KindSelect, KindReset,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Event is one user input fed into a session.
// Fields mirror the OpenAPI schema for /sessions/{id}/events.
type Event struct {
	EventID string    // optional id for idempotency
	Kind    Kind      // what the event changes
	Value   string    // new value; vehicle id for select
	Slot    string    // "a" or "b", only for select
	TS      time.Time // receive time
}

// Immediate reports whether the event is applied without debouncing.
func (e Event) Immediate() bool {
	return e.Kind != KindSearch
}
