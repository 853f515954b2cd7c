// Package compare ties the filter, ranking, selection and summary steps into
// a single recompute over an explicit, immutable state.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/model"
	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/selection"
	"github.com/okian/versus/internal/domain/summary"
	"github.com/okian/versus/internal/domain/vehicle"
)

// ErrInvalidEvent is returned by Apply for events it cannot interpret.
var ErrInvalidEvent = errors.New("invalid event")

// State is everything a recompute depends on besides the catalog.
type State struct {
	Criteria  filter.Criteria
	Priority  ranking.Key
	Selection selection.State
}

// DefaultState matches every vehicle, ranks by total score, and lets both
// slots follow the ranking.
func DefaultState() State {
	return State{
		Criteria: filter.Default(),
		Priority: ranking.Total,
	}
}

// Apply returns the state after ev. st is never modified.
func Apply(st State, ev model.Event) (State, error) {
	switch ev.Kind {
	case model.KindBudget:
		b, err := filter.ParseBudget(ev.Value)
		if err != nil {
			return st, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		st.Criteria.Budget = b
	case model.KindUsage:
		st.Criteria.Usage = ev.Value
	case model.KindFuel:
		st.Criteria.Fuel = ev.Value
	case model.KindTransmission:
		st.Criteria.Transmission = ev.Value
	case model.KindSearch:
		st.Criteria.Search = ev.Value
	case model.KindPriority:
		k, err := ranking.ParseKey(ev.Value)
		if err != nil {
			return st, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		st.Priority = k
	case model.KindSelect:
		slot, err := selection.ParseSlot(ev.Slot)
		if err != nil {
			return st, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		st.Selection = st.Selection.With(slot, selection.Explicit(ev.Value))
	case model.KindReset:
		return DefaultState(), nil
	default:
		return st, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
	}
	st.Criteria = st.Criteria.Normalize()
	return st, nil
}

// Result is the output of one recompute. A and B point into Ranked.
type Result struct {
	Ranked  []vehicle.Vehicle
	A       *vehicle.Vehicle
	B       *vehicle.Vehicle
	Summary summary.View
	// State is the input state with choices of unknown ids cleared.
	State State
}

// Engine runs recomputes against one catalog. It is immutable and safe for
// concurrent use.
type Engine struct {
	catalog *vehicle.Catalog
	money   summary.Money
}

// NewEngine binds a catalog and a money collaborator. money may be nil.
func NewEngine(catalog *vehicle.Catalog, money summary.Money) *Engine {
	return &Engine{catalog: catalog, money: money}
}

// Catalog returns the bound catalog.
func (e *Engine) Catalog() *vehicle.Catalog {
	return e.catalog
}

// Filter returns the vehicles matching c ranked by key.
func (e *Engine) Filter(c filter.Criteria, key ranking.Key) []vehicle.Vehicle {
	return ranking.Rank(filter.Apply(e.catalog.All(), c), key)
}

// Recompute runs filter, rank, selection and summary for st.
func (e *Engine) Recompute(st State) Result {
	ranked := e.Filter(st.Criteria, st.Priority)
	st.Selection = e.known(st.Selection)
	sel := selection.Resolve(ranked, st.Selection)
	return Result{
		Ranked:  ranked,
		A:       sel.A,
		B:       sel.B,
		Summary: summary.Summarize(sel.A, sel.B, st.Priority, e.money),
		State:   st,
	}
}

// known drops explicit choices naming ids the catalog does not have.
func (e *Engine) known(st selection.State) selection.State {
	for _, slot := range []selection.Slot{selection.SlotA, selection.SlotB} {
		if c := st.Get(slot); !c.IsAuto() && e.catalog.Position(c.ID) < 0 {
			st = st.With(slot, selection.Auto())
		}
	}
	return st
}

// Compare summarizes two catalog vehicles by id, outside any session. Unknown
// ids are treated as unset.
func (e *Engine) Compare(idA, idB string, key ranking.Key) (a, b *vehicle.Vehicle, view summary.View) {
	if v, ok := e.catalog.Get(strings.TrimSpace(idA)); ok {
		a = &v
	}
	if v, ok := e.catalog.Get(strings.TrimSpace(idB)); ok {
		b = &v
	}
	return a, b, summary.Summarize(a, b, key, e.money)
}
