package testevents

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/versus/internal/domain/model"
	"github.com/okian/versus/internal/domain/selection"
	"github.com/okian/versus/internal/domain/types"
)

// Generator produces random session events from the catalog facets.
// It is not safe for concurrent use; each worker owns one.
type Generator struct {
	rnd     *rand.Rand
	catalog Catalog
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(catalog Catalog, seed uint64) *Generator {
	return &Generator{
		rnd:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		catalog: catalog,
	}
}

// Next returns the next batch of events. Most batches hold a single event;
// searches come as one event per keystroke.
func (g *Generator) Next() []types.EventRequest {
	switch n := g.rnd.IntN(weightTotal); {
	case n < weightFilter:
		return []types.EventRequest{g.filterEvent()}
	case n < weightFilter+weightSearch:
		return g.searchBurst()
	case n < weightFilter+weightSearch+weightSelect:
		return []types.EventRequest{g.selectEvent()}
	default:
		return []types.EventRequest{newEvent(model.KindReset, "", "")}
	}
}

func (g *Generator) filterEvent() types.EventRequest {
	f := g.catalog.Facets
	groups := []struct {
		kind    model.Kind
		options []types.Option
	}{
		{model.KindBudget, f.Budgets},
		{model.KindUsage, f.Usages},
		{model.KindFuel, f.Fuels},
		{model.KindTransmission, f.Transmissions},
		{model.KindPriority, f.Priorities},
	}
	grp := groups[g.rnd.IntN(len(groups))]
	if len(grp.options) == 0 {
		return newEvent(model.KindReset, "", "")
	}
	return newEvent(grp.kind, grp.options[g.rnd.IntN(len(grp.options))].Value, "")
}

// searchBurst types a prefix of a vehicle name one character at a time.
func (g *Generator) searchBurst() []types.EventRequest {
	if len(g.catalog.Names) == 0 {
		return []types.EventRequest{newEvent(model.KindSearch, "", "")}
	}
	name := strings.ToLower(g.catalog.Names[g.rnd.IntN(len(g.catalog.Names))])
	runes := []rune(name)
	n := 1 + g.rnd.IntN(min(len(runes), maxBurstChars))

	out := make([]types.EventRequest, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, newEvent(model.KindSearch, string(runes[:i]), ""))
	}
	return out
}

func (g *Generator) selectEvent() types.EventRequest {
	slot := selection.SlotA
	if g.rnd.IntN(2) == 1 {
		slot = selection.SlotB
	}
	if len(g.catalog.IDs) == 0 {
		return newEvent(model.KindReset, "", "")
	}
	return newEvent(model.KindSelect, g.catalog.IDs[g.rnd.IntN(len(g.catalog.IDs))], string(slot))
}

func newEvent(kind model.Kind, value, slot string) types.EventRequest {
	return types.EventRequest{
		EventID: uuid.NewString(),
		Kind:    string(kind),
		Value:   value,
		Slot:    slot,
	}
}
