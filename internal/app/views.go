package service

import (
	"github.com/okian/versus/internal/adapters/mq/worker"
	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/selection"
	"github.com/okian/versus/internal/domain/types"
	"github.com/okian/versus/internal/domain/vehicle"
)

var usageLabels = map[vehicle.Usage]string{
	"city":     "Ciudad",
	"family":   "Familia",
	"roadtrip": "Viajes",
	"firstcar": "Primer coche",
}

const (
	anyUsageLabel        = "Cualquier uso"
	anyFuelLabel         = "Cualquier combustible"
	anyTransmissionLabel = "Cualquier cambio"
)

func buildFacets(c *vehicle.Catalog) types.Facets {
	f := types.Facets{
		Usages:        []types.Option{{Value: filter.Any, Label: anyUsageLabel}},
		Fuels:         []types.Option{{Value: filter.Any, Label: anyFuelLabel}},
		Transmissions: []types.Option{{Value: filter.Any, Label: anyTransmissionLabel}},
	}
	for _, b := range filter.Budgets() {
		f.Budgets = append(f.Budgets, types.Option{Value: string(b), Label: b.Label()})
	}
	for _, u := range c.Usages() {
		label, ok := usageLabels[u]
		if !ok {
			label = string(u)
		}
		f.Usages = append(f.Usages, types.Option{Value: string(u), Label: label})
	}
	for _, fc := range c.Fuels() {
		f.Fuels = append(f.Fuels, types.Option(fc))
	}
	for _, fc := range c.Transmissions() {
		f.Transmissions = append(f.Transmissions, types.Option(fc))
	}
	for _, k := range ranking.Keys() {
		f.Priorities = append(f.Priorities, types.Option{Value: k.String(), Label: k.Label()})
	}
	return f
}

// entry renders v for display. rank 0 means unranked.
func (s *Service) entry(v *vehicle.Vehicle, rank int) types.VehicleEntry {
	tags := make([]string, len(v.Tags))
	for i, t := range v.Tags {
		tags[i] = string(t)
	}
	return types.VehicleEntry{
		Rank:              rank,
		ID:                v.ID,
		Brand:             v.Brand,
		Model:             v.Model,
		Name:              v.Name(),
		Segment:           v.Segment,
		Fuel:              string(v.Fuel),
		FuelLabel:         v.FuelLabel,
		Transmission:      string(v.Transmission),
		TransmissionLabel: v.TransmissionLabel,
		Tags:              tags,
		TagsLabel:         v.TagsLabel,
		Highlight:         v.Highlight,
		Budget:            string(filter.BucketOf(v.Price)),
		Price:             v.Price,
		PriceDisplay:      s.money.FormatBase(v.Price),
		MonthlyDisplay:    s.money.Format(s.money.Monthly(v.Price)),
		Consumption:       v.Consumption,
		Boot:              v.Boot,
		YearlyCost:        v.YearlyCost,
		YearlyCostDisplay: s.money.FormatBase(v.YearlyCost),
		TotalScore:        v.TotalScore,
		SafetyScore:       v.SafetyScore,
		EconomyScore:      v.EconomyScore,
		ComfortScore:      v.ComfortScore,
		ScoreLabel:        vehicle.ScoreLabel(v.TotalScore),
	}
}

func (s *Service) entryPtr(v *vehicle.Vehicle) *types.VehicleEntry {
	if v == nil {
		return nil
	}
	e := s.entry(v, 0)
	return &e
}

func (s *Service) slotView(slot selection.Slot, choice selection.Choice, v *vehicle.Vehicle, ranked []vehicle.Vehicle) types.SlotView {
	mode := types.ModeAuto
	if choice.Holds(v) {
		mode = types.ModeExplicit
	}
	view := types.SlotView{Slot: string(slot), Label: slot.Label(), Mode: mode}
	if v != nil {
		view.Vehicle = s.entryPtr(v)
		for i := range ranked {
			if ranked[i].ID == v.ID {
				view.Vehicle.Rank = i + 1
				break
			}
		}
	}
	return view
}

func (s *Service) sessionView(id string, snap worker.Snapshot) types.SessionView {
	res := snap.Result
	st := res.State
	results := make([]types.VehicleEntry, len(res.Ranked))
	for i := range res.Ranked {
		results[i] = s.entry(&res.Ranked[i], i+1)
	}

	view := types.SessionView{
		SessionID: id,
		Revision:  snap.Revision,
		Criteria: types.CriteriaView{
			Budget:       string(st.Criteria.Budget),
			Usage:        st.Criteria.Usage,
			Fuel:         st.Criteria.Fuel,
			Transmission: st.Criteria.Transmission,
			Search:       st.Criteria.Search,
			Priority:     st.Priority.String(),
		},
		Count:   len(results),
		Results: results,
		A:       s.slotView(selection.SlotA, st.Selection.A, res.A, res.Ranked),
		B:       s.slotView(selection.SlotB, st.Selection.B, res.B, res.Ranked),
		Summary: res.Summary,
	}
	if snap.HasPending {
		q := snap.PendingSearch
		view.PendingSearch = &q
	}
	return view
}
