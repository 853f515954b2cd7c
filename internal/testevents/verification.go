package testevents

import (
	"fmt"

	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/types"
)

// VerifyView checks the invariants every session view must hold and returns
// one message per violation.
func VerifyView(v *types.SessionView) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if v.Count != len(v.Results) {
		report("count %d does not match %d results", v.Count, len(v.Results))
	}

	key, err := ranking.ParseKey(v.Criteria.Priority)
	if err != nil {
		report("unknown priority %q", v.Criteria.Priority)
	}
	for i := 1; i < len(v.Results); i++ {
		prev, cur := scoreOf(&v.Results[i-1], key), scoreOf(&v.Results[i], key)
		if cur > prev {
			report("results not sorted by %s: %s (%.1f) after %s (%.1f)",
				key, v.Results[i].ID, cur, v.Results[i-1].ID, prev)
		}
	}
	for i := range v.Results {
		if v.Results[i].Rank != 0 && v.Results[i].Rank != i+1 {
			report("result %s has rank %d at position %d", v.Results[i].ID, v.Results[i].Rank, i+1)
		}
	}

	if len(v.Results) == 0 {
		if v.A.Vehicle != nil || v.B.Vehicle != nil {
			report("empty result set but a slot holds a vehicle")
		}
		if v.Summary.Available {
			report("summary available without vehicles")
		}
		return problems
	}

	defaultB := v.Results[min(1, len(v.Results)-1)].ID
	problems = append(problems, verifySlot(&v.A, v.Results, v.Results[0].ID)...)
	problems = append(problems, verifySlot(&v.B, v.Results, defaultB)...)
	if !v.Summary.Available {
		report("summary unavailable with %d results", len(v.Results))
	}
	return problems
}

// VerifySettled checks a view read after the debounce window elapsed.
func VerifySettled(v *types.SessionView) []string {
	problems := VerifyView(v)
	if v.PendingSearch != nil {
		problems = append(problems, fmt.Sprintf("search %q still pending after settle", *v.PendingSearch))
	}
	return problems
}

func verifySlot(s *types.SlotView, results []types.VehicleEntry, fallback string) []string {
	if s.Vehicle == nil {
		return []string{fmt.Sprintf("slot %s is empty with %d results", s.Slot, len(results))}
	}
	var problems []string
	if !contains(results, s.Vehicle.ID) {
		problems = append(problems, fmt.Sprintf("slot %s holds %s which is not in the results", s.Slot, s.Vehicle.ID))
	}
	if s.Mode == types.ModeAuto && s.Vehicle.ID != fallback {
		problems = append(problems, fmt.Sprintf("auto slot %s holds %s, want %s", s.Slot, s.Vehicle.ID, fallback))
	}
	return problems
}

func contains(results []types.VehicleEntry, id string) bool {
	for i := range results {
		if results[i].ID == id {
			return true
		}
	}
	return false
}

func scoreOf(e *types.VehicleEntry, k ranking.Key) float64 {
	switch k {
	case ranking.Safety:
		return e.SafetyScore
	case ranking.Economy:
		return e.EconomyScore
	case ranking.Comfort:
		return e.ComfortScore
	default:
		return e.TotalScore
	}
}
