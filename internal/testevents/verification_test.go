package testevents

import (
	"testing"

	"github.com/okian/versus/internal/domain/summary"
	"github.com/okian/versus/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(id string, rank int, total, safety float64) types.VehicleEntry {
	return types.VehicleEntry{ID: id, Rank: rank, TotalScore: total, SafetyScore: safety}
}

func validView() types.SessionView {
	results := []types.VehicleEntry{
		entry("tesla", 1, 8.8, 9.0),
		entry("skoda", 2, 8.5, 8.6),
		entry("clio", 3, 7.3, 7.5),
	}
	return types.SessionView{
		SessionID: "s1",
		Criteria:  types.CriteriaView{Priority: "totalScore"},
		Count:     len(results),
		Results:   results,
		A:         types.SlotView{Slot: "a", Mode: types.ModeAuto, Vehicle: &results[0]},
		B:         types.SlotView{Slot: "b", Mode: types.ModeAuto, Vehicle: &results[1]},
		Summary:   summary.View{Available: true},
	}
}

func TestVerifyView(t *testing.T) {
	Convey("Given a consistent session view", t, func() {
		v := validView()

		Convey("Then no problems should be reported", func() {
			So(VerifyView(&v), ShouldBeEmpty)
			So(VerifySettled(&v), ShouldBeEmpty)
		})

		Convey("When the count disagrees with the results", func() {
			v.Count = 5

			Convey("Then it should be reported", func() {
				problems := VerifyView(&v)
				So(problems, ShouldHaveLength, 1)
				So(problems[0], ShouldContainSubstring, "count 5")
			})
		})

		Convey("When results are out of order for the priority", func() {
			v.Criteria.Priority = "safety"
			v.Results[2].SafetyScore = 9.5

			Convey("Then the ordering violation should be reported", func() {
				problems := VerifyView(&v)
				So(problems, ShouldNotBeEmpty)
				So(problems[0], ShouldContainSubstring, "not sorted by safetyScore")
			})
		})

		Convey("When an auto slot does not follow the ranking", func() {
			v.B.Vehicle = &v.Results[2]

			Convey("Then the slot should be reported", func() {
				problems := VerifyView(&v)
				So(problems, ShouldHaveLength, 1)
				So(problems[0], ShouldContainSubstring, "auto slot b holds clio, want skoda")
			})
		})

		Convey("When an explicit slot holds any listed vehicle", func() {
			v.B = types.SlotView{Slot: "b", Mode: types.ModeExplicit, Vehicle: &v.Results[2]}

			Convey("Then it should be accepted", func() {
				So(VerifyView(&v), ShouldBeEmpty)
			})
		})

		Convey("When a slot holds a vehicle outside the results", func() {
			other := entry("zoe", 0, 7.7, 7.0)
			v.A = types.SlotView{Slot: "a", Mode: types.ModeExplicit, Vehicle: &other}

			Convey("Then it should be reported", func() {
				problems := VerifyView(&v)
				So(problems, ShouldHaveLength, 1)
				So(problems[0], ShouldContainSubstring, "not in the results")
			})
		})

		Convey("When the summary is missing", func() {
			v.Summary.Available = false

			Convey("Then it should be reported", func() {
				So(VerifyView(&v), ShouldHaveLength, 1)
			})
		})

		Convey("When a search is still pending after settling", func() {
			q := "to"
			v.PendingSearch = &q

			Convey("Then only the settled check should complain", func() {
				So(VerifyView(&v), ShouldBeEmpty)
				So(VerifySettled(&v), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a view with a single result", t, func() {
		v := validView()
		v.Results = v.Results[:1]
		v.Count = 1
		v.B.Vehicle = &v.Results[0]
		v.A.Vehicle = &v.Results[0]

		Convey("Then both slots may hold the same vehicle", func() {
			So(VerifyView(&v), ShouldBeEmpty)
		})
	})

	Convey("Given an empty view", t, func() {
		v := types.SessionView{Criteria: types.CriteriaView{Priority: "totalScore"}}

		Convey("Then empty slots and no summary should be accepted", func() {
			So(VerifyView(&v), ShouldBeEmpty)
		})

		Convey("When a slot still holds a vehicle", func() {
			e := entry("tesla", 0, 8.8, 9)
			v.A.Vehicle = &e
			v.Summary.Available = true

			Convey("Then both problems should be reported", func() {
				So(VerifyView(&v), ShouldHaveLength, 2)
			})
		})
	})
}
