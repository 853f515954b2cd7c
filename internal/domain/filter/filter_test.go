package filter

import (
	"errors"
	"testing"

	"github.com/okian/versus/internal/domain/vehicle"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() []vehicle.Vehicle {
	return []vehicle.Vehicle{
		{ID: "ibiza", Brand: "Seat", Model: "Ibiza", Price: 15000, Fuel: "gasoline", Transmission: "manual", Tags: []vehicle.Usage{"city", "firstcar"}},
		{ID: "corolla", Brand: "Toyota", Model: "Corolla Hybrid", Price: 27500, Fuel: "hybrid", Transmission: "automatic", Tags: []vehicle.Usage{"family", "roadtrip"}},
		{ID: "model3", Brand: "Tesla", Model: "Model 3", Price: 30001, Fuel: "electric", Transmission: "automatic", Tags: []vehicle.Usage{"roadtrip"}},
		{ID: "sandero", Brand: "Dacia", Model: "Sandero", Price: 12000, Fuel: "gasoline", Transmission: "manual", Tags: []vehicle.Usage{"city"}},
	}
}

func ids(vs []vehicle.Vehicle) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestParseBudget(t *testing.T) {
	Convey("Given budget strings", t, func() {
		Convey("When parsing wildcards", func() {
			Convey("Then they should map to any", func() {
				for _, s := range []string{"", "any", "all", " ALL "} {
					b, err := ParseBudget(s)
					So(err, ShouldBeNil)
					So(b, ShouldEqual, BudgetAny)
				}
			})
		})

		Convey("When parsing buckets", func() {
			Convey("Then they should round-trip", func() {
				for _, want := range Budgets() {
					b, err := ParseBudget(string(want))
					So(err, ShouldBeNil)
					So(b, ShouldEqual, want)
					So(b.Label(), ShouldNotBeEmpty)
				}
			})
		})

		Convey("When parsing an unknown bucket", func() {
			_, err := ParseBudget("cheap")

			Convey("Then an error should be returned", func() {
				So(errors.Is(err, ErrInvalidBudget), ShouldBeTrue)
			})
		})
	})
}

func TestBucketOf(t *testing.T) {
	Convey("Given prices at the bucket boundaries", t, func() {
		Convey("Then classification should be inclusive on the upper bound", func() {
			So(BucketOf(0), ShouldEqual, BudgetLow)
			So(BucketOf(15000), ShouldEqual, BudgetLow)
			So(BucketOf(15000.01), ShouldEqual, BudgetMid)
			So(BucketOf(30000), ShouldEqual, BudgetMid)
			So(BucketOf(30001), ShouldEqual, BudgetHigh)
		})
	})
}

func TestMatches(t *testing.T) {
	Convey("Given a catalog and criteria", t, func() {
		vs := fixture()

		Convey("When criteria are the defaults", func() {
			Convey("Then every vehicle should match", func() {
				So(ids(Apply(vs, Default())), ShouldResemble, []string{"ibiza", "corolla", "model3", "sandero"})
			})
		})

		Convey("When filtering by budget", func() {
			c := Default()
			c.Budget = BudgetLow

			Convey("Then only vehicles in the bucket should match", func() {
				So(ids(Apply(vs, c)), ShouldResemble, []string{"ibiza", "sandero"})
			})
		})

		Convey("When filtering by usage", func() {
			c := Default()
			c.Usage = "roadtrip"

			Convey("Then only vehicles carrying the tag should match", func() {
				So(ids(Apply(vs, c)), ShouldResemble, []string{"corolla", "model3"})
			})
		})

		Convey("When filtering by fuel and transmission", func() {
			c := Default()
			c.Fuel = "gasoline"
			c.Transmission = "manual"

			Convey("Then both rules should apply", func() {
				So(ids(Apply(vs, c)), ShouldResemble, []string{"ibiza", "sandero"})
			})
		})

		Convey("When searching", func() {
			c := Default()
			c.Search = "  tOYota COR "

			Convey("Then the trimmed query should match brand and model case-insensitively", func() {
				So(ids(Apply(vs, c)), ShouldResemble, []string{"corolla"})
			})
		})

		Convey("When the search is whitespace only", func() {
			c := Default()
			c.Search = "   \t"

			Convey("Then it should not filter anything", func() {
				So(len(Apply(vs, c)), ShouldEqual, len(vs))
			})
		})

		Convey("When criteria use empty and all values", func() {
			c := Criteria{Budget: "all", Usage: "", Fuel: "all"}

			Convey("Then they should act as wildcards", func() {
				So(len(Apply(vs, c)), ShouldEqual, len(vs))
			})
		})

		Convey("When a value matches nothing", func() {
			c := Default()
			c.Fuel = "hydrogen"

			Convey("Then the result should be empty, not nil", func() {
				out := Apply(vs, c)
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestMatchesProperties(t *testing.T) {
	Convey("Given arbitrary criteria", t, func() {
		vs := fixture()
		all := []Criteria{
			Default(),
			{Budget: BudgetMid, Usage: "family"},
			{Fuel: "electric", Search: "tesla"},
			{Transmission: "manual", Search: "a"},
			{Budget: BudgetHigh, Usage: "city"},
		}

		Convey("When matching twice", func() {
			Convey("Then the result should be the same and inputs untouched", func() {
				for _, c := range all {
					before := fixture()
					for i := range vs {
						So(Matches(&vs[i], c), ShouldEqual, Matches(&vs[i], c))
					}
					So(vs, ShouldResemble, before)
				}
			})
		})

		Convey("When filtering an already filtered sequence", func() {
			Convey("Then the sequence should be unchanged", func() {
				for _, c := range all {
					once := Apply(vs, c)
					So(Apply(once, c), ShouldResemble, once)
				}
			})
		})
	})
}
