package summary

import (
	"fmt"
	"math"
	"testing"

	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/vehicle"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeMoney struct{ rate float64 }

func (f fakeMoney) Convert(base float64) float64 { return math.Round(base * f.rate) }
func (f fakeMoney) Format(display float64) string { return fmt.Sprintf("$ %.0f", display) }

func pillOf(v View, k PillKind) (Pill, bool) {
	for _, p := range v.Pills {
		if p.Kind == k {
			return p, true
		}
	}
	return Pill{}, false
}

func TestSummarizeUnavailable(t *testing.T) {
	Convey("Given a missing vehicle", t, func() {
		v1 := &vehicle.Vehicle{ID: "v1", Brand: "Seat", Model: "Leon"}

		Convey("When either side is nil", func() {
			left := Summarize(nil, v1, ranking.Total, fakeMoney{1})
			right := Summarize(v1, nil, ranking.Safety, fakeMoney{1})

			Convey("Then the unavailable variant should be returned", func() {
				for _, view := range []View{left, right} {
					So(view.Available, ShouldBeFalse)
					So(view.Title, ShouldEqual, EmptyTitle)
					So(view.Subtitle, ShouldEqual, EmptySubtitle)
					So(view.OverallWinner, ShouldEqual, SideNone)
					So(view.Pills, ShouldBeEmpty)
				}
				So(right.Priority, ShouldEqual, ranking.Safety)
			})
		})
	})
}

func TestSummarizeScenario(t *testing.T) {
	Convey("Given two vehicles with equal total score", t, func() {
		v1 := &vehicle.Vehicle{ID: "v1", Brand: "Volvo", Model: "XC40", Price: 20000, TotalScore: 8.0, SafetyScore: 9.0, EconomyScore: 6.0}
		v2 := &vehicle.Vehicle{ID: "v2", Brand: "Kia", Model: "Niro", Price: 18000, TotalScore: 8.0, SafetyScore: 8.0, EconomyScore: 7.5}

		Convey("When summarizing by total score", func() {
			view := Summarize(v1, v2, ranking.Total, fakeMoney{4500})

			Convey("Then the overall verdict should be a tie", func() {
				So(view.Available, ShouldBeTrue)
				So(view.OverallWinner, ShouldEqual, SideNone)
				So(view.Title, ShouldEqual, TieTitle)
				So(view.PriorityWinner, ShouldEqual, SideNone)
				So(view.Subtitle, ShouldEqual, PriorityTieTitle)
			})

			Convey("Then the price pill should name V2 saving 2000 in display currency", func() {
				p, ok := pillOf(view, PillPrice)
				So(ok, ShouldBeTrue)
				So(p.Side, ShouldEqual, SideB)
				So(p.Tone, ShouldEqual, TonePositive)
				So(p.Amount, ShouldEqual, 9_000_000.0)
				So(p.Text, ShouldEqual, "Kia ahorra $ 9000000")
			})

			Convey("Then the safety pill should name V1", func() {
				p, ok := pillOf(view, PillSafety)
				So(ok, ShouldBeTrue)
				So(p.Side, ShouldEqual, SideA)
				So(p.Text, ShouldEqual, "Volvo ofrece mejor seguridad")
			})

			Convey("Then the economy pill should name V2", func() {
				p, ok := pillOf(view, PillEconomy)
				So(ok, ShouldBeTrue)
				So(p.Side, ShouldEqual, SideB)
				So(p.Text, ShouldEqual, "Kia optimiza mejor el consumo")
			})

			Convey("Then pills should come in price, safety, economy order", func() {
				So(len(view.Pills), ShouldEqual, 3)
				So(view.Pills[0].Kind, ShouldEqual, PillPrice)
				So(view.Pills[1].Kind, ShouldEqual, PillSafety)
				So(view.Pills[2].Kind, ShouldEqual, PillEconomy)
			})
		})

		Convey("When summarizing by safety", func() {
			view := Summarize(v1, v2, ranking.Safety, fakeMoney{4500})

			Convey("Then V1 should win the priority", func() {
				So(view.PriorityWinner, ShouldEqual, SideA)
				So(view.Subtitle, ShouldEqual, "Volvo destaca ligeramente en seguridad, según tus prioridades.")
			})
		})

		Convey("When summarizing by economy with sides swapped", func() {
			view := Summarize(v2, v1, ranking.Economy, fakeMoney{4500})

			Convey("Then the cheaper A side should get a negative price pill", func() {
				p, _ := pillOf(view, PillPrice)
				So(p.Side, ShouldEqual, SideA)
				So(p.Tone, ShouldEqual, ToneNegative)
				So(view.Subtitle, ShouldEqual, "Kia destaca ligeramente en coste total, según tus prioridades.")
			})
		})
	})
}

func TestSummarizeWinnerAndGaps(t *testing.T) {
	Convey("Given vehicles with a clear overall winner", t, func() {
		a := &vehicle.Vehicle{Brand: "Toyota", Model: "Corolla", Price: 25000, TotalScore: 8.6, SafetyScore: 8.3, EconomyScore: 8.0}
		b := &vehicle.Vehicle{Brand: "Ford", Model: "Focus", Price: 25000, TotalScore: 7.9, SafetyScore: 7.8, EconomyScore: 7.6}

		view := Summarize(a, b, ranking.Total, fakeMoney{1})

		Convey("Then the title should name the winner's brand and model", func() {
			So(view.OverallWinner, ShouldEqual, SideA)
			So(view.Title, ShouldEqual, "Toyota Corolla encaja mejor con lo que valoras")
		})

		Convey("Then equal prices should emit no price pill", func() {
			_, ok := pillOf(view, PillPrice)
			So(ok, ShouldBeFalse)
		})

		Convey("Then a gap of exactly 0.5 should emit a safety pill", func() {
			_, ok := pillOf(view, PillSafety)
			So(ok, ShouldBeTrue)
		})

		Convey("Then a gap below 0.5 should emit no economy pill", func() {
			_, ok := pillOf(view, PillEconomy)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given the same vehicle on both sides", t, func() {
		v := &vehicle.Vehicle{Brand: "Dacia", Model: "Sandero", Price: 12000, TotalScore: 7, SafetyScore: 6, EconomyScore: 9}
		view := Summarize(v, v, ranking.Comfort, nil)

		Convey("Then it should be a tie with no pills", func() {
			So(view.Available, ShouldBeTrue)
			So(view.OverallWinner, ShouldEqual, SideNone)
			So(view.PriorityWinner, ShouldEqual, SideNone)
			So(view.Pills, ShouldBeEmpty)
		})
	})

	Convey("Given no money collaborator", t, func() {
		a := &vehicle.Vehicle{Brand: "A", Model: "1", Price: 100}
		b := &vehicle.Vehicle{Brand: "B", Model: "2", Price: 150}
		view := Summarize(a, b, ranking.Total, nil)

		Convey("Then the price pill should use the base amount", func() {
			p, ok := pillOf(view, PillPrice)
			So(ok, ShouldBeTrue)
			So(p.Amount, ShouldEqual, 50.0)
			So(p.Text, ShouldEqual, "A ahorra 50")
		})
	})
}
