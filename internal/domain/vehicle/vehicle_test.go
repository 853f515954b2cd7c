package vehicle

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func valid(id string) Vehicle {
	return Vehicle{
		ID: id, Brand: "Seat", Model: "Ibiza",
		Fuel: "gasoline", FuelLabel: "Gasolina",
		Transmission: "manual", TransmissionLabel: "Manual",
		Tags:  []Usage{"city", "firstcar"},
		Price: 15000, Consumption: 5.2, Boot: 355, YearlyCost: 1400,
		TotalScore: 7.6, SafetyScore: 7.8, EconomyScore: 8.1, ComfortScore: 6.9,
	}
}

func TestVehicle(t *testing.T) {
	Convey("Given a valid vehicle", t, func() {
		v := valid("ibiza")

		Convey("Then it should validate and expose its name and tags", func() {
			So(v.Validate(), ShouldBeNil)
			So(v.Name(), ShouldEqual, "Seat Ibiza")
			So(v.HasTag("city"), ShouldBeTrue)
			So(v.HasTag("family"), ShouldBeFalse)
		})

		Convey("When an invariant is broken", func() {
			cases := map[string]func(*Vehicle){
				"missing id":       func(v *Vehicle) { v.ID = " " },
				"missing brand":    func(v *Vehicle) { v.Brand = "" },
				"missing model":    func(v *Vehicle) { v.Model = "" },
				"negative price":   func(v *Vehicle) { v.Price = -1 },
				"nan consumption":  func(v *Vehicle) { v.Consumption = math.NaN() },
				"score above ten":  func(v *Vehicle) { v.SafetyScore = 10.5 },
				"negative score":   func(v *Vehicle) { v.ComfortScore = -0.1 },
				"nan total score":  func(v *Vehicle) { v.TotalScore = math.NaN() },
				"negative boot":    func(v *Vehicle) { v.Boot = -5 },
				"negative running": func(v *Vehicle) { v.YearlyCost = -5 },
				"infinite price":   func(v *Vehicle) { v.Price = math.Inf(1) },
				"infinite boot":    func(v *Vehicle) { v.Boot = math.Inf(-1) },
			}

			Convey("Then Validate should report ErrInvalidVehicle", func() {
				for _, mutate := range cases {
					bad := valid("x")
					mutate(&bad)
					err := bad.Validate()
					So(err, ShouldNotBeNil)
					So(errors.Is(err, ErrInvalidVehicle), ShouldBeTrue)
				}
			})
		})

		Convey("When several fields are broken", func() {
			v.Price = -1
			v.YearlyCost = math.Inf(1)
			v.TotalScore = 11
			v.ComfortScore = -1

			Convey("Then the first field in declaration order should be reported every time", func() {
				for i := 0; i < 20; i++ {
					So(v.Validate().Error(), ShouldContainSubstring, "price must be finite")
				}
			})
		})

		Convey("When scores sit on the bounds", func() {
			v.TotalScore, v.SafetyScore = 0, 10

			Convey("Then they should be accepted", func() {
				So(v.Validate(), ShouldBeNil)
			})
		})
	})
}

func TestScoreLabel(t *testing.T) {
	Convey("Given scores across the scale", t, func() {
		Convey("Then each threshold should map to its label", func() {
			So(ScoreLabel(10), ShouldEqual, "Excelente")
			So(ScoreLabel(9), ShouldEqual, "Excelente")
			So(ScoreLabel(8.99), ShouldEqual, "Muy bueno")
			So(ScoreLabel(8), ShouldEqual, "Muy bueno")
			So(ScoreLabel(7), ShouldEqual, "Bueno")
			So(ScoreLabel(6), ShouldEqual, "Aceptable")
			So(ScoreLabel(5.99), ShouldEqual, "Por debajo de la media")
			So(ScoreLabel(0), ShouldEqual, "Por debajo de la media")
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given a list of vehicles", t, func() {
		second := valid("leon")
		second.Model = "Leon"
		second.Fuel, second.FuelLabel = "diesel", "Diésel"
		second.Tags = []Usage{"family", "city"}
		vs := []Vehicle{valid("ibiza"), second}

		Convey("When building a catalog", func() {
			c, err := NewCatalog(vs)
			So(err, ShouldBeNil)

			Convey("Then lookups should use catalog order", func() {
				So(c.Len(), ShouldEqual, 2)
				So(c.Position("leon"), ShouldEqual, 1)
				So(c.Position("ghost"), ShouldEqual, -1)
				got, ok := c.Get("ibiza")
				So(ok, ShouldBeTrue)
				So(got.Model, ShouldEqual, "Ibiza")
				_, ok = c.Get("ghost")
				So(ok, ShouldBeFalse)
			})

			Convey("Then mutating the input should not affect the catalog", func() {
				vs[0].Brand = "Changed"
				vs[0].Tags[0] = "roadtrip"
				got, _ := c.Get("ibiza")
				So(got.Brand, ShouldEqual, "Seat")
				So(got.HasTag("city"), ShouldBeTrue)
			})

			Convey("Then All should return a copy", func() {
				all := c.All()
				all[0].Brand = "Changed"
				got, _ := c.Get("ibiza")
				So(got.Brand, ShouldEqual, "Seat")
			})

			Convey("Then facets should be distinct in first-seen order", func() {
				So(c.Fuels(), ShouldResemble, []Facet{{Value: "gasoline", Label: "Gasolina"}, {Value: "diesel", Label: "Diésel"}})
				So(c.Transmissions(), ShouldResemble, []Facet{{Value: "manual", Label: "Manual"}})
				So(c.Usages(), ShouldResemble, []Usage{"city", "firstcar", "family"})
			})
		})

		Convey("When ids collide", func() {
			_, err := NewCatalog([]Vehicle{valid("a"), valid("a")})

			Convey("Then ErrDuplicateID should be returned", func() {
				So(errors.Is(err, ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When a record is invalid", func() {
			bad := valid("b")
			bad.Price = -3
			_, err := NewCatalog([]Vehicle{valid("a"), bad})

			Convey("Then the catalog should be rejected", func() {
				So(errors.Is(err, ErrInvalidVehicle), ShouldBeTrue)
			})
		})

		Convey("When the list is empty", func() {
			c, err := NewCatalog(nil)

			Convey("Then an empty catalog should be valid", func() {
				So(err, ShouldBeNil)
				So(c.Len(), ShouldEqual, 0)
				So(c.All(), ShouldBeEmpty)
			})
		})
	})
}
