// Package vehicle holds the immutable vehicle record and the catalog that
// owns the canonical ordering of records.
package vehicle

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Score bounds for the scored attributes.
const (
	MinScore = 0
	MaxScore = 10
)

// ErrInvalidVehicle marks a record that violates the catalog invariants.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// Fuel is a fuel type identifier, e.g. "gasoline".
type Fuel string

// Transmission is a transmission identifier, e.g. "automatic".
type Transmission string

// Usage is a usage tag, e.g. "city".
type Usage string

// Vehicle is one catalog record. Prices are in the base currency.
type Vehicle struct {
	ID                string       `yaml:"id" json:"id"`
	Brand             string       `yaml:"brand" json:"brand"`
	Model             string       `yaml:"model" json:"model"`
	Segment           string       `yaml:"segment" json:"segment"`
	Fuel              Fuel         `yaml:"fuel" json:"fuel"`
	FuelLabel         string       `yaml:"fuelLabel" json:"fuelLabel"`
	Transmission      Transmission `yaml:"transmission" json:"transmission"`
	TransmissionLabel string       `yaml:"transmissionLabel" json:"transmissionLabel"`
	Tags              []Usage      `yaml:"tags" json:"tags"`
	TagsLabel         string       `yaml:"tagsLabel" json:"tagsLabel"`
	Highlight         string       `yaml:"highlight" json:"highlight"`

	Price       float64 `yaml:"price" json:"price"`
	Consumption float64 `yaml:"consumption" json:"consumption"`
	Boot        float64 `yaml:"boot" json:"boot"`
	YearlyCost  float64 `yaml:"yearlyCost" json:"yearlyCost"`

	TotalScore   float64 `yaml:"totalScore" json:"totalScore"`
	SafetyScore  float64 `yaml:"safetyScore" json:"safetyScore"`
	EconomyScore float64 `yaml:"economyScore" json:"economyScore"`
	ComfortScore float64 `yaml:"comfortScore" json:"comfortScore"`
}

// Name is the "brand model" string used for display and search.
func (v *Vehicle) Name() string {
	return v.Brand + " " + v.Model
}

// HasTag reports whether the vehicle carries usage tag u.
func (v *Vehicle) HasTag(u Usage) bool {
	for _, t := range v.Tags {
		if t == u {
			return true
		}
	}
	return false
}

// Validate checks the record invariants.
func (v *Vehicle) Validate() error {
	switch {
	case strings.TrimSpace(v.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidVehicle)
	case strings.TrimSpace(v.Brand) == "":
		return fmt.Errorf("%w %s: missing brand", ErrInvalidVehicle, v.ID)
	case strings.TrimSpace(v.Model) == "":
		return fmt.Errorf("%w %s: missing model", ErrInvalidVehicle, v.ID)
	}

	type field struct {
		name string
		val  float64
	}
	for _, f := range []field{
		{"price", v.Price},
		{"consumption", v.Consumption},
		{"boot", v.Boot},
		{"yearlyCost", v.YearlyCost},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) || f.val < 0 {
			return fmt.Errorf("%w %s: %s must be finite and non-negative, got %v", ErrInvalidVehicle, v.ID, f.name, f.val)
		}
	}

	for _, f := range []field{
		{"totalScore", v.TotalScore},
		{"safetyScore", v.SafetyScore},
		{"economyScore", v.EconomyScore},
		{"comfortScore", v.ComfortScore},
	} {
		if math.IsNaN(f.val) || f.val < MinScore || f.val > MaxScore {
			return fmt.Errorf("%w %s: %s must be within [0,10], got %v", ErrInvalidVehicle, v.ID, f.name, f.val)
		}
	}
	return nil
}

// ScoreLabel maps a 0-10 score to its qualitative label.
func ScoreLabel(score float64) string {
	switch {
	case score >= 9:
		return "Excelente"
	case score >= 8:
		return "Muy bueno"
	case score >= 7:
		return "Bueno"
	case score >= 6:
		return "Aceptable"
	default:
		return "Por debajo de la media"
	}
}
