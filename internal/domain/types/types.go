// Package types contains common types used across the application
package types

import "github.com/okian/versus/internal/domain/summary"

// Option is a selectable filter value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Facets lists every value the filter controls offer.
type Facets struct {
	Budgets       []Option `json:"budgets"`
	Usages        []Option `json:"usages"`
	Fuels         []Option `json:"fuels"`
	Transmissions []Option `json:"transmissions"`
	Priorities    []Option `json:"priorities"`
}

// VehicleEntry is a vehicle ready for display. Money fields ending in
// Display are formatted in the display currency.
type VehicleEntry struct {
	Rank              int      `json:"rank,omitempty"`
	ID                string   `json:"id"`
	Brand             string   `json:"brand"`
	Model             string   `json:"model"`
	Name              string   `json:"name"`
	Segment           string   `json:"segment"`
	Fuel              string   `json:"fuel"`
	FuelLabel         string   `json:"fuelLabel"`
	Transmission      string   `json:"transmission"`
	TransmissionLabel string   `json:"transmissionLabel"`
	Tags              []string `json:"tags"`
	TagsLabel         string   `json:"tagsLabel"`
	Highlight         string   `json:"highlight"`
	Budget            string   `json:"budget"`

	Price             float64 `json:"price"`
	PriceDisplay      string  `json:"priceDisplay"`
	MonthlyDisplay    string  `json:"monthlyDisplay"`
	Consumption       float64 `json:"consumption"`
	Boot              float64 `json:"boot"`
	YearlyCost        float64 `json:"yearlyCost"`
	YearlyCostDisplay string  `json:"yearlyCostDisplay"`

	TotalScore   float64 `json:"totalScore"`
	SafetyScore  float64 `json:"safetyScore"`
	EconomyScore float64 `json:"economyScore"`
	ComfortScore float64 `json:"comfortScore"`
	ScoreLabel   string  `json:"scoreLabel"`
}

// Slot modes.
const (
	ModeAuto     = "auto"
	ModeExplicit = "explicit"
)

// SlotView is one side of the comparison.
type SlotView struct {
	Slot    string        `json:"slot"`
	Label   string        `json:"label"`
	Mode    string        `json:"mode"`
	Vehicle *VehicleEntry `json:"vehicle,omitempty"`
}

// CriteriaView echoes the committed filter state.
type CriteriaView struct {
	Budget       string `json:"budget"`
	Usage        string `json:"usage"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`
	Search       string `json:"search"`
	Priority     string `json:"priority"`
}

// SessionView is a session snapshot as returned by the API.
type SessionView struct {
	SessionID     string         `json:"session_id"`
	Revision      uint64         `json:"revision"`
	Criteria      CriteriaView   `json:"criteria"`
	PendingSearch *string        `json:"pending_search,omitempty"`
	Count         int            `json:"count"`
	Results       []VehicleEntry `json:"results"`
	A             SlotView       `json:"a"`
	B             SlotView       `json:"b"`
	Summary       summary.View   `json:"summary"`
}

// CompareView is a stateless comparison of two vehicles.
type CompareView struct {
	A       *VehicleEntry `json:"a,omitempty"`
	B       *VehicleEntry `json:"b,omitempty"`
	Summary summary.View  `json:"summary"`
}

// EventRequest is the body of POST /sessions/{id}/events and of websocket
// client messages.
type EventRequest struct {
	EventID string `json:"event_id,omitempty"`
	Kind    string `json:"kind"`
	Value   string `json:"value,omitempty"`
	Slot    string `json:"slot,omitempty"`
}

// EventResponse acknowledges an event.
type EventResponse struct {
	Duplicate bool        `json:"duplicate"`
	View      SessionView `json:"view"`
}

// Push message types sent over the websocket.
const (
	PushView  = "view"
	PushError = "error"
)

// PushMessage is a server-to-client websocket frame.
type PushMessage struct {
	Type  string       `json:"type"`
	View  *SessionView `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}
