package testevents

import (
	"time"

	"github.com/okian/versus/internal/domain/types"
)

// Config holds configuration for the session smoke test
type Config struct {
	BaseURL          string        // Base URL of the service
	Sessions         int           // Number of sessions to drive
	EventsPerSession int           // Events fired into each session
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	Settle           time.Duration // Wait before reading the final view
	Seed             uint64        // Random seed, zero picks one
	OutputFile       string        // Output file for the event log
	LogFile          string        // Log file for test output
	Verbose          bool          // Enable verbose logging
}

// Catalog is what the generator draws event values from.
type Catalog struct {
	Facets types.Facets
	IDs    []string
	Names  []string
}

// SessionLog records what was sent to one session.
type SessionLog struct {
	SessionID string               `json:"session_id"`
	Events    []types.EventRequest `json:"events"`
	Final     *types.SessionView   `json:"final,omitempty"`
	Problems  []string             `json:"problems,omitempty"`
}

// Stats holds test statistics
type Stats struct {
	SessionsCreated   int
	SessionsFailed    int
	EventsSubmitted   int
	EventsAccepted    int
	EventsDuplicate   int
	EventsRateLimited int
	EventsFailed      int
	ViewsVerified     int
	Violations        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

func (s *Stats) add(o Stats) {
	s.SessionsCreated += o.SessionsCreated
	s.SessionsFailed += o.SessionsFailed
	s.EventsSubmitted += o.EventsSubmitted
	s.EventsAccepted += o.EventsAccepted
	s.EventsDuplicate += o.EventsDuplicate
	s.EventsRateLimited += o.EventsRateLimited
	s.EventsFailed += o.EventsFailed
	s.ViewsVerified += o.ViewsVerified
	s.Violations += o.Violations
}
