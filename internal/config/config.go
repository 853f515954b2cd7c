// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a YAML catalog. Empty uses the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// ExchangeRate converts catalog prices to the display currency.
	ExchangeRate float64 `koanf:"exchange_rate"`

	// CurrencyLocale and CurrencyCode control money formatting.
	CurrencyLocale string `koanf:"currency_locale"`
	CurrencyCode   string `koanf:"currency_code"`

	// MonthlyPaymentFactor is the share of the price shown as a monthly estimate.
	MonthlyPaymentFactor float64 `koanf:"monthly_payment_factor"`

	// SearchDebounceMS is the quiet period before a typed search is committed.
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	// SessionTTLSec is how long an idle session is kept.
	SessionTTLSec int `koanf:"session_ttl_sec"`

	// MaxSessions caps live sessions.
	MaxSessions int `koanf:"max_sessions"`

	// InboxSize bounds each session's event inbox.
	InboxSize int `koanf:"inbox_size"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// EventsPerSecond and EventsBurst shape the per-session token bucket.
	EventsPerSecond float64 `koanf:"events_per_second"`
	EventsBurst     int     `koanf:"events_burst"`

	// OTelServiceName names the HTTP server spans.
	OTelServiceName string `koanf:"otel_service_name"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		ExchangeRate:         4500,
		CurrencyLocale:       "es-CO",
		CurrencyCode:         "COP",
		MonthlyPaymentFactor: 0.022,
		SearchDebounceMS:     150,
		SessionTTLSec:        1800,
		MaxSessions:          10_000,
		InboxSize:            64,
		DedupeSize:           50_000,
		EventsPerSecond:      20,
		EventsBurst:          40,
		OTelServiceName:      "versus",
	}
}

// SearchDebounce returns SearchDebounceMS as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// SessionTTL returns SessionTTLSec as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

// Validate checks ranges and returns the first violation.
func (c *Config) Validate(_ context.Context) error {
	positive := func(name string, v float64) error {
		if math.IsNaN(v) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v)
		}
		return nil
	}

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"exchange_rate", c.ExchangeRate},
		{"monthly_payment_factor", c.MonthlyPaymentFactor},
		{"search_debounce_ms", float64(c.SearchDebounceMS)},
		{"session_ttl_sec", float64(c.SessionTTLSec)},
		{"max_sessions", float64(c.MaxSessions)},
		{"inbox_size", float64(c.InboxSize)},
		{"dedupe_size", float64(c.DedupeSize)},
		{"events_per_second", c.EventsPerSecond},
		{"events_burst", float64(c.EventsBurst)},
	}
	for _, ch := range checks {
		if err := positive(ch.name, ch.v); err != nil {
			return err
		}
	}
	return nil
}
