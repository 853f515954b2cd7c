package service

import (
	"time"

	"github.com/okian/versus/pkg/logger"
	"github.com/okian/versus/pkg/money"
	"golang.org/x/time/rate"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalogPath loads the catalog from a YAML file instead of the
// embedded default.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithMoney sets the currency converter used for display amounts.
func WithMoney(m *money.Converter) Option {
	return func(s *Service) {
		if m != nil {
			s.money = m
		}
	}
}

// WithDebounce sets the search quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithInboxSize sets the per-session event inbox size.
func WithInboxSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.inboxSize = n
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEventRate sets the per-session token bucket.
func WithEventRate(perSecond float64, burst int) Option {
	return func(s *Service) {
		if perSecond > 0 {
			s.eventRate = rate.Limit(perSecond)
		}
		if burst > 0 {
			s.eventBurst = burst
		}
	}
}

// WithJanitorInterval sets how often expired sessions are swept.
func WithJanitorInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.janitorInterval = d
		}
	}
}
