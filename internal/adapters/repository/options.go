package repository

import "time"

// SessionOption applies a configuration option to a SessionStore.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) SessionOption {
	return func(c *sessionConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity caps the number of live sessions. Zero or less is unbounded.
func WithCapacity(n int) SessionOption {
	return func(c *sessionConfig) {
		c.capacity = n
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(c *sessionConfig) {
		if now != nil {
			c.now = now
		}
	}
}
