package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/versus/pkg/metrics"
)

// Default session limits.
const (
	DefaultSessionTTL      = 30 * time.Minute
	DefaultSessionCapacity = 10000
)

type sessionEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionStore keeps live sessions in memory with an idle TTL.
type SessionStore[T any] struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry[T]
	cfg     sessionConfig
}

// NewSessionStore creates an empty store.
func NewSessionStore[T any](opts ...SessionOption) *SessionStore[T] {
	cfg := sessionConfig{
		ttl:      DefaultSessionTTL,
		capacity: DefaultSessionCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SessionStore[T]{
		entries: make(map[string]*sessionEntry[T]),
		cfg:     cfg,
	}
}

// Put stores value under id. It returns ErrCapacity when the store is full
// and id is not already present.
func (s *SessionStore[T]) Put(_ context.Context, id string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok && s.cfg.capacity > 0 && len(s.entries) >= s.cfg.capacity {
		return ErrCapacity
	}
	s.entries[id] = &sessionEntry[T]{value: value, lastSeen: s.cfg.now()}
	metrics.UpdateSessionsActive(len(s.entries))
	return nil
}

// Get returns the session and refreshes its idle timer.
func (s *SessionStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		var zero T
		return zero, ErrSessionNotFound
	}
	e.lastSeen = s.cfg.now()
	return e.value, nil
}

// Delete removes the session and returns it.
func (s *SessionStore[T]) Delete(_ context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	delete(s.entries, id)
	metrics.UpdateSessionsActive(len(s.entries))
	return e.value, nil
}

// Sweep removes expired sessions and returns them so the caller can release
// their resources.
func (s *SessionStore[T]) Sweep(_ context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []T
	for id, e := range s.entries {
		if s.expired(e) {
			out = append(out, e.value)
			delete(s.entries, id)
			metrics.RecordSessionExpired()
		}
	}
	metrics.UpdateSessionsActive(len(s.entries))
	return out
}

// Drain removes and returns every session.
func (s *SessionStore[T]) Drain(_ context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.value)
	}
	s.entries = make(map[string]*sessionEntry[T])
	metrics.UpdateSessionsActive(0)
	return out
}

// Count returns the number of stored sessions, expired ones included until
// the next sweep.
func (s *SessionStore[T]) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTL returns the idle timeout.
func (s *SessionStore[T]) TTL() time.Duration {
	return s.cfg.ttl
}

func (s *SessionStore[T]) expired(e *sessionEntry[T]) bool {
	return s.cfg.now().Sub(e.lastSeen) > s.cfg.ttl
}
