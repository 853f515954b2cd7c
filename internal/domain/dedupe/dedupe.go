// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID so the event can be retried. Used when an event
	// was recorded but never applied (backpressure, rate limit).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in a map plus a ring of insertion order.
// Bounded mode (maxSize > 0) evicts the oldest id when full.
// Unbounded mode (maxSize <= 0) only uses the map.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> ring slot, -1 in unbounded mode
	ring    []slot
	next    int
	maxSize int
}

type slot struct {
	id   string
	used bool
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]slot, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	if old := d.ring[d.next]; old.used {
		delete(d.seen, old.id)
	}
	d.ring[d.next] = slot{id: id, used: true}
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	if i >= 0 {
		d.ring[i] = slot{}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// Key scopes an event id to a session.
func Key(sessionID, eventID string) string {
	return sessionID + ":" + eventID
}
