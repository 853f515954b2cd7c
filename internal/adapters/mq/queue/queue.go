// Package queue provides the bounded inbox that feeds a session controller.
package queue

import (
	"context"
	"sync"

	"github.com/okian/versus/pkg/metrics"
)

// DefaultCapacity is the inbox size used when none is configured.
const DefaultCapacity = 64

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds an item without blocking. It returns ErrFull when the
	// buffer is full and ErrClosed after Close.
	Enqueue(ctx context.Context, item T) error

	// Dequeue returns the receive side. It is closed by Close.
	Dequeue() <-chan T

	// Len returns the number of buffered items.
	Len() int

	// Close stops accepting items. Buffered items remain readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	items    chan T
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	cfg := config{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &InMemoryQueue[T]{
		items:    make(chan T, cfg.capacity),
		capacity: cfg.capacity,
	}
}

// Enqueue adds an item to the queue.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordInboxEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordInboxEnqueueError("context_cancelled")
		return err
	}

	select {
	case q.items <- item:
		metrics.RecordInboxEnqueue()
		return nil
	default:
		metrics.RecordInboxEnqueueError("full")
		metrics.RecordErrorByComponent("inbox", "full")
		return ErrFull
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue[T]) Dequeue() <-chan T {
	return q.items
}

// Len returns the current number of queued items.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.items)
}

// Cap returns the configured capacity.
func (q *InMemoryQueue[T]) Cap() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
