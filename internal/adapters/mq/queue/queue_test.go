package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/versus/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[model.Event](WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Enqueue(ctx, model.Event{EventID: "event1", Kind: model.KindBudget, Value: "low"}); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	event := <-q.Dequeue()
	if event.EventID != "event1" {
		t.Errorf("expected event1, got %v", event.EventID)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(0))
	if c := q.Cap(); c != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, c)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue[model.Event](WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"event1", "event2"} {
		if err := q.Enqueue(ctx, model.Event{EventID: id}); err != nil {
			t.Errorf("expected enqueue to succeed, got %v", err)
		}
	}

	if err := q.Enqueue(ctx, model.Event{EventID: "event3"}); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue[model.Event](WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numEvents := 100

	var producers sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for j := 0; j < numEvents; j++ {
				event := model.Event{EventID: fmt.Sprintf("event%d_%d", id, j), Kind: model.KindSearch}
				for q.Enqueue(ctx, event) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	consumed := make(chan int)
	go func() {
		n := 0
		for range q.Dequeue() {
			n++
		}
		consumed <- n
	}()

	producers.Wait()
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case n := <-consumed:
		if n != numGoroutines*numEvents {
			t.Errorf("expected %d events, got %d", numGoroutines*numEvents, n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not finish")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue[model.Event](WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, model.Event{EventID: "event1"}); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, model.Event{EventID: "event2"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Buffered items drain before the channel reports closed.
	first, ok := <-q.Dequeue()
	if !ok || first.EventID != "event1" {
		t.Errorf("expected buffered event1, got %v (ok=%v)", first.EventID, ok)
	}
	if _, ok := <-q.Dequeue(); ok {
		t.Error("expected dequeue channel to be closed")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
