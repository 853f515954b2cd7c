package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/versus/internal/adapters/mq/queue"
	"github.com/okian/versus/internal/domain/compare"
	"github.com/okian/versus/internal/domain/model"
	"github.com/okian/versus/pkg/logger"
	"github.com/okian/versus/pkg/metrics"
)

// Default controller configuration constants.
const (
	DefaultDebounce        = 150 * time.Millisecond
	defaultShutdownTimeout = 5 * time.Second
)

// Sentinel kinds for controller errors.
var (
	ErrBackpressure = errors.New("session inbox full")
	ErrStopped      = errors.New("session controller stopped")
)

// Engine recomputes a comparison from state.
type Engine interface {
	Recompute(st compare.State) compare.Result
}

// Snapshot is an immutable view of a session after a recompute.
type Snapshot struct {
	Revision uint64
	Result   compare.Result
	// PendingSearch is a typed search not yet committed by the debounce timer.
	PendingSearch string
	HasPending    bool
}

type reply struct {
	snap Snapshot
	err  error
}

type envelope struct {
	ctx   context.Context
	event model.Event
	reply chan reply
}

// Controller owns one session's state. All state mutation happens on the
// Run goroutine; other goroutines talk to it through the inbox and read
// published snapshots.
type Controller struct {
	id        string
	engine    Engine
	debounce  time.Duration
	inboxSize int
	inbox     *queue.InMemoryQueue[envelope]
	logger    logger.Logger

	// Owned by the Run goroutine.
	state    compare.State
	revision uint64
	pending  *string
	timer    *time.Timer
	timerC   <-chan time.Time

	latest        atomic.Pointer[Snapshot]
	latestPending atomic.Pointer[string]

	subMu   sync.Mutex
	subs    map[uint64]chan Snapshot
	nextSub uint64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
}

// NewController creates a controller and publishes the initial snapshot.
// Call Run (or Start) to begin processing events.
func NewController(id string, engine Engine, opts ...Option) *Controller {
	c := &Controller{
		id:        id,
		engine:    engine,
		debounce:  DefaultDebounce,
		inboxSize: queue.DefaultCapacity,
		state:     compare.DefaultState(),
		subs:      make(map[uint64]chan Snapshot),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.inbox = queue.NewInMemoryQueue[envelope](queue.WithCapacity(c.inboxSize))
	c.recompute("init")
	return c
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// Start runs the controller loop on a new goroutine.
func (c *Controller) Start(ctx context.Context) {
	go c.Run(ctx)
}

// Run processes events until ctx is canceled or Shutdown is called.
func (c *Controller) Run(ctx context.Context) {
	defer func() {
		c.stopTimer()
		c.closeSubscribers()
		close(c.done)
	}()

	events := c.inbox.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			c.handle(env)
		case <-c.timerC:
			c.commitSearch()
		}
	}
}

// Submit hands ev to the controller and waits for the resulting snapshot.
// Search events return immediately with the pending search set.
func (c *Controller) Submit(ctx context.Context, ev model.Event) (Snapshot, error) {
	env := envelope{ctx: ctx, event: ev, reply: make(chan reply, 1)}
	if err := c.inbox.Enqueue(ctx, env); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return Snapshot{}, ErrBackpressure
		case errors.Is(err, queue.ErrClosed):
			return Snapshot{}, ErrStopped
		default:
			return Snapshot{}, err
		}
	}

	select {
	case r := <-env.reply:
		return r.snap, r.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-c.done:
		return Snapshot{}, ErrStopped
	}
}

// Snapshot returns the latest published snapshot, with the pending search
// if one is waiting.
func (c *Controller) Snapshot() Snapshot {
	s := *c.latest.Load()
	if p := c.latestPending.Load(); p != nil {
		s.PendingSearch, s.HasPending = *p, true
	}
	return s
}

// Subscribe returns a channel that receives the snapshot after every
// recompute. The current snapshot is delivered first. A slow reader only
// sees the most recent snapshot. The channel is closed by cancel or when
// the controller stops.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.subs == nil {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.Snapshot()

	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Done is closed once the loop has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Shutdown stops the loop and waits for it to exit.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.shutdownOnce.Do(func() {
		close(c.shutdown)
		_ = c.inbox.Close()
	})

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		c.logger.Warn(ctx, "shutdown timed out", logger.String("session", c.id))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Close is Shutdown with a default timeout.
func (c *Controller) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	return c.Shutdown(ctx)
}

func (c *Controller) handle(env envelope) {
	if err := env.ctx.Err(); err != nil {
		env.reply <- reply{err: err}
		return
	}

	ev := env.event
	switch ev.Kind {
	case model.KindSearch:
		c.schedule(ev.Value)
		metrics.RecordEventApplied(string(ev.Kind))
		env.reply <- reply{snap: c.Snapshot()}
		return
	case model.KindReset:
		c.stopTimer()
		c.setPending(nil)
	}

	next, err := compare.Apply(c.state, ev)
	if err != nil {
		metrics.RecordEventRejected("invalid")
		c.logger.Debug(env.ctx, "event rejected",
			logger.String("session", c.id),
			logger.String("kind", string(ev.Kind)),
			logger.Error(err),
		)
		env.reply <- reply{err: err}
		return
	}

	c.state = next
	metrics.RecordEventApplied(string(ev.Kind))
	snap := c.recompute(string(ev.Kind))
	env.reply <- reply{snap: c.withPending(snap)}
}

func (c *Controller) setPending(q *string) {
	c.pending = q
	c.latestPending.Store(q)
}

// schedule stores q as the pending search and restarts the quiet period.
func (c *Controller) schedule(q string) {
	if c.timer != nil && c.timer.Stop() {
		metrics.RecordSearchCoalesced()
	}
	c.setPending(&q)
	c.timer = time.NewTimer(c.debounce)
	c.timerC = c.timer.C
}

func (c *Controller) commitSearch() {
	c.timer, c.timerC = nil, nil
	if c.pending == nil {
		return
	}
	c.state.Criteria.Search = *c.pending
	c.recompute(string(model.KindSearch))
	c.setPending(nil)
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer, c.timerC = nil, nil
}

func (c *Controller) recompute(trigger string) Snapshot {
	start := time.Now()
	res := c.engine.Recompute(c.state)
	c.state = res.State
	c.revision++

	snap := Snapshot{Revision: c.revision, Result: res}
	metrics.RecordRecompute(trigger, float64(time.Since(start).Microseconds())/1000, len(res.Ranked))
	c.latest.Store(&snap)
	c.publish(snap)
	return snap
}

func (c *Controller) withPending(s Snapshot) Snapshot {
	if c.pending != nil {
		s.PendingSearch, s.HasPending = *c.pending, true
	}
	return s
}

func (c *Controller) publish(s Snapshot) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- s:
		default:
			// Replace the unread snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (c *Controller) closeSubscribers() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subs = nil
}
