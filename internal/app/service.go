// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	repository "github.com/okian/versus/internal/adapters/repository"
	"github.com/okian/versus/internal/adapters/mq/worker"
	"github.com/okian/versus/internal/domain/compare"
	"github.com/okian/versus/internal/domain/dedupe"
	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/model"
	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/selection"
	"github.com/okian/versus/internal/domain/types"
	"github.com/okian/versus/internal/domain/vehicle"
	"github.com/okian/versus/pkg/logger"
	"github.com/okian/versus/pkg/metrics"
	"github.com/okian/versus/pkg/money"
	"golang.org/x/time/rate"
)

// Default service configuration constants.
const (
	defaultDedupeSize      = 50000
	defaultInboxSize       = 64
	defaultEventRate       = 20
	defaultEventBurst      = 40
	defaultJanitorInterval = time.Minute
)

// ErrNotStarted is returned by session operations before Start.
var ErrNotStarted = fmt.Errorf("%w: service not started", types.ErrUnavailable)

// session binds a controller to its rate limiter.
type session struct {
	id      string
	ctrl    *worker.Controller
	limiter *rate.Limiter
	created time.Time
}

// Service implements the API dependencies for the comparison tool.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *vehicle.Catalog
	engine   *compare.Engine
	money    *money.Converter
	sessions *repository.SessionStore[*session]
	deduper  dedupe.Deduper

	// Configuration
	catalogPath     string
	debounce        time.Duration
	sessionTTL      time.Duration
	maxSessions     int
	inboxSize       int
	dedupeSize      int
	eventRate       rate.Limit
	eventBurst      int
	janitorInterval time.Duration

	// State
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		debounce:        worker.DefaultDebounce,
		sessionTTL:      repository.DefaultSessionTTL,
		maxSessions:     repository.DefaultSessionCapacity,
		inboxSize:       defaultInboxSize,
		dedupeSize:      defaultDedupeSize,
		eventRate:       defaultEventRate,
		eventBurst:      defaultEventBurst,
		janitorInterval: defaultJanitorInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and starts the session janitor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.money == nil {
		s.money = money.MustNew()
	}

	s.logger.Info(ctx, "starting comparison service...")

	catalog, err := repository.LoadCatalog(ctx, s.catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.catalog = catalog
	s.engine = compare.NewEngine(catalog, s.money)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.sessions = repository.NewSessionStore[*session](
		repository.WithTTL(s.sessionTTL),
		repository.WithCapacity(s.maxSessions),
	)

	// Sessions outlive the Start ctx; they stop with Stop.
	s.runCtx, s.cancel = context.WithCancel(context.Background())
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.janitor(s.stopCh)

	s.started = true
	s.logger.Info(ctx, "comparison service started",
		logger.Int("vehicles", catalog.Len()),
		logger.String("catalog", catalogSource(s.catalogPath)),
		logger.String("currency", s.money.Unit()),
		logger.Int("debounceMs", int(s.debounce.Milliseconds())),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop gracefully shuts down every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping comparison service...")

	close(s.stopCh)
	s.wg.Wait()

	for _, sess := range s.sessions.Drain(ctx) {
		if err := sess.ctrl.Close(); err != nil {
			s.logger.Warn(ctx, "session close failed", logger.String("session", sess.id), logger.Error(err))
		}
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "comparison service stopped")
}

func (s *Service) janitor(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.sweep(context.Background())
		}
	}
}

// sweep closes sessions idle for longer than the TTL.
func (s *Service) sweep(ctx context.Context) int {
	expired := s.sessions.Sweep(ctx)
	for _, sess := range expired {
		if err := sess.ctrl.Close(); err != nil {
			s.logger.Warn(ctx, "expired session close failed", logger.String("session", sess.id), logger.Error(err))
		}
	}
	if len(expired) > 0 {
		s.logger.Debug(ctx, "expired sessions swept", logger.Int("count", len(expired)))
	}
	return len(expired)
}

// ready returns the started components or ErrNotStarted.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Facets returns the filter vocabularies.
func (s *Service) Facets(_ context.Context) (types.Facets, error) {
	if err := s.ready(); err != nil {
		return types.Facets{}, err
	}
	return buildFacets(s.catalog), nil
}

// Vehicles filters and ranks the catalog without a session.
func (s *Service) Vehicles(_ context.Context, c filter.Criteria, key ranking.Key) ([]types.VehicleEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ranked := s.engine.Filter(c, key)
	out := make([]types.VehicleEntry, len(ranked))
	for i := range ranked {
		out[i] = s.entry(&ranked[i], i+1)
	}
	return out, nil
}

// Vehicle returns one vehicle by id.
func (s *Service) Vehicle(_ context.Context, id string) (types.VehicleEntry, error) {
	if err := s.ready(); err != nil {
		return types.VehicleEntry{}, err
	}
	v, ok := s.catalog.Get(id)
	if !ok {
		return types.VehicleEntry{}, fmt.Errorf("%w: %w: %s", types.ErrNotFound, repository.ErrNotFound, id)
	}
	return s.entry(&v, 0), nil
}

// Compare summarizes two vehicles by id. Unknown ids yield the unavailable
// summary rather than an error.
func (s *Service) Compare(_ context.Context, idA, idB string, key ranking.Key) (types.CompareView, error) {
	if err := s.ready(); err != nil {
		return types.CompareView{}, err
	}
	a, b, view := s.engine.Compare(idA, idB, key)
	metrics.RecordComparison(outcome(view.Available, string(view.OverallWinner)))
	return types.CompareView{
		A:       s.entryPtr(a),
		B:       s.entryPtr(b),
		Summary: view,
	}, nil
}

// Evaluate runs one recompute outside any session. a and b pin the slots
// when they name vehicles that survive the filter.
func (s *Service) Evaluate(_ context.Context, c filter.Criteria, key ranking.Key, a, b string) (types.SessionView, error) {
	if err := s.ready(); err != nil {
		return types.SessionView{}, err
	}
	st := compare.DefaultState()
	st.Criteria = c.Normalize()
	st.Priority = key
	st.Selection = selection.State{A: selection.Explicit(a), B: selection.Explicit(b)}
	return s.sessionView("", worker.Snapshot{Result: s.engine.Recompute(st)}), nil
}

// CreateSession starts a controller with the default state.
func (s *Service) CreateSession(ctx context.Context) (types.SessionView, error) {
	if err := s.ready(); err != nil {
		return types.SessionView{}, err
	}

	id := uuid.NewString()
	ctrl := worker.NewController(id, s.engine,
		worker.WithDebounce(s.debounce),
		worker.WithInboxSize(s.inboxSize),
		worker.WithLogger(s.logger.Named("session")),
	)
	sess := &session{
		id:      id,
		ctrl:    ctrl,
		limiter: rate.NewLimiter(s.eventRate, s.eventBurst),
		created: time.Now(),
	}
	if err := s.sessions.Put(ctx, id, sess); err != nil {
		if errors.Is(err, repository.ErrCapacity) {
			return types.SessionView{}, fmt.Errorf("%w: %w", types.ErrBackpressure, err)
		}
		return types.SessionView{}, err
	}
	ctrl.Start(s.runCtx)
	metrics.RecordSessionCreated()

	s.logger.Debug(ctx, "session created", logger.String("session", id))
	return s.sessionView(id, ctrl.Snapshot()), nil
}

func (s *Service) lookup(ctx context.Context, id string) (*session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNotFound, err)
	}
	return sess, nil
}

// Session returns the latest snapshot of a session.
func (s *Service) Session(ctx context.Context, id string) (types.SessionView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.SessionView{}, err
	}
	return s.sessionView(id, sess.ctrl.Snapshot()), nil
}

// Submit applies one input event to a session. Duplicate event ids are
// acknowledged with the current view and not applied again.
func (s *Service) Submit(ctx context.Context, id string, req types.EventRequest) (types.EventResponse, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.EventResponse{}, err
	}

	ev := model.Event{
		EventID: strings.TrimSpace(req.EventID),
		Kind:    model.Kind(strings.ToLower(strings.TrimSpace(req.Kind))),
		Value:   req.Value,
		Slot:    req.Slot,
		TS:      time.Now(),
	}
	if !ev.Kind.Valid() {
		metrics.RecordEventRejected("unknown_kind")
		return types.EventResponse{}, fmt.Errorf("%w: unknown kind %q", types.ErrInvalidInput, req.Kind)
	}

	var key string
	if ev.EventID != "" {
		key = dedupe.Key(id, ev.EventID)
		if s.deduper.SeenAndRecord(ctx, key) {
			metrics.RecordEventDuplicate()
			s.logger.Debug(ctx, "duplicate event detected, skipping",
				logger.String("session", id),
				logger.String("eventID", ev.EventID),
			)
			return types.EventResponse{Duplicate: true, View: s.sessionView(id, sess.ctrl.Snapshot())}, nil
		}
	}
	unrecord := func() {
		if key != "" {
			s.deduper.Unrecord(ctx, key)
		}
	}

	if !sess.limiter.Allow() {
		unrecord()
		metrics.RecordEventRejected("rate_limited")
		return types.EventResponse{}, fmt.Errorf("%w: session %s", types.ErrRateLimited, id)
	}

	snap, err := sess.ctrl.Submit(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, compare.ErrInvalidEvent):
		unrecord()
		return types.EventResponse{}, fmt.Errorf("%w: %w", types.ErrInvalidInput, err)
	case errors.Is(err, worker.ErrBackpressure):
		unrecord()
		metrics.RecordEventRejected("backpressure")
		return types.EventResponse{}, fmt.Errorf("%w: %w", types.ErrBackpressure, err)
	case errors.Is(err, worker.ErrStopped):
		unrecord()
		return types.EventResponse{}, fmt.Errorf("%w: %w", types.ErrNotFound, err)
	default:
		unrecord()
		return types.EventResponse{}, err
	}

	if ev.Kind != model.KindSearch {
		metrics.RecordComparison(outcome(snap.Result.Summary.Available, string(snap.Result.Summary.OverallWinner)))
	}
	return types.EventResponse{View: s.sessionView(id, snap)}, nil
}

// Subscribe streams session views after each recompute. The current view
// is delivered first; a slow reader only sees the latest one. The channel
// closes when cancel is called or the session ends.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan types.SessionView, func(), error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	snaps, cancel := sess.ctrl.Subscribe()
	out := make(chan types.SessionView, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			view := s.sessionView(id, snap)
			select {
			case out <- view:
			default:
				select {
				case <-out:
				default:
				}
				out <- view
			}
		}
	}()
	return out, cancel, nil
}

// CloseSession stops and forgets a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sess, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrNotFound, err)
	}
	if err := sess.ctrl.Close(); err != nil {
		return err
	}
	s.logger.Debug(ctx, "session closed", logger.String("session", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"maxSessions":   s.maxSessions,
		"inboxSize":     s.inboxSize,
		"dedupeSize":    s.dedupeSize,
		"debounceMs":    s.debounce.Milliseconds(),
		"sessionTTLSec": int(s.sessionTTL.Seconds()),
	}
	if s.started {
		ctx := context.Background()
		active := s.sessions.Count(ctx)
		stats["activeSessions"] = active
		stats["catalogVehicles"] = s.catalog.Len()
		stats["dedupeEntries"] = s.deduper.Size()
		stats["currency"] = s.money.Unit()

		metrics.UpdateSessionsActive(active)
		metrics.UpdateCatalogVehicles(s.catalog.Len())
	}
	return stats
}

func outcome(available bool, winner string) string {
	switch {
	case !available:
		return "unavailable"
	case winner == "":
		return "tie"
	default:
		return "winner"
	}
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
