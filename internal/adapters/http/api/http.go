// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/types"
	"github.com/okian/versus/pkg/logger"
)

// CatalogDependencies are the stateless catalog reads.
type CatalogDependencies interface {
	Facets(ctx context.Context) (types.Facets, error)
	Vehicles(ctx context.Context, c filter.Criteria, key ranking.Key) ([]types.VehicleEntry, error)
	Vehicle(ctx context.Context, id string) (types.VehicleEntry, error)
	Compare(ctx context.Context, idA, idB string, key ranking.Key) (types.CompareView, error)
}

// SessionDependencies drive the per-client comparison sessions.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (types.SessionView, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
	Submit(ctx context.Context, id string, req types.EventRequest) (types.EventResponse, error)
	Subscribe(ctx context.Context, id string) (<-chan types.SessionView, func(), error)
	CloseSession(ctx context.Context, id string) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	SessionDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	catalogHandler  *CatalogHandler
	sessionsHandler *SessionsHandler
	wsHandler       *WebSocketHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Get().Named("api")
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		catalogHandler:  NewCatalogHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		wsHandler:       NewWebSocketHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /facets", MetricsMiddleware(s.catalogHandler.HandleFacets, "facets"))
	mux.HandleFunc("GET /vehicles", MetricsMiddleware(s.catalogHandler.HandleVehicles, "vehicles"))
	mux.HandleFunc("GET /vehicles/{id}", MetricsMiddleware(s.catalogHandler.HandleVehicle, "vehicle"))
	mux.HandleFunc("GET /compare", MetricsMiddleware(s.catalogHandler.HandleCompare, "compare"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))
	mux.HandleFunc("POST /sessions/{id}/events", MetricsMiddleware(s.sessionsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("GET /sessions/{id}/ws", MetricsMiddleware(s.wsHandler.HandleWebSocket, "ws"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError writes err with the status its kind maps to.
func respondError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
