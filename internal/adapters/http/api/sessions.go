package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/versus/internal/domain/types"
)

// maxEventBody caps the size of an event request body.
const maxEventBody = 4 << 10

// SessionsHandler serves session lifecycle and event submission.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	view, err := h.deps.CreateSession(r.Context())
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/sessions/"+view.SessionID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	view, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePostEvent handles POST /sessions/{id}/events.
func (h *SessionsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	req, err := decodeEvent(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	resp, err := h.deps.Submit(r.Context(), r.PathValue("id"), req)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeEvent(body io.Reader) (types.EventRequest, error) {
	var req types.EventRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if strings.TrimSpace(req.Kind) == "" {
		return req, errors.New("missing kind")
	}
	return req, nil
}
