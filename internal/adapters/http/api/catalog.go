package api

import (
	"net/http"
	"strings"

	"github.com/okian/versus/internal/domain/types"
)

// CatalogHandler serves the stateless catalog endpoints.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type vehiclesResponse struct {
	Count    int                  `json:"count"`
	Priority string               `json:"priority"`
	Vehicles []types.VehicleEntry `json:"vehicles"`
}

// HandleFacets handles GET /facets.
func (h *CatalogHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	const op = "api.facets"
	f, err := h.deps.Facets(r.Context())
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// HandleVehicles handles GET /vehicles?budget&usage&fuel&transmission&q&priority.
func (h *CatalogHandler) HandleVehicles(w http.ResponseWriter, r *http.Request) {
	const op = "api.vehicles"
	c, key, err := CriteriaFromQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	vs, err := h.deps.Vehicles(r.Context(), c, key)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, vehiclesResponse{Count: len(vs), Priority: key.String(), Vehicles: vs})
}

// HandleVehicle handles GET /vehicles/{id}.
func (h *CatalogHandler) HandleVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "api.vehicle"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondError(w, NewKind(op, ErrBadRequest))
		return
	}
	v, err := h.deps.Vehicle(r.Context(), id)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleCompare handles GET /compare?a&b&priority. Unknown ids produce the
// unavailable summary, not an error.
func (h *CatalogHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	q := r.URL.Query()
	_, key, err := CriteriaFromQuery(q)
	if err != nil {
		respondError(w, err)
		return
	}
	view, err := h.deps.Compare(r.Context(), q.Get(ParamA), q.Get(ParamB), key)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
