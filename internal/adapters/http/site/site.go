// Package site serves the server-rendered comparison page.
package site

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/versus/internal/adapters/http/api"
	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/types"
	"github.com/okian/versus/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("site render failed")
	ErrServe  = errors.New("site serve failed")
)

// CookieName holds the session id of a browser.
const CookieName = "versus_session"

// Dependencies are the service calls the page needs.
type Dependencies interface {
	Facets(ctx context.Context) (types.Facets, error)
	Evaluate(ctx context.Context, c filter.Criteria, key ranking.Key, a, b string) (types.SessionView, error)
	CreateSession(ctx context.Context) (types.SessionView, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
}

// Handler renders the page and the comparison fragment.
type Handler struct {
	deps      Dependencies
	templates *template.Template
	logger    logger.Logger
}

// NewHandler parses the embedded templates.
func NewHandler(deps Dependencies, log logger.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}
	if log == nil {
		log = logger.Get().Named("site")
	}
	return &Handler{deps: deps, templates: tmpl, logger: log}, nil
}

// Register attaches the page, fragment and static routes to mux.
func Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) error {
	if mux == nil {
		panic("mux is nil")
	}
	h, err := NewHandler(deps, nil)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandlePage, "page"))
	mux.HandleFunc("GET /fragment", api.MetricsMiddleware(h.HandleFragment, "fragment"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))

	h.logger.Debug(ctx, "site routes registered")
	return nil
}

type pageData struct {
	SessionID string
	Facets    types.Facets
	View      types.SessionView
	Query     url.Values
}

// HandlePage handles GET /. Query parameters render a stateless view so
// the page works without JavaScript; otherwise the browser's session is
// shown, created on first visit.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facets, err := h.deps.Facets(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.resolve(w, r, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "page.html", pageData{
		SessionID: view.SessionID,
		Facets:    facets,
		View:      view,
		Query:     queryFor(view),
	})
}

// HandleFragment handles GET /fragment, the comparison section alone.
func (h *Handler) HandleFragment(w http.ResponseWriter, r *http.Request) {
	view, err := h.resolve(w, r, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "comparison", pageData{
		SessionID: view.SessionID,
		View:      view,
		Query:     queryFor(view),
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, create bool) (types.SessionView, error) {
	ctx := r.Context()
	q := r.URL.Query()
	if hasState(q) {
		c, key, err := api.CriteriaFromQuery(q)
		if err != nil {
			return types.SessionView{}, err
		}
		return h.deps.Evaluate(ctx, c, key, q.Get(api.ParamA), q.Get(api.ParamB))
	}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		view, err := h.deps.Session(ctx, cookie.Value)
		if err == nil {
			return view, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return types.SessionView{}, err
		}
	}

	if !create {
		return h.deps.Evaluate(ctx, filter.Default(), ranking.Total, "", "")
	}
	view, err := h.deps.CreateSession(ctx)
	if err != nil {
		return types.SessionView{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    view.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return view, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error(r.Context(), "template execution failed",
			logger.String("template", name),
			logger.Error(errors.Join(ErrRender, err)),
		)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, api.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrBackpressure):
		status = http.StatusTooManyRequests
	case errors.Is(err, types.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "page failed", logger.String("path", r.URL.Path), logger.Error(err))
	}
	http.Error(w, http.StatusText(status), status)
}

var stateParams = []string{
	api.ParamBudget, api.ParamUsage, api.ParamFuel, api.ParamTransmission,
	api.ParamSearch, api.ParamPriority, api.ParamA, api.ParamB,
}

func hasState(q url.Values) bool {
	for _, p := range stateParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// queryFor encodes a view as the parameters that reproduce it.
func queryFor(v types.SessionView) url.Values {
	q := url.Values{}
	q.Set(api.ParamBudget, v.Criteria.Budget)
	q.Set(api.ParamUsage, v.Criteria.Usage)
	q.Set(api.ParamFuel, v.Criteria.Fuel)
	q.Set(api.ParamTransmission, v.Criteria.Transmission)
	q.Set(api.ParamPriority, v.Criteria.Priority)
	if v.Criteria.Search != "" {
		q.Set(api.ParamSearch, v.Criteria.Search)
	}
	if v.A.Mode == types.ModeExplicit && v.A.Vehicle != nil {
		q.Set(api.ParamA, v.A.Vehicle.ID)
	}
	if v.B.Mode == types.ModeExplicit && v.B.Vehicle != nil {
		q.Set(api.ParamB, v.B.Vehicle.ID)
	}
	return q
}
