package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	mmetrics "redbus-search/internal/metrics"
	"redbus-search/internal/redbus"
	"redbus-search/internal/search"
	"redbus-search/internal/session"
	"redbus-search/internal/table"
)

// Searcher is the part of search.Service the web layer depends on.
type Searcher interface {
	Render(ctx context.Context, form search.Form) *search.View
	States(ctx context.Context) ([]string, error)
	BusTypes(ctx context.Context) ([]string, error)
	RouteNames(ctx context.Context, state string) ([]string, error)
	Search(ctx context.Context, f redbus.Filter) (table.Table, error)
	Ping(ctx context.Context) error
}

type Server struct {
	searcher Searcher
	metrics  *mmetrics.Collector
}

// NewRouter wires pages, the JSON API, health and metrics endpoints.
func NewRouter(s Searcher, m *mmetrics.Collector, corsOrigins []string) http.Handler {
	srv := &Server{searcher: s, metrics: m}

	r := mux.NewRouter()
	r.HandleFunc("/", srv.index).Methods(http.MethodGet)
	r.HandleFunc("/nav", srv.navigate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", srv.health).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := mux.NewRouter()
	api.HandleFunc("/api/states", srv.apiStates).Methods(http.MethodGet)
	api.HandleFunc("/api/routes", srv.apiRoutes).Methods(http.MethodGet)
	api.HandleFunc("/api/bus-types", srv.apiBusTypes).Methods(http.MethodGet)
	api.HandleFunc("/api/search", srv.apiSearch).Methods(http.MethodGet)
	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	r.PathPrefix("/api/").Handler(c.Handler(api))

	var h http.Handler = r
	h = session.Middleware(h)
	h = LoggingMiddleware(h)
	h = RecoveryMiddleware(h)
	return otelhttp.NewHandler(h, "redbus-search")
}

type searchPage struct {
	View *search.View

	StatePlaceholder string
	RoutePlaceholder string
	AllBusTypes      string

	PriceMin, PriceMax, PriceStep    int
	RatingMin, RatingMax, RatingStep int
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	page := session.PageFrom(r.Context())
	s.metrics.ObserveRender(string(page))

	if page != session.Search {
		s.render(w, http.StatusOK, "home", nil)
		return
	}

	view := s.searcher.Render(r.Context(), parseSearchForm(r.URL.Query()))
	status := http.StatusOK
	if view.Err != nil {
		status = statusFor(view.Err)
	}
	s.render(w, status, "search", searchPage{
		View:             view,
		StatePlaceholder: redbus.StatePlaceholder,
		RoutePlaceholder: redbus.RoutePlaceholder,
		AllBusTypes:      redbus.AllBusTypes,
		PriceMin:         redbus.PriceMin,
		PriceMax:         redbus.PriceMax,
		PriceStep:        redbus.PriceStep,
		RatingMin:        redbus.RatingMin,
		RatingMax:        redbus.RatingMax,
		RatingStep:       redbus.RatingStep,
	})
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	page, ok := session.ParsePage(r.PostForm.Get("page"))
	if !ok {
		http.Error(w, "unknown page", http.StatusBadRequest)
		return
	}
	session.SetPage(w, page)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type healthResponse struct {
	Status   string `json:"status"`
	DBStatus string `json:"db_status"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.searcher.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			DBStatus: "connection_error",
			Error:    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DBStatus: "connected"})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, redbus.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, redbus.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, redbus.ErrQuery):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}
