package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/api"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DashboardSource returns the latest derived dashboard.
type DashboardSource interface {
	Latest() (domain.Dashboard, bool)
}

// Refresher runs one poll cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Dashboard, error)
}

// RoleResolver maps a caller's bearer token to their role. Accounts without
// a role must be rejected with domain.ErrUnauthorizedRole.
type RoleResolver interface {
	ResolveAccessRole(ctx context.Context, token string) (domain.Role, error)
}

// Dependencies wires the server to the rest of the service. Trends and Roles
// are optional: a nil Trends disables the trend route, a nil Roles disables
// the role gate.
type Dependencies struct {
	Ready              sharedobs.ReadinessChecker
	Dashboards         DashboardSource
	Refresher          Refresher
	Trends             api.TrendSource
	Roles              RoleResolver
	StrictStatusFilter bool
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Dependencies
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and /api/v1 routes.
func NewServer(addr string, deps Dependencies, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(deps.Ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Roles != nil {
			r.Use(s.requireDashboardRole)
		}
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/metrics", s.handleMetrics)
		r.Get("/dashboard/chart", s.handleChart)
		r.Post("/dashboard/refresh", s.handleRefresh)
		if deps.Trends != nil {
			r.Get("/facilities/{id}/trend", s.handleTrend)
		}
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type dashboardResponse struct {
	ID           string                `json:"id"`
	GeneratedAt  time.Time             `json:"generated_at"`
	StatusFilter domain.StatusFilter   `json:"status_filter"`
	Metrics      domain.Metrics        `json:"metrics"`
	Chart        domain.ChartData      `json:"chart"`
	Rows         []domain.ReportRecord `json:"rows"`
}

type trendResponse struct {
	FacilityID domain.FacilityID   `json:"facility_id"`
	Points     []domain.TrendPoint `json:"points"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.latest(w)
	if !ok {
		return
	}

	selector := r.URL.Query().Get("status")
	if selector == "" {
		selector = string(domain.FilterAll)
	}

	var filter domain.StatusFilter
	if s.deps.StrictStatusFilter {
		f, err := domain.ParseStatusFilter(selector)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = f
	} else {
		filter = domain.NormalizeStatusFilter(selector)
	}

	sharedobs.WriteJSON(w, http.StatusOK, newDashboardResponse(d, filter))
}

func newDashboardResponse(d domain.Dashboard, filter domain.StatusFilter) dashboardResponse {
	return dashboardResponse{
		ID:           d.ID,
		GeneratedAt:  d.GeneratedAt,
		StatusFilter: filter,
		Metrics:      d.Metrics,
		Chart:        d.Chart,
		Rows:         d.Filtered(string(filter)),
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if d, ok := s.latest(w); ok {
		sharedobs.WriteJSON(w, http.StatusOK, d.Metrics)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	if d, ok := s.latest(w); ok {
		sharedobs.WriteJSON(w, http.StatusOK, d.Chart)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Refresher.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("on-demand refresh failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newDashboardResponse(d, domain.FilterAll))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	id := domain.FacilityID(chi.URLParam(r, "id"))

	history, err := s.deps.Trends.FetchTrend(r.Context(), id)
	if err != nil {
		s.logger.Warn("trend lookup failed", "facility_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "trend lookup failed: "+err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, trendResponse{FacilityID: id, Points: domain.ShapeTrend(history)})
}

func (s *Server) latest(w http.ResponseWriter) (domain.Dashboard, bool) {
	d, ok := s.deps.Dashboards.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "dashboard not available yet")
	}
	return d, ok
}

// requireDashboardRole admits only callers whose role may read monitor data.
func (s *Server) requireDashboardRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		role, err := s.deps.Roles.ResolveAccessRole(r.Context(), token)
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		case errors.Is(err, domain.ErrUnauthorizedRole):
			writeError(w, http.StatusForbidden, err.Error())
			return
		case err != nil:
			s.logger.Warn("role lookup failed", "error", err)
			writeError(w, http.StatusBadGateway, "role lookup failed")
			return
		}

		if !role.CanReadMonitorData() {
			writeError(w, http.StatusForbidden, "role "+string(role)+" may not read dashboard data")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
