// Package api is the HTTP front-end: analyze and chat endpoints over the
// advisor facade, plus roster listing and health. Consultation state
// between calls lives in the session store; the handlers themselves are
// stateless.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"attrition-advisor/internal/advisor"
	"attrition-advisor/internal/common/config"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/common/observability"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/notify"
	"attrition-advisor/internal/report"
	"attrition-advisor/internal/roster"
	"attrition-advisor/internal/session"
)

// Sessions is the consultation store the chat endpoint needs.
type Sessions interface {
	Put(ctx context.Context, c models.Consultation) error
	Get(ctx context.Context, id string) (models.Consultation, error)
}

// Reports persists rendered consultation reports.
type Reports interface {
	Save(ctx context.Context, r report.Report) error
}

// Alerts sends the high-risk notification.
type Alerts interface {
	AlertHighRisk(ctx context.Context, r report.Report) error
}

var (
	_ Sessions = (*session.Store)(nil)
	_ Reports  = (*report.Store)(nil)
	_ Alerts   = (*notify.Mailer)(nil)
)

type Server struct {
	cfg      *config.Config
	advisor  *advisor.Advisor
	roster   *roster.Roster
	sessions Sessions
	reports  Reports
	alerts   Alerts
	obs      *observability.Observability
	logger   logger.Logger
	router   *chi.Mux
}

// NewServer wires the routes. reports, alerts and obs may be nil when
// Postgres, email notifications or the otel pipeline are disabled; the
// analyze flow then skips those steps. sessions must be non-nil, chat
// cannot work without it.
func NewServer(cfg *config.Config, adv *advisor.Advisor, r *roster.Roster, sessions Sessions, reports Reports, alerts Alerts, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		advisor:  adv,
		roster:   r,
		sessions: sessions,
		reports:  reports,
		alerts:   alerts,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Millisecond))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/chat", s.handleChat)
		r.Get("/roster", s.handleRoster)
	})

	s.router = r
}

// Router exposes the handler tree for the HTTP server and for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
