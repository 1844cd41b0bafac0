package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/meltforce/gymplan/internal/metrics"
	"github.com/meltforce/gymplan/internal/plans"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	plans   *plans.Service
	metrics *metrics.Metrics
	limiter *rate.Limiter
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. limiter bounds plan
// generation and may be nil.
func New(svc *plans.Service, m *metrics.Metrics, limiter *rate.Limiter, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		plans:   svc,
		metrics: m,
		limiter: limiter,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter))
			r.Post("/routines/predict", s.handlePredict)
			r.Post("/routines/users/{id}", s.handleUserRoutine)
		})

		r.Get("/routines/recovery", s.handleRecovery)
		r.Get("/routines/validate", s.handleValidate)
		r.Get("/users/{id}/history", s.handleHistory)
		r.Get("/users/{id}/plans", s.handleUserPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
	})
}
