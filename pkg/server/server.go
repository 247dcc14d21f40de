// Package server exposes the org chart pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/graph?collapsed=a,b           stateless build, client-held collapse set
//	POST   /api/sessions                      start a server-held collapse session
//	GET    /api/sessions/{id}/graph
//	POST   /api/sessions/{id}/toggle/{nodeID}
//	DELETE /api/sessions/{id}
//	GET    /api/tree
//	GET    /api/roster
//	GET    /api/elements
//	POST   /api/cache/invalidate
//	GET    /metrics                           when a Gatherer is configured
//
// Data-integrity problems never fail a request: the repaired result is
// returned with status 200 and the problems listed under "issues".
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// DefaultShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const DefaultShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	SessionTTL  time.Duration
	MaxSessions int

	// Metrics is served on /metrics when set.
	Metrics prometheus.Gatherer
}

// Server serves one pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	sessions *collapse.Store
	metrics  prometheus.Gatherer
	logger   *log.Logger
}

// New creates a server for runner. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{
		runner:   runner,
		sessions: collapse.NewStore(opts.MaxSessions, opts.SessionTTL),
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/tree", s.handleTree)
		r.Get("/roster", s.handleRoster)
		r.Get("/elements", s.handleElements)
		r.Post("/cache/invalidate", s.handleInvalidate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/graph", s.handleSessionGraph)
				r.Post("/toggle/{nodeID}", s.handleSessionToggle)
				r.Delete("/", s.handleDeleteSession)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
