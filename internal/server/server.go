// Package server wires the activity operations, health endpoints and the
// static front-end into one HTTP server.
package server

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"activities-api/internal/common/config"
	"activities-api/internal/common/errors"
	"activities-api/internal/common/logger"
	"activities-api/internal/common/observability"
	"activities-api/internal/events"
	listactivities "activities-api/internal/handlers/activities/list-activities"
	"activities-api/internal/handlers/activities/signup"
	"activities-api/internal/handlers/activities/unregister"
	"activities-api/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

//go:embed static
var staticFiles embed.FS

const readinessTimeout = 2 * time.Second

// HealthChecker reports per-sink health. events.MultiPublisher implements it.
type HealthChecker interface {
	Health(ctx context.Context) (map[string]string, bool)
}

type Options struct {
	Config        config.ServerConfig
	PublishConfig *signup.Config
	Registry      *store.Registry
	Publisher     events.Publisher
	Health        HealthChecker
	Observability *observability.Observability
	Logger        logger.Logger
}

type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	registry   *store.Registry
	health     HealthChecker
	logger     logger.Logger
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "http"})

	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	publishConfig := opts.PublishConfig
	if publishConfig == nil {
		publishConfig = signup.LoadConfig()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		registry: opts.Registry,
		health:   opts.Health,
		logger:   log,
	}

	s.mux.Handle(listactivities.Route, listactivities.NewHandler(listactivities.LoadConfig(), opts.Registry, log))
	s.mux.Handle(signup.Route, signup.NewHandler(publishConfig, opts.Registry, publisher, log))
	s.mux.Handle(unregister.Route, unregister.NewHandler(&unregister.Config{Timeout: publishConfig.Timeout}, opts.Registry, publisher, log))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	s.mux.Handle("GET /{$}", http.RedirectHandler("/static/index.html", http.StatusTemporaryRedirect))

	cfg := opts.Config
	var root http.Handler = s.mux
	if cfg.RequestTimeout > 0 {
		root = http.TimeoutHandler(s.mux, config.GetDuration(cfg.RequestTimeout), "request timed out")
	}

	tracer := tracerOf(opts.Observability)
	handler := Chain(root,
		RecoverPanic(log),
		RequestID(),
		Tracing(tracer, s.routeOf),
		AccessLog(log, s.routeOf),
		Metrics(opts.Observability, s.routeOf),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.IdleTimeout),
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) routeOf(r *http.Request) string {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"time": time.Now().Format(time.RFC3339),
	}
	ready := s.registry != nil && s.registry.Len() > 0
	if s.registry != nil {
		body["activities"] = s.registry.Len()
	}

	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		sinks, healthy := s.health.Health(ctx)
		body["sinks"] = sinks
		ready = ready && healthy
	}

	if !ready {
		body["status"] = "not ready"
		errors.WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ready"
	errors.WriteJSON(w, http.StatusOK, body)
}

func tracerOf(obs *observability.Observability) trace.Tracer {
	if obs == nil {
		return nil
	}
	return obs.Tracer()
}
