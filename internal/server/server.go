package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial/memory"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/orchestration"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	// writeMargin is added to the largest computation timeout to obtain the
	// server write timeout.
	writeMargin = 10 * time.Second
)

// Server wraps the chi router and the computation dependencies.
type Server struct {
	router   *chi.Mux
	executor orchestration.Executor
	recorder *metrics.Recorder
	logger   logging.Logger
	config   config.AppConfig
}

// New creates a server computing factorials with cfg's engine settings.
// cfg.Timeout is the default per-request timeout, cfg.MaxTimeout caps the
// timeout a client may request and cfg.MaxArgument bounds n.
func New(cfg config.AppConfig, executor orchestration.Executor, recorder *metrics.Recorder, logger logging.Logger) *Server {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	// Concurrent requests must not fight over the process-wide GC settings.
	cfg.GCMode = string(memory.GCModeDisabled)
	executor.Recorder = recorder
	executor.Reporter = nil

	s := &Server{
		router:   chi.NewRouter(),
		executor: executor,
		recorder: recorder,
		logger:   logger,
		config:   cfg,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(requestIDResponse)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(SecurityMiddleware)
	s.router.Use(CORSMiddleware(DefaultSecurityConfig()))

	s.routes()
	return s
}

// routes registers all HTTP routes on the router.
func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", s.recorder.Handler())
	s.router.Get("/v1/factorial/{n}", s.handleFactorial)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.config.MaxTimeout + writeMargin,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
