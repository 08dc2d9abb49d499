package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/grompt/internal/adapters/driving/api/middleware"
	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Config holds HTTP server configuration.
type Config struct {
	Server   domain.ServerSettings
	Provider domain.Provider
	Version  string
	Logger   *slog.Logger
}

// Server is the HTTP front end for the rephrase service.
type Server struct {
	rephrase driving.RephraseService
	cfg      Config
	handler  http.Handler
}

// NewServer creates a new HTTP server.
func NewServer(rephrase driving.RephraseService, cfg Config) (*Server, error) {
	if rephrase == nil {
		return nil, ErrMissingRephraseService
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{rephrase: rephrase, cfg: cfg}
	s.handler = s.setupMux()
	return s, nil
}

// setupMux wires handlers with the full middleware chain.
func (s *Server) setupMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rephrase", Rephrase(s.rephrase, s.cfg.Provider))
	mux.HandleFunc("/health", Health(s.rephrase, s.cfg.Provider, s.cfg.Version))
	mux.HandleFunc("/models", Models(s.rephrase))
	mux.Handle("/metrics", promhttp.Handler())

	var rl *middleware.RateLimiter
	if s.cfg.Server.RequestsPerMinute > 0 {
		rl = middleware.NewRateLimiter(s.cfg.Server.RequestsPerMinute, time.Minute)
	}

	return middleware.Chain(mux, middleware.Options{
		Logger:         s.cfg.Logger,
		RateLimiter:    rl,
		MaxBodyBytes:   s.cfg.Server.MaxBodyBytes,
		RequestTimeout: s.cfg.Server.RequestTimeout,
	})
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.cfg.Logger.Info("grompt api listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.cfg.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.cfg.Logger.Info("server stopped")
	return nil
}
