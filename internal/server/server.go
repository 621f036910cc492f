// Package server exposes the catalog over HTTP.
//
// It is a thin boundary: request decoding, credential resolution and
// status mapping live here; every domain decision is delegated to the
// files service. All JSON endpoints speak the same envelope, and errors
// are always {"error": "..."} objects.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/internal/ratelimiter"
	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/marmos91/cabinet/pkg/files"
	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/marmos91/cabinet/pkg/metrics"
)

// Config carries the HTTP listener settings.
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string `mapstructure:"host"`

	// Port is the TCP port to listen on
	Port int `mapstructure:"port"`

	// RequestsPerSecond caps the sustained request rate across all
	// clients. Zero disables rate limiting.
	RequestsPerSecond uint `mapstructure:"requests_per_second"`

	// Burst is the rate limiter's bucket capacity
	Burst uint `mapstructure:"burst"`

	// ReadTimeout bounds how long a request body may take to arrive
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout bounds how long a response may take to drain
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Dependencies are the backends the HTTP surface is built over.
type Dependencies struct {
	Files   *files.Service
	Gate    *identity.Gate
	Tokens  identity.TokenCache
	Users   identity.UserStore
	Catalog catalog.Store

	// HTTPMetrics may be nil when metrics are disabled
	HTTPMetrics *metrics.HTTPMetrics
}

// Server is the HTTP front of the catalog.
type Server struct {
	cfg  Config
	deps Dependencies

	httpServer *http.Server
	limiter    *ratelimiter.RateLimiter
}

// New creates a server. The listener is not opened until Start.
func New(cfg Config, deps Dependencies) *Server {
	s := &Server{
		cfg:     cfg,
		deps:    deps,
		limiter: ratelimiter.New(cfg.RequestsPerSecond, cfg.Burst),
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		Handler:      s.router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start listens and serves until Shutdown is called or the listener
// fails. A clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info("http: listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("http: shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the routed handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
