package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ServerOption configures Server.
type ServerOption func(*ServerConfig)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *zerolog.Logger
	Metrics         *metrics.Recorder
}

// Server wraps Echo HTTP server.
type Server struct {
	echo   *echo.Echo
	config *ServerConfig
	log    *zerolog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(svc Service, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Host:            "0.0.0.0",
		Port:            5000,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	// Middleware
	e.Use(Recover(log))
	e.Use(RequestLogging(log))
	e.Use(Metrics(cfg.Metrics))

	h := &handler{svc: svc, log: log}
	h.RegisterRoutes(e)

	// Expose Prometheus metrics endpoint for scraping
	e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))

	return &Server{echo: e, config: cfg, log: log}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server in the background. A listen failure is sent on the returned channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.Addr()).Msg("http server listening")
		if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info().Msg("http server stopped gracefully")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// WithHost sets server host.
func WithHost(host string) ServerOption {
	return func(c *ServerConfig) {
		c.Host = host
	}
}

// WithPort sets server port.
func WithPort(port int) ServerOption {
	return func(c *ServerConfig) {
		c.Port = port
	}
}

// WithTimeouts sets read/write/shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

// WithLogger sets the request logger.
func WithLogger(log *zerolog.Logger) ServerOption {
	return func(c *ServerConfig) {
		c.Logger = log
	}
}

// WithMetrics sets the Prometheus recorder served on /metrics.
func WithMetrics(m *metrics.Recorder) ServerOption {
	return func(c *ServerConfig) {
		c.Metrics = m
	}
}
