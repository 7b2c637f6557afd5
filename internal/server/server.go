// Package server exposes the trend analyzer over HTTP with echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aouyang1/go-trend/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const bodyLimit = "10M"

// Server wraps an echo instance serving the analysis routes
type Server struct {
	echo   *echo.Echo
	config config.ServerConfig
	log    zerolog.Logger
}

// New creates a server for the handler's routes. Metrics are exposed on metricsCfg.Path from
// gatherer when enabled.
func New(h *Handler, cfg config.ServerConfig, metricsCfg config.MetricsConfig, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	h.RegisterRoutes(e)

	if metricsCfg.Enabled && gatherer != nil {
		e.GET(metricsCfg.Path, echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{echo: e, config: cfg, log: log}
}

// Echo returns the underlying echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully within the configured
// shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Addr()
	s.echo.Server.ReadTimeout = s.config.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("unable to serve on %s, %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down http server, %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}
