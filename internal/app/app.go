// Package app runs the optional status server alongside a modeling run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"hmiscli/internal/config"
	"hmiscli/internal/infrastructure"
	handlers "hmiscli/internal/transport/http"
)

// StatusServer serves model progress over HTTP
type StatusServer struct {
	Config config.ServerConfig
	Logger *slog.Logger
	Server *http.Server

	listener net.Listener
}

// NewStatusServer wires the status routes. Metrics are served when the
// telemetry has a Prometheus handler.
func NewStatusServer(cfg config.ServerConfig, source handlers.StatusSource, tel *infrastructure.Telemetry, logger *slog.Logger) *StatusServer {
	logger = infrastructure.WithComponent(logger, "status_server")
	var metrics http.Handler
	if tel != nil {
		metrics = tel.PrometheusHTTP
	}
	return &StatusServer{
		Config: cfg,
		Logger: logger,
		Server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handlers.NewRouter(source, metrics, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start listens on the configured address and serves in the background.
// cancel is called if the server stops with an error.
func (s *StatusServer) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Config.Addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			if cancel != nil {
				cancel()
			}
		}
	}()

	s.Logger.InfoContext(ctx, "Status server started", slog.String("address", s.Addr()))
	return nil
}

// Addr is the bound address once started
func (s *StatusServer) Addr() string {
	if s.listener == nil {
		return s.Config.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down
func (s *StatusServer) Stop(ctx context.Context) error {
	if s.Config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.ShutdownTimeout)
		defer cancel()
	}
	s.Logger.InfoContext(ctx, "Shutting down status server")
	if err := s.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
