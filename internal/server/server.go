// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the Odoo connector
//   - the optional owner notification client
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/deppfellow/odoo-bridge/internal/lib/email"
	"github.com/deppfellow/odoo-bridge/internal/odoo"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/odoo-bridge/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Everything it holds is read-only once
// New returns, so handlers share it across requests without locking.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// Odoo opens one authenticated session per request.
	Odoo *odoo.Connector

	// Notifier is nil when owner notifications are disabled.
	Notifier *email.Client

	// httpServer is configured in SetupHTTPServer and started in Start().
	httpServer *http.Server
}

// New constructs a Server.
//
// Missing Odoo settings do not block startup: the bridge still serves the
// site and /health, and answers submissions with 503.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	return NewWithDialer(cfg, logger, loggerService, odoo.XMLRPCDialer(nil))
}

// NewWithDialer is New with a custom XML-RPC dialer.
func NewWithDialer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, dial odoo.Dialer) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if !cfg.Odoo.IsComplete() {
		logger.Warn().
			Strs("missing", cfg.Odoo.MissingVars()).
			Msg("odoo configuration incomplete, submissions will be rejected")
	}

	notifier := email.NewClient(cfg.Notify, logger)
	if notifier == nil {
		logger.Info().Msg("owner notifications disabled")
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Odoo:          odoo.NewConnector(cfg.Odoo, dial, logger),
		Notifier:      notifier,
	}, nil
}

// SetupHTTPServer configures the internal net/http server.
//
// The actual router/mux is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Bool("odoo_configured", s.Config.Odoo.IsComplete()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server and flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return nil
}
