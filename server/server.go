package server

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/protocols/http"
	"github.com/gear6io/pqview/server/shared"
	"github.com/gear6io/pqview/server/storage/registry"
	"github.com/gear6io/pqview/server/viewer"
)

// Server owns the object store client, the viewer and the HTTP listener
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	viewer     *viewer.Service
	httpServer *http.Server
	components []shared.Component
	startTime  time.Time
}

// New creates a new server instance. fs backs staging; nil means the OS
// filesystem.
func New(ctx context.Context, cfg *config.Config, fs afero.Fs, logger zerolog.Logger) (*Server, error) {
	store, err := registry.Open(ctx, cfg.Storage, fs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}

	v, err := viewer.New(cfg, store, fs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}

	httpServer, err := http.NewServer(v, cfg.Server, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &Server{
		config:     cfg,
		logger:     logger.With().Str("component", "server").Logger(),
		viewer:     v,
		httpServer: httpServer,
		components: []shared.Component{v},
		startTime:  time.Now(),
	}, nil
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting pqview server...")

	if err := s.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	s.logger.Info().
		Str("http_address", s.httpServer.Addr()).
		Str("storage", s.config.Storage.Type).
		Str("bucket", s.config.Storage.BucketName).
		Str("prefix", s.config.Storage.Prefix).
		Msg("Server started")
	return nil
}

// Addr is the bound HTTP address
func (s *Server) Addr() string {
	return s.httpServer.Addr()
}

// Shutdown stops accepting requests, then shuts the components down
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server...")

	if err := s.httpServer.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping HTTP server")
	}

	for _, c := range s.components {
		if err := c.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Str("type", c.GetType()).Msg("Error shutting down component")
		}
	}

	s.logger.Info().Msg("Graceful shutdown completed")
	return nil
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}

// GetStatus returns the server status
func (s *Server) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"uptime":     s.GetUptime().String(),
		"start_time": s.startTime,
		"http":       s.httpServer.GetStatus(),
		"storage":    s.config.Storage.Type,
	}
	for _, c := range s.components {
		status[c.GetType()] = c.Status()
	}
	return status
}
