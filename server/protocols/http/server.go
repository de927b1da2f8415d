package http

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/viewer"
	"github.com/gear6io/pqview/utils"
)

var ErrListenFailed = errors.MustNewCode("http.listen_failed")

// Server represents the HTTP protocol server
type Server struct {
	viewer    *viewer.Service
	cfg       config.ServerConfig
	app       *fiber.App
	logger    zerolog.Logger
	addr      net.Addr
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(v *viewer.Service, cfg config.ServerConfig, logger zerolog.Logger) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		viewer:    v,
		cfg:       cfg,
		logger:    logger.With().Str("component", "http-server").Logger(),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pqview",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: utils.RequestID}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,HEAD,OPTIONS",
		ExposeHeaders: fiber.HeaderContentDisposition,
	}))

	api := s.app.Group("/api")
	api.Get("/files", s.handleListFiles)
	api.Get("/files/:id/metadata", s.handleMetadata)
	api.Get("/files/:id/data", s.handleData)
	api.Get("/files/:id/download", s.handleDownload)

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/info", s.handleInfo)

	return s, nil
}

// App exposes the router, mostly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Address, strconv.Itoa(s.cfg.Port))
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New(ErrListenFailed, "cannot listen", err).AddContext("address", addr)
	}
	s.addr = ln.Addr()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listener(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	s.logger.Info().Str("address", s.addr.String()).Msg("HTTP server started successfully")
	return nil
}

// Addr is the bound address once started
func (s *Server) Addr() string {
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping HTTP server")

	// cancels exports still streaming
	s.cancel()

	if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
		s.logger.Error().Err(err).Msg("Error during HTTP server shutdown")
	}

	s.wg.Wait()

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// GetStatus returns server status
func (s *Server) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"address": s.cfg.Address,
		"port":    s.cfg.Port,
		"uptime":  time.Since(s.startTime).String(),
	}
}
