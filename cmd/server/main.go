package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server"
	"github.com/gear6io/pqview/server/config"
)

const configFile = "pqview.yml"

func main() {
	// Load server configuration first
	cfg, loadErr := config.LoadConfig(configFile)
	if loadErr != nil {
		if !errors.Is(loadErr, config.ErrConfigFileReadFailed) {
			fmt.Fprintln(os.Stderr, errors.FormatError(loadErr))
			os.Exit(1)
		}
		// no config file: defaults plus environment
		cfg = config.LoadDefaultConfig()
		if err := config.ApplyEnv(cfg); err != nil {
			fmt.Fprintln(os.Stderr, errors.FormatError(err))
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, errors.FormatError(err))
			os.Exit(1)
		}
	}

	// Initialize logger with configuration
	logger, closer, err := config.SetupLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to setup logger: %v", err))
	}
	defer closer.Close()

	if loadErr != nil {
		logger.Info().Str("file", configFile).Msg("Config file not found, using defaults and environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create server instance
	srv, err := server.New(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create server")
	}

	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info().Msg("Shutting down pqview server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
	}

	logger.Info().Msg("Server stopped gracefully")
}
