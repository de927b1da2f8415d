package cli

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/storage/registry"
	"github.com/gear6io/pqview/server/viewer"
)

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "pqview.yml"

type ctxKey string

const loggerKey ctxKey = "logger"

var rootCmd = &cobra.Command{
	Use:   "pqview",
	Short: "Browse Parquet files in object storage",
	Long: `pqview lists the Parquet files under a bucket prefix, shows their
schema and statistics, pages through their rows and exports them to CSV or
Excel.

Storage is configured in pqview.yml or with PQVIEW_* environment variables.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupOutput,
}

var rootOpts = struct {
	configPath string
	verbose    bool
}{}

// newService builds the viewer behind every command; tests replace it
var newService = openService

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// WithLogger stores logger in ctx for the commands
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext retrieves the logger from context
func loggerFromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

func setupOutput(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableStyling()
	}
	if rootOpts.verbose {
		logger := loggerFromContext(cmd.Context()).Level(zerolog.DebugLevel)
		cmd.SetContext(WithLogger(cmd.Context(), logger))
	}
	return nil
}

// loadConfig reads path, falling back to defaults plus environment when
// the default file does not exist
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil || path != DefaultConfigFile {
		return config.LoadConfig(path)
	}

	cfg := config.LoadDefaultConfig()
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(config.ErrConfigValidationFailed, "configuration validation failed", err)
	}
	return cfg, nil
}

func openService(cmd *cobra.Command) (*viewer.Service, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(rootOpts.configPath)
	if err != nil {
		return nil, err
	}
	store, err := registry.Open(ctx, cfg.Storage, nil, logger)
	if err != nil {
		return nil, err
	}
	return viewer.New(cfg, store, nil, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.configPath, "config", "c", "", "config file (default pqview.yml)")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "verbose output")
}
