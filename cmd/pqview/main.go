package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/gear6io/pqview/cli"
	"github.com/gear6io/pqview/pkg/errors"
)

func main() {
	// Logs go to stderr so that exports to stdout stay clean
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(cli.WithLogger(ctx, logger)); err != nil {
		pterm.Error.Println(errors.FormatError(err))
		os.Exit(1)
	}
}
