package config

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gear6io/pqview/pkg/errors"
)

const backupTimeLayout = "2006-01-02-15-04-05"

// LogManager owns the log file: it rotates an oversized file away when the
// file is opened and prunes the rotated backups.
type LogManager struct {
	config *LogConfig
	fs     afero.Fs
	now    func() time.Time
	file   afero.File
}

func newLogManager(cfg *LogConfig, fs afero.Fs) *LogManager {
	return &LogManager{config: cfg, fs: fs, now: time.Now}
}

// Open prepares the log file and returns it for appending. With Cleanup
// set an existing file is truncated first.
func (lm *LogManager) Open() (io.Writer, error) {
	path := lm.config.FilePath
	if path == "" {
		return nil, errors.New(ErrLogFilePathRequired, "no log file path specified", nil)
	}

	if err := lm.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New(ErrLogDirectoryCreationFailed, "failed to create log directory", err).
			AddContext("path", path)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if lm.config.Cleanup {
		flags |= os.O_TRUNC
	} else if err := lm.rotateIfFull(); err != nil {
		return nil, errors.New(ErrLogRotationCheckFailed, "failed to check log rotation", err)
	}

	f, err := lm.fs.OpenFile(path, flags, 0o666)
	if err != nil {
		return nil, errors.New(ErrLogFileOpenFailed, "failed to open log file", err).AddContext("path", path)
	}
	lm.file = f
	return f, nil
}

// rotateIfFull renames the log file to a timestamped backup once it has
// reached MaxSize megabytes
func (lm *LogManager) rotateIfFull() error {
	if lm.config.MaxSize <= 0 {
		return nil
	}

	info, err := lm.fs.Stat(lm.config.FilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.New(ErrLogFileStatFailed, "failed to stat log file", err)
	}
	if info.Size() < int64(lm.config.MaxSize)<<20 {
		return nil
	}

	backup := lm.config.FilePath + "." + lm.now().Format(backupTimeLayout)
	if err := lm.fs.Rename(lm.config.FilePath, backup); err != nil {
		return errors.New(ErrLogRotationFailed, "failed to rotate log file", err).AddContext("backup_path", backup)
	}

	return lm.prune()
}

// prune keeps the newest MaxBackups backups and drops any older than
// MaxAge days
func (lm *LogManager) prune() error {
	dir := filepath.Dir(lm.config.FilePath)
	prefix := filepath.Base(lm.config.FilePath) + "."

	entries, err := afero.ReadDir(lm.fs, dir)
	if err != nil {
		return errors.New(ErrLogBackupReadFailed, "failed to read log directory", err)
	}

	var backups []os.FileInfo
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, e)
		}
	}
	// backup names embed their rotation time, so newest sorts first
	sort.Slice(backups, func(i, j int) bool { return backups[i].Name() > backups[j].Name() })

	cutoff := lm.now().AddDate(0, 0, -lm.config.MaxAge)
	for i, b := range backups {
		expired := lm.config.MaxBackups > 0 && i >= lm.config.MaxBackups
		if lm.config.MaxAge > 0 && b.ModTime().Before(cutoff) {
			expired = true
		}
		if !expired {
			continue
		}

		path := filepath.Join(dir, b.Name())
		if err := lm.fs.Remove(path); err != nil {
			return errors.New(ErrLogBackupRemoveFailed, "failed to remove old backup", err).AddContext("backup_path", path)
		}
	}
	return nil
}

// Close releases the log file
func (lm *LogManager) Close() error {
	if lm.file == nil {
		return nil
	}
	err := lm.file.Close()
	lm.file = nil
	return err
}

// SetupLogger creates a configured zerolog logger based on the configuration.
// The returned closer releases the log file, if any.
func SetupLogger(cfg *Config) (zerolog.Logger, io.Closer, error) {
	return setupLogger(cfg, afero.NewOsFs(), os.Stdout)
}

func setupLogger(cfg *Config, fs afero.Fs, console io.Writer) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	if cfg.Log.Console {
		if cfg.Log.Format == "json" {
			writers = append(writers, console)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        console,
				TimeFormat: time.RFC3339,
			})
		}
	}

	logManager := newLogManager(&cfg.Log, fs)
	if cfg.Log.FilePath != "" {
		fileWriter, err := logManager.Open()
		if err != nil {
			return zerolog.Logger{}, nil, errors.New(ErrLogFileWriterSetupFailed, "failed to setup file writer", err)
		}
		// file output is always JSON
		writers = append(writers, fileWriter)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("component", "pqview-server").
		Logger()

	return logger, logManager, nil
}
