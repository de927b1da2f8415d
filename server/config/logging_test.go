package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/gear6io/pqview/pkg/errors"
)

func logConfig(path string) *Config {
	cfg := LoadDefaultConfig()
	cfg.Log.FilePath = path
	cfg.Log.Console = false
	cfg.Log.MaxSize = 1
	cfg.Log.MaxBackups = 2
	cfg.Log.MaxAge = 0
	return cfg
}

func TestSetupLoggerWritesJSONToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := logConfig("/var/log/pqview/server.log")

	logger, closer, err := setupLogger(cfg, fs, &bytes.Buffer{})
	require.NoError(t, err)
	logger.Info().Str("file_id", "3").Msg("Read page")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, cfg.Log.FilePath)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Equal(t, "Read page", gjson.Get(line, "message").String())
	assert.Equal(t, "3", gjson.Get(line, "file_id").String())
	assert.Equal(t, "pqview-server", gjson.Get(line, "component").String())
}

func TestSetupLoggerConsoleJSON(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Log.FilePath = ""
	cfg.Log.Format = "json"

	var console bytes.Buffer
	logger, closer, err := setupLogger(cfg, afero.NewMemMapFs(), &console)
	require.NoError(t, err)
	defer closer.Close()

	logger.Warn().Msg("staging slow")
	assert.Equal(t, "warn", gjson.Get(console.String(), "level").String())
}

func TestCleanupTruncatesExistingLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := logConfig("/logs/pqview.log")
	cfg.Log.Cleanup = true
	require.NoError(t, afero.WriteFile(fs, cfg.Log.FilePath, []byte("old line\n"), 0o644))

	_, closer, err := setupLogger(cfg, fs, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, cfg.Log.FilePath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRotationKeepsNewestBackups(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := logConfig("/logs/pqview.log")

	for _, stamp := range []string{"2026-01-01-00-00-00", "2026-02-01-00-00-00", "2026-03-01-00-00-00"} {
		require.NoError(t, afero.WriteFile(fs, cfg.Log.FilePath+"."+stamp, []byte("x"), 0o644))
	}
	require.NoError(t, afero.WriteFile(fs, cfg.Log.FilePath, bytes.Repeat([]byte("a"), 1<<20), 0o644))

	lm := newLogManager(&cfg.Log, fs)
	lm.now = func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	_, err := lm.Open()
	require.NoError(t, err)
	defer lm.Close()

	info, err := fs.Stat(cfg.Log.FilePath)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "a fresh file replaces the rotated one")

	for name, kept := range map[string]bool{
		"2026-04-01-00-00-00": true,
		"2026-03-01-00-00-00": true,
		"2026-02-01-00-00-00": false,
		"2026-01-01-00-00-00": false,
	} {
		ok, err := afero.Exists(fs, cfg.Log.FilePath+"."+name)
		require.NoError(t, err)
		assert.Equal(t, kept, ok, name)
	}
}

func TestRotationDropsExpiredBackups(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := logConfig("/logs/pqview.log")
	cfg.Log.MaxBackups = 0
	cfg.Log.MaxAge = 7

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	stale := cfg.Log.FilePath + ".2026-03-01-00-00-00"
	require.NoError(t, afero.WriteFile(fs, stale, []byte("x"), 0o644))
	require.NoError(t, fs.Chtimes(stale, now.AddDate(0, 0, -30), now.AddDate(0, 0, -30)))
	require.NoError(t, afero.WriteFile(fs, cfg.Log.FilePath, bytes.Repeat([]byte("a"), 1<<20), 0o644))

	lm := newLogManager(&cfg.Log, fs)
	lm.now = func() time.Time { return now }
	_, err := lm.Open()
	require.NoError(t, err)
	defer lm.Close()

	ok, err := afero.Exists(fs, stale)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSmallLogIsNotRotated(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := logConfig("/logs/pqview.log")
	require.NoError(t, afero.WriteFile(fs, cfg.Log.FilePath, []byte("line\n"), 0o644))

	lm := newLogManager(&cfg.Log, fs)
	_, err := lm.Open()
	require.NoError(t, err)
	require.NoError(t, lm.Close())
	require.NoError(t, lm.Close())

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenRequiresPath(t *testing.T) {
	cfg := logConfig("")
	_, err := newLogManager(&cfg.Log, afero.NewMemMapFs()).Open()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLogFilePathRequired))
}
