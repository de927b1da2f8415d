// Package staging copies remote objects to exclusive local temp files so
// that columnar readers get random access
package staging

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
	"github.com/gear6io/pqview/utils"
)

const fileExt = ".parquet"

// Cache stages objects of one store. Every Stage call downloads its own
// copy; nothing is shared between callers.
type Cache struct {
	store  storage.ObjectStore
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// New creates a cache writing temp files under dir on fs. An empty dir
// means the OS temp directory, a nil fs the OS filesystem.
func New(store storage.ObjectStore, fs afero.Fs, dir string, logger zerolog.Logger) *Cache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &Cache{
		store:  store,
		fs:     fs,
		dir:    dir,
		logger: logger.With().Str("component", "staging").Logger(),
	}
}

// Stage downloads the object at remotePath. The returned file is complete
// and positioned at offset 0; the caller must Close it.
func (c *Cache) Stage(ctx context.Context, remotePath string) (*StagedFile, error) {
	key, err := c.store.Key(remotePath)
	if err != nil {
		return nil, c.failure("cannot resolve object key", remotePath, err)
	}

	body, err := c.store.Open(ctx, key)
	if err != nil {
		return nil, c.failure("cannot open object", remotePath, err)
	}
	defer body.Close()

	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return nil, c.failure("cannot create staging directory", remotePath, err)
	}

	f, err := afero.TempFile(c.fs, c.dir, utils.StagingPattern(fileExt))
	if err != nil {
		return nil, c.failure("cannot create staging file", remotePath, err)
	}
	staged := &StagedFile{file: f, fs: c.fs, path: f.Name()}

	size, err := io.Copy(f, &ctxReader{ctx: ctx, r: body})
	if err == nil {
		err = f.Sync()
	}
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		staged.Close()
		return nil, c.failure("cannot copy object", remotePath, err)
	}
	staged.size = size

	c.logger.Debug().
		Str("remote_path", remotePath).
		Str("local_path", staged.path).
		Int64("size", size).
		Msg("Staged object")

	return staged, nil
}

// With stages remotePath, runs fn on it and releases it on every path
func (c *Cache) With(ctx context.Context, remotePath string, fn func(*StagedFile) error) error {
	sf, err := c.Stage(ctx, remotePath)
	if err != nil {
		return err
	}
	defer sf.Close()

	return fn(sf)
}

func (c *Cache) failure(msg, remotePath string, cause error) error {
	c.logger.Warn().Err(cause).Str("remote_path", remotePath).Msg("Staging failed")
	return errors.New(ErrStagingFailed, msg, cause).AddContext("remote_path", remotePath)
}

// StagedFile is an exclusively owned local copy of a remote object. It is
// deleted by Close, which may be called any number of times.
type StagedFile struct {
	file afero.File
	fs   afero.Fs
	path string
	size int64

	once     sync.Once
	closeErr error
}

func (s *StagedFile) Read(p []byte) (int, error) { return s.file.Read(p) }

func (s *StagedFile) ReadAt(p []byte, off int64) (int, error) { return s.file.ReadAt(p, off) }

func (s *StagedFile) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

// Size is the number of bytes staged
func (s *StagedFile) Size() int64 { return s.size }

// Path is the location of the temp file on the staging filesystem
func (s *StagedFile) Path() string { return s.path }

func (s *StagedFile) Close() error {
	s.once.Do(func() {
		closeErr := s.file.Close()
		removeErr := s.fs.Remove(s.path)
		if closeErr != nil {
			s.closeErr = closeErr
		} else if removeErr != nil && !os.IsNotExist(removeErr) {
			s.closeErr = removeErr
		}
	})
	return s.closeErr
}

// ctxReader stops a copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
