package filesystem

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

// Store serves the files under a root directory as objects. Keys are
// slash-separated paths relative to the root.
type Store struct {
	fs   afero.Fs
	root string
}

var _ storage.ObjectStore = (*Store)(nil)

// NewStore roots a store at dir on fs. dir must exist.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	dir = filepath.Clean(dir)

	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, errors.New(storage.ErrInvalidConfig, "cannot stat storage root", err).AddContext("root", dir)
	}
	if !ok {
		return nil, errors.New(storage.ErrInvalidConfig, "storage root is not a directory", nil).AddContext("root", dir)
	}

	return &Store{
		fs:   afero.NewBasePathFs(fs, dir),
		root: filepath.ToSlash(dir),
	}, nil
}

func (s *Store) Type() storage.StoreType {
	return storage.FILESYSTEM
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo

	err := afero.Walk(s.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		key := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		infos = append(infos, storage.ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.New(storage.ErrListFailed, "failed to walk storage root", err).AddContext("root", s.root)
	}

	return infos, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(storage.ErrOpenFailed, "open canceled", err).AddContext("key", key)
	}

	f, err := s.fs.Open(path.Join("/", key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(storage.ErrObjectNotFound, "object not found", err).AddContext("key", key)
		}
		return nil, errors.New(storage.ErrOpenFailed, "failed to open object", err).AddContext("key", key)
	}

	return f, nil
}

func (s *Store) URI(key string) string {
	return "file://" + s.root + "/" + key
}

func (s *Store) Key(uri string) (string, error) {
	key, ok := strings.CutPrefix(uri, "file://"+s.root+"/")
	if !ok || key == "" {
		return "", errors.New(storage.ErrInvalidURI, "location is outside the storage root", nil).
			AddContext("uri", uri).
			AddContext("root", s.root)
	}
	return key, nil
}
