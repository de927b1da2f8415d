// Package registry builds the configured object store backend
package registry

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/storage"
	"github.com/gear6io/pqview/server/storage/filesystem"
	"github.com/gear6io/pqview/server/storage/memory"
	"github.com/gear6io/pqview/server/storage/minio"
	"github.com/gear6io/pqview/server/storage/s3"
)

// Open creates the backend selected by cfg.Type. fs is only used by the
// filesystem backend; nil means the OS filesystem.
func Open(ctx context.Context, cfg config.StorageConfig, fs afero.Fs, logger zerolog.Logger) (storage.ObjectStore, error) {
	storeType, err := storage.ParseStoreType(cfg.Type)
	if err != nil {
		return nil, err
	}

	var store storage.ObjectStore
	switch storeType {
	case storage.MINIO:
		store, err = minio.NewStore(minio.Options{
			Endpoint:     cfg.Endpoint,
			Region:       cfg.Region,
			Bucket:       cfg.BucketName,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			SessionToken: cfg.SessionToken,
			UseSSL:       cfg.UseSSL,
			UsePathStyle: cfg.UsePathStyle,
		})
	case storage.S3:
		store, err = s3.NewStore(ctx, s3.Options{
			Endpoint:     cfg.Endpoint,
			Region:       cfg.Region,
			Bucket:       cfg.BucketName,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			SessionToken: cfg.SessionToken,
			UsePathStyle: cfg.UsePathStyle,
		})
	case storage.FILESYSTEM:
		if fs == nil {
			fs = afero.NewOsFs()
		}
		root, absErr := filepath.Abs(cfg.Root)
		if absErr != nil {
			return nil, errors.New(storage.ErrInvalidConfig, "cannot resolve storage root", absErr).AddContext("root", cfg.Root)
		}
		store, err = filesystem.NewStore(fs, root)
	case storage.MEMORY:
		name := cfg.BucketName
		if name == "" {
			name = "memory"
		}
		store = memory.NewStore(name)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("type", storeType.String()).
		Str("bucket", cfg.BucketName).
		Str("prefix", cfg.Prefix).
		Msg("Object store initialized")

	return store, nil
}
