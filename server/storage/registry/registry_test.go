package registry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/storage"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Type: "mem", BucketName: "files"}, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, storage.MEMORY, store.Type())
	assert.Equal(t, "memory://files/a.parquet", store.URI("a.parquet"))
}

func TestOpenFilesystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/data", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/srv/data/x.parquet", []byte("PAR1"), 0o644))

	store, err := Open(context.Background(), config.StorageConfig{Type: "filesystem", Root: "/srv/data"}, fs, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, storage.FILESYSTEM, store.Type())

	infos, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "x.parquet", infos[0].Key)
}

func TestOpenFilesystemMissingRoot(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Type: "fs", Root: "/absent"}, afero.NewMemMapFs(), zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrInvalidConfig))
}

func TestOpenObjectStores(t *testing.T) {
	cfg := config.StorageConfig{
		Endpoint:     "http://127.0.0.1:9000",
		Region:       "us-east-1",
		BucketName:   "files",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	}

	for _, typ := range []string{"minio", "s3"} {
		t.Run(typ, func(t *testing.T) {
			c := cfg
			c.Type = typ
			store, err := Open(context.Background(), c, nil, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, "s3://files/k.parquet", store.URI("k.parquet"))
		})
	}
}

func TestOpenUnknownType(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Type: "gcs"}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUnsupportedType))
}
