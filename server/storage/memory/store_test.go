package memory

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

func TestStoreListFiltersAndSorts(t *testing.T) {
	s := NewStore("test")
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.PutAt("data/b.parquet", []byte("bb"), modified)
	s.Put("data/a.parquet", []byte("a"))
	s.Put("other/c.parquet", []byte("ccc"))

	infos, err := s.List(context.Background(), "data/")
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "data/a.parquet", infos[0].Key)
	assert.Equal(t, int64(1), infos[0].Size)
	assert.Equal(t, "data/b.parquet", infos[1].Key)
	assert.Equal(t, modified, infos[1].LastModified)
}

func TestStoreOpen(t *testing.T) {
	s := NewStore("test")
	payload := []byte("hello")
	s.Put("k", payload)
	payload[0] = 'j'

	rc, err := s.Open(context.Background(), "k")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestStoreOpenMissing(t *testing.T) {
	s := NewStore("test")

	_, err := s.Open(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))
	assert.Equal(t, "nope", errors.GetContext(err)["key"])
}

func TestStoreDelete(t *testing.T) {
	s := NewStore("test")
	s.Put("k", []byte("x"))
	s.Delete("k")
	s.Delete("never-there")

	infos, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestStoreCanceledContext(t *testing.T) {
	s := NewStore("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, "")
	assert.True(t, errors.Is(err, storage.ErrListFailed))
}

func TestStoreURI(t *testing.T) {
	s := NewStore("test")

	uri := s.URI("dir/a.parquet")
	assert.Equal(t, "memory://test/dir/a.parquet", uri)

	key, err := s.Key(uri)
	require.NoError(t, err)
	assert.Equal(t, "dir/a.parquet", key)
	assert.Equal(t, storage.MEMORY, s.Type())
}
