package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

const testBucket = "warehouse"

func fakeStore(t *testing.T, objects map[string]string) *Store {
	t.Helper()
	ctx := context.Background()

	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	s, err := NewStore(ctx, Options{
		Endpoint:     ts.URL,
		Region:       "us-east-1",
		Bucket:       testBucket,
		AccessKey:    "access",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)

	for key, body := range objects {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(testBucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader([]byte(body)),
		})
		require.NoError(t, err)
	}
	return s
}

func TestStoreList(t *testing.T) {
	s := fakeStore(t, map[string]string{
		"events/2024/a.parquet": "aaa",
		"events/2024/b.parquet": "b",
		"tmp/c.parquet":         "c",
	})

	infos, err := s.List(context.Background(), "events/")
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "events/2024/a.parquet", infos[0].Key)
	assert.Equal(t, int64(3), infos[0].Size)
	assert.False(t, infos[0].LastModified.IsZero())
}

func TestStoreListPaginates(t *testing.T) {
	objects := make(map[string]string)
	for i := 0; i < 1005; i++ {
		objects[fmt.Sprintf("p/%04d.parquet", i)] = "x"
	}
	s := fakeStore(t, objects)

	infos, err := s.List(context.Background(), "p/")
	require.NoError(t, err)
	assert.Len(t, infos, 1005)
}

func TestStoreOpen(t *testing.T) {
	s := fakeStore(t, map[string]string{"a.parquet": "bytes"})

	rc, err := s.Open(context.Background(), "a.parquet")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestStoreOpenMissing(t *testing.T) {
	s := fakeStore(t, nil)

	_, err := s.Open(context.Background(), "missing.parquet")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))
}

func TestStoreURI(t *testing.T) {
	s := fakeStore(t, nil)

	assert.Equal(t, "s3://warehouse/x/y.parquet", s.URI("x/y.parquet"))

	_, err := s.Key("s3://elsewhere/x/y.parquet")
	assert.True(t, errors.Is(err, storage.ErrInvalidURI))
	assert.Equal(t, storage.S3, s.Type())
}

func TestNewStoreRequiresBucket(t *testing.T) {
	_, err := NewStore(context.Background(), Options{Region: "us-east-1"})
	assert.True(t, errors.Is(err, storage.ErrInvalidConfig))
}
