package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/pqview/pkg/errors"
)

func TestURIRoundTrip(t *testing.T) {
	uri := FormatURI("s3", "bucket", "data/2024/a?b%c.parquet")
	assert.Equal(t, "s3://bucket/data/2024/a?b%c.parquet", uri)

	key, err := ParseURI(uri, "s3", "bucket")
	require.NoError(t, err)
	assert.Equal(t, "data/2024/a?b%c.parquet", key)
}

func TestParseURIRejects(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"wrong scheme", "file://bucket/a.parquet"},
		{"wrong bucket", "s3://other/a.parquet"},
		{"no key", "s3://bucket/"},
		{"no slash", "s3://bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURI(tt.uri, "s3", "bucket")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidURI))
		})
	}
}

func TestParseStoreType(t *testing.T) {
	tests := []struct {
		in      string
		want    StoreType
		wantErr bool
	}{
		{"minio", MINIO, false},
		{"S3", S3, false},
		{"aws", S3, false},
		{"fs", FILESYSTEM, false},
		{" Local ", FILESYSTEM, false},
		{"mem", MEMORY, false},
		{"gcs", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStoreType(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}
