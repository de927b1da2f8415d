package minio

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

const scheme = "s3"

// Options configures the minio-go client
type Options struct {
	// Endpoint is host[:port], optionally with an http:// or https:// scheme
	// that overrides UseSSL
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UseSSL       bool
	UsePathStyle bool
}

// Store reads objects from one bucket of an S3-compatible service
type Store struct {
	client *minio.Client
	bucket string
}

var _ storage.ObjectStore = (*Store)(nil)

func NewStore(opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New(storage.ErrInvalidConfig, "bucket name is required", nil)
	}

	endpoint, secure, err := splitEndpoint(opts.Endpoint, opts.UseSSL)
	if err != nil {
		return nil, err
	}

	lookup := minio.BucketLookupAuto
	if opts.UsePathStyle {
		lookup = minio.BucketLookupPath
	}

	var creds *credentials.Credentials
	if opts.AccessKey != "" {
		creds = credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken)
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.IAM{},
		})
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errors.New(storage.ErrInvalidConfig, "failed to create minio client", err).AddContext("endpoint", opts.Endpoint)
	}

	return &Store{client: client, bucket: opts.Bucket}, nil
}

func (s *Store) Type() storage.StoreType {
	return storage.MINIO
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.New(storage.ErrListFailed, "failed to list objects", obj.Err).
				AddContext("bucket", s.bucket).
				AddContext("prefix", prefix)
		}
		infos = append(infos, storage.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return infos, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.openFailure(err, key)
	}

	// GetObject is lazy; Stat issues the request so missing keys fail here
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.openFailure(err, key)
	}

	return obj, nil
}

func (s *Store) URI(key string) string {
	return storage.FormatURI(scheme, s.bucket, key)
}

func (s *Store) Key(uri string) (string, error) {
	return storage.ParseURI(uri, scheme, s.bucket)
}

func (s *Store) openFailure(err error, key string) error {
	code := storage.ErrOpenFailed
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
		code = storage.ErrObjectNotFound
	}
	return errors.New(code, "failed to open object", err).
		AddContext("bucket", s.bucket).
		AddContext("key", key)
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if endpoint == "" {
		return "s3.amazonaws.com", true, nil
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, errors.New(storage.ErrInvalidConfig, "invalid endpoint", err).AddContext("endpoint", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
