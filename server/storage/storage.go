// Package storage defines the object store capability the catalog and
// staging cache depend on. Backends live in subpackages.
package storage

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gear6io/pqview/pkg/errors"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore lists and reads objects in one bucket-like namespace
type ObjectStore interface {
	// List returns every object whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Open streams the object stored under key. A missing key yields
	// ErrObjectNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// URI renders the public location of key, e.g. s3://bucket/key
	URI(key string) string
	// Key parses a location produced by URI back into a key
	Key(uri string) (string, error)
	Type() StoreType
}

// FormatURI joins scheme, bucket and key into scheme://bucket/key
func FormatURI(scheme, bucket, key string) string {
	return scheme + "://" + bucket + "/" + key
}

// ParseURI is the inverse of FormatURI. Keys are taken verbatim, so they
// may contain any character including '?' and '%'.
func ParseURI(uri, scheme, bucket string) (string, error) {
	rest, ok := strings.CutPrefix(uri, scheme+"://")
	if !ok {
		return "", errors.New(ErrInvalidURI, "unexpected scheme", nil).
			AddContext("uri", uri).
			AddContext("scheme", scheme)
	}

	gotBucket, key, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		return "", errors.New(ErrInvalidURI, "location has no object key", nil).AddContext("uri", uri)
	}
	if gotBucket != bucket {
		return "", errors.New(ErrInvalidURI, "location belongs to another bucket", nil).
			AddContext("uri", uri).
			AddContext("bucket", bucket)
	}
	return key, nil
}
