package storage

import (
	"strings"

	"github.com/gear6io/pqview/pkg/errors"
)

// StoreType identifies an object store backend
type StoreType string

const (
	// MINIO is an S3-compatible store accessed through minio-go
	MINIO StoreType = "minio"
	// S3 is Amazon S3 (or a compatible endpoint) accessed through the AWS SDK
	S3 StoreType = "s3"
	// FILESYSTEM serves a local directory tree
	FILESYSTEM StoreType = "filesystem"
	// MEMORY keeps objects in process memory
	MEMORY StoreType = "memory"
)

func (t StoreType) String() string {
	return string(t)
}

func (t StoreType) IsValid() bool {
	switch t {
	case MINIO, S3, FILESYSTEM, MEMORY:
		return true
	default:
		return false
	}
}

// ListValidStoreTypes returns every supported backend
func ListValidStoreTypes() []StoreType {
	return []StoreType{MINIO, S3, FILESYSTEM, MEMORY}
}

// ParseStoreType converts a case-insensitive name, or a common alias, to a
// StoreType
func ParseStoreType(s string) (StoreType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minio":
		return MINIO, nil
	case "s3", "aws":
		return S3, nil
	case "filesystem", "fs", "local":
		return FILESYSTEM, nil
	case "memory", "mem":
		return MEMORY, nil
	default:
		return "", errors.New(ErrUnsupportedType, "unsupported storage type", nil).AddContext("type", s)
	}
}
