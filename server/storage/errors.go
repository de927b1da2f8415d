package storage

import "github.com/gear6io/pqview/pkg/errors"

// Storage-specific error codes
var (
	ErrObjectNotFound  = errors.MustNewCode("storage.object_not_found")
	ErrListFailed      = errors.MustNewCode("storage.list_failed")
	ErrOpenFailed      = errors.MustNewCode("storage.open_failed")
	ErrInvalidURI      = errors.MustNewCode("storage.invalid_uri")
	ErrUnsupportedType = errors.MustNewCode("storage.unsupported_type")
	ErrInvalidConfig   = errors.MustNewCode("storage.invalid_config")
)
