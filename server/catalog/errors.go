package catalog

import "github.com/gear6io/pqview/pkg/errors"

// Catalog-specific error codes
var (
	ErrCatalogUnavailable = errors.MustNewCode("catalog.unavailable")
	ErrFileNotFound       = errors.MustNewCode("catalog.file_not_found")
)
