package export

import "github.com/gear6io/pqview/pkg/errors"

// Export-specific error codes
var (
	ErrUnsupportedFormat = errors.MustNewCode("export.unsupported_format")
	ErrWriteFailed       = errors.MustNewCode("export.write_failed")
)
