package reader

import "github.com/gear6io/pqview/pkg/errors"

// Reader-specific error codes
var (
	ErrInvalidPage     = errors.MustNewCode("reader.invalid_page")
	ErrScanFailed      = errors.MustNewCode("reader.scan_failed")
	ErrInvalidStrategy = errors.MustNewCode("reader.invalid_strategy")
)
