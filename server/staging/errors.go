package staging

import "github.com/gear6io/pqview/pkg/errors"

// Staging-specific error codes
var (
	ErrStagingFailed = errors.MustNewCode("staging.failed")
)
