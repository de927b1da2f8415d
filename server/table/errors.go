package table

import "github.com/gear6io/pqview/pkg/errors"

// ErrSchemaReadFailed is returned when a file's structure cannot be read:
// a missing or corrupt footer, an empty file, or a schema without fields
var ErrSchemaReadFailed = errors.MustNewCode("schema.read_failed")
