package inspect

import "github.com/gear6io/pqview/server/table"

// ErrSchemaReadFailed is raised when a file's structure cannot be read or
// describes no columns
var ErrSchemaReadFailed = table.ErrSchemaReadFailed
