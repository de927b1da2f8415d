// Package table defines the columnar source abstraction the inspector,
// reader and exporter work against.
//
// A Source yields records in file order. Sources that know their row-group
// layout implement RowGroupSource, which lets readers skip whole groups
// without decoding them.
package table

import (
	"context"

	"github.com/gear6io/pqview/server/normalize"
	"github.com/gear6io/pqview/server/types"
)

// PhysicalType is the storage type of a top-level field
type PhysicalType string

const (
	PhysicalBoolean           PhysicalType = "BOOLEAN"
	PhysicalInt32             PhysicalType = "INT32"
	PhysicalInt64             PhysicalType = "INT64"
	PhysicalInt96             PhysicalType = "INT96"
	PhysicalFloat             PhysicalType = "FLOAT"
	PhysicalDouble            PhysicalType = "DOUBLE"
	PhysicalByteArray         PhysicalType = "BYTE_ARRAY"
	PhysicalFixedLenByteArray PhysicalType = "FIXED_LEN_BYTE_ARRAY"
	PhysicalGroup             PhysicalType = "GROUP"
)

type Repetition uint8

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Field describes one top-level field of a source
type Field struct {
	Name       string
	Type       PhysicalType
	Repetition Repetition
	// Annotation is the logical annotation on the field, e.g. "String" or
	// "Enum"; empty when there is none
	Annotation string
}

// Record is one decoded row. Values are extracted lazily, so records that
// are only counted or skipped cost no conversion.
type Record interface {
	NumFields() int
	Value(i int) normalize.Value
}

// RecordStream iterates records. Record is only valid until the next call
// to Next. Err reports the failure that stopped iteration, if any.
type RecordStream interface {
	Next() bool
	Record() Record
	Err() error
	Close() error
}

// Source is a record-oriented view over one file
type Source interface {
	Fields() []Field
	// Records streams every record in file order
	Records(ctx context.Context) (RecordStream, error)
}

// RowGroupSource exposes the row-group layout of a source
type RowGroupSource interface {
	Source
	NumRowGroups() int
	RowGroupNumRows(i int) int64
	// RowGroupRecords streams the records of group i only
	RowGroupRecords(ctx context.Context, i int) (RecordStream, error)
}

// Counter is implemented by sources whose row count is known without a scan
type Counter interface {
	NumRows() int64
}

// FooterInfo exposes file-level metadata beyond the schema
type FooterInfo interface {
	// Compression returns the codec of the first column chunk of the first
	// row group, false when the file has no row groups
	Compression() (string, bool)
	CreatedBy() string
	// NullCount returns the null count of a top-level field when every
	// row group carries it
	NullCount(field int) (int64, bool)
}

// Scalars normalizes every value of rec into dst, which is grown as
// needed, and returns it
func Scalars(dst []types.Scalar, rec Record) []types.Scalar {
	dst = dst[:0]
	for i := 0; i < rec.NumFields(); i++ {
		dst = append(dst, normalize.Normalize(rec.Value(i)))
	}
	return dst
}
