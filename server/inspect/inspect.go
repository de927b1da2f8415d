// Package inspect derives table metadata from a columnar source
package inspect

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

// logicalTypes maps physical storage types to the canonical column types.
// Anything missing, nested groups included, is OTHER.
var logicalTypes = map[table.PhysicalType]types.LogicalType{
	table.PhysicalBoolean:   types.LogicalBool,
	table.PhysicalInt32:     types.LogicalInt32,
	table.PhysicalInt64:     types.LogicalInt64,
	table.PhysicalFloat:     types.LogicalFloat32,
	table.PhysicalDouble:    types.LogicalFloat64,
	table.PhysicalByteArray: types.LogicalBinary,
}

// LogicalType returns the canonical type of a physical type
func LogicalType(pt table.PhysicalType) types.LogicalType {
	if lt, ok := logicalTypes[pt]; ok {
		return lt
	}
	return types.LogicalOther
}

// Columns describes the fields of src in declared order. Null counts are
// taken from the footer when src carries them; distinct counts are never
// known.
func Columns(src table.Source) []types.ColumnSchema {
	footer, _ := src.(table.FooterInfo)

	fields := src.Fields()
	columns := make([]types.ColumnSchema, len(fields))
	for i, f := range fields {
		col := types.ColumnSchema{
			Name:         f.Name,
			LogicalType:  LogicalType(f.Type),
			PhysicalType: string(f.Type),
			Nullable:     f.Repetition != table.Required,
		}
		if footer != nil {
			col.Stats.NullCount, col.Stats.NullCountKnown = footer.NullCount(i)
		}
		columns[i] = col
	}
	return columns
}

// Inspector builds TableMetadata for listed files
type Inspector struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Inspector {
	return &Inspector{logger: logger.With().Str("component", "inspect").Logger()}
}

// Inspect reads schema, row counts and footer details of src. Sources
// without row-group metadata or a row count are scanned once to count.
func (in *Inspector) Inspect(ctx context.Context, entry types.FileEntry, src table.Source) (*types.TableMetadata, error) {
	if len(src.Fields()) == 0 {
		return nil, errors.New(ErrSchemaReadFailed, "file has no columns", nil).AddContext("file_id", entry.ID)
	}

	meta := &types.TableMetadata{
		FileEntry:   entry,
		Columns:     Columns(src),
		Format:      types.FormatParquet,
		Compression: types.CompressionUnknown,
		CreatedAt:   entry.LastModified,
	}

	switch s := src.(type) {
	case table.RowGroupSource:
		meta.Statistics.RowGroupCount = int32(s.NumRowGroups())
		for g := 0; g < s.NumRowGroups(); g++ {
			meta.RowCount += s.RowGroupNumRows(g)
		}
	case table.Counter:
		meta.RowCount = s.NumRows()
	default:
		n, err := countRecords(ctx, src)
		if err != nil {
			return nil, errors.New(ErrSchemaReadFailed, "cannot count records", err).AddContext("file_id", entry.ID)
		}
		meta.RowCount = n
	}

	if footer, ok := src.(table.FooterInfo); ok {
		if codec, ok := footer.Compression(); ok {
			meta.Compression = codec
		}
		meta.CreatedBy = footer.CreatedBy()
	}

	meta.Statistics.TotalSize = entry.SizeBytes
	meta.Statistics.AverageRowGroupSize = float64(entry.SizeBytes) / float64(max(meta.Statistics.RowGroupCount, 1))

	in.logger.Debug().
		Str("file_id", entry.ID).
		Int("columns", len(meta.Columns)).
		Int64("rows", meta.RowCount).
		Int32("row_groups", meta.Statistics.RowGroupCount).
		Msg("Inspected file")

	return meta, nil
}

func countRecords(ctx context.Context, src table.Source) (int64, error) {
	rs, err := src.Records(ctx)
	if err != nil {
		return 0, err
	}
	defer rs.Close()

	var n int64
	for rs.Next() {
		n++
	}
	return n, rs.Err()
}
