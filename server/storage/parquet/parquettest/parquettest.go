// Package parquettest writes small Parquet files for tests
package parquettest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

// Options controls the physical layout of a written file
type Options struct {
	// MaxRowGroupLength caps rows per row group; 0 keeps everything in one
	MaxRowGroupLength int64
	Compression       compress.Compression
	CreatedBy         string
	// DisableStats omits column statistics from the footer
	DisableStats bool
}

// Write encodes rows, given as one []any per row in schema order, into a
// Parquet file. nil cells are nulls. Lists take []any and structs take
// []any in field order. With no rows the file has no row groups.
func Write(t testing.TB, sc *arrow.Schema, rows [][]any, opts Options) []byte {
	t.Helper()

	props := []parquet.WriterProperty{
		parquet.WithCompression(opts.Compression),
		parquet.WithStats(!opts.DisableStats),
	}
	if opts.MaxRowGroupLength > 0 {
		props = append(props, parquet.WithMaxRowGroupLength(opts.MaxRowGroupLength))
	}
	if opts.CreatedBy != "" {
		props = append(props, parquet.WithCreatedBy(opts.CreatedBy))
	}

	var buf bytes.Buffer
	w, err := pqarrow.NewFileWriter(sc, &buf, parquet.NewWriterProperties(props...), pqarrow.DefaultWriterProps())
	require.NoError(t, err)

	if len(rows) > 0 {
		rec := Record(t, sc, rows)
		defer rec.Release()
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// Record builds an Arrow record from rows
func Record(t testing.TB, sc *arrow.Schema, rows [][]any) arrow.Record {
	t.Helper()

	b := array.NewRecordBuilder(memory.DefaultAllocator, sc)
	defer b.Release()

	for r, row := range rows {
		require.Len(t, row, len(sc.Fields()), "row %d", r)
		for c, v := range row {
			require.NoError(t, appendValue(b.Field(c), v), "row %d column %s", r, sc.Field(c).Name)
		}
	}
	return b.NewRecord()
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch bb := b.(type) {
	case *array.BooleanBuilder:
		bb.Append(v.(bool))
	case *array.Int32Builder:
		bb.Append(int32(toInt(v)))
	case *array.Int64Builder:
		bb.Append(toInt(v))
	case *array.Float32Builder:
		bb.Append(float32(toFloat(v)))
	case *array.Float64Builder:
		bb.Append(toFloat(v))
	case *array.StringBuilder:
		bb.Append(v.(string))
	case *array.BinaryBuilder:
		switch s := v.(type) {
		case string:
			bb.AppendString(s)
		default:
			bb.Append(s.([]byte))
		}
	case *array.FixedSizeBinaryBuilder:
		bb.Append(v.([]byte))
	case *array.ListBuilder:
		bb.Append(true)
		for _, e := range v.([]any) {
			if err := appendValue(bb.ValueBuilder(), e); err != nil {
				return err
			}
		}
	case *array.StructBuilder:
		members := v.([]any)
		if len(members) != bb.NumField() {
			return fmt.Errorf("struct wants %d members, got %d", bb.NumField(), len(members))
		}
		bb.Append(true)
		for i, m := range members {
			if err := appendValue(bb.FieldBuilder(i), m); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	default:
		panic(fmt.Sprintf("not an integer: %T", v))
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("not a float: %T", v))
	}
}

// SequenceSchema is the schema of Sequence files
var SequenceSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
}, nil)

// SequenceRows returns n rows of SequenceSchema: row i has id i, name
// "row-i" and score i*1.5, with every seventh score null
func SequenceRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		var score any = float64(i) * 1.5
		if i%7 == 6 {
			score = nil
		}
		rows[i] = []any{int64(i), fmt.Sprintf("row-%d", i), score}
	}
	return rows
}

// Sequence writes n SequenceRows split into row groups of groupLen rows
func Sequence(t testing.TB, n int, groupLen int64) []byte {
	t.Helper()
	return Write(t, SequenceSchema, SequenceRows(n), Options{
		MaxRowGroupLength: groupLen,
		Compression:       compress.Codecs.Snappy,
		CreatedBy:         "pqview fixtures",
	})
}

// CorruptRowGroup returns a copy of data whose first column chunk in row
// group rg is overwritten with 0xFF. The footer stays intact, so the file
// opens and the groups before rg still decode.
func CorruptRowGroup(t testing.TB, data []byte, rg int) []byte {
	t.Helper()

	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer rdr.Close()

	require.Less(t, rg, rdr.NumRowGroups())
	chunk, err := rdr.MetaData().RowGroup(rg).ColumnChunk(0)
	require.NoError(t, err)

	start := chunk.DataPageOffset()
	if chunk.HasDictionaryPage() && chunk.DictionaryPageOffset() > 0 {
		start = min(start, chunk.DictionaryPageOffset())
	}
	end := start + chunk.TotalCompressedSize()
	require.LessOrEqual(t, end, int64(len(data)))

	out := bytes.Clone(data)
	for i := start; i < end; i++ {
		out[i] = 0xFF
	}
	return out
}
