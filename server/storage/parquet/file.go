// Package parquet adapts Parquet files to the table source abstraction
// using arrow-go. Open reads the footer once; rows are decoded in Arrow
// record batches on demand, one row group at a time when asked.
package parquet

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/go-faster/errors"

	pqerrors "github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/normalize"
	"github.com/gear6io/pqview/server/table"
)

// DefaultBatchSize is the number of rows decoded per Arrow batch
const DefaultBatchSize = 1024

// Options tunes record decoding
type Options struct {
	BatchSize int64
	// Parallel decodes the columns of a batch concurrently
	Parallel  bool
	Allocator memory.Allocator
}

// File is an open Parquet file. It does not own the underlying reader;
// closing the File releases decoder state only.
type File struct {
	rdr    *file.Reader
	arrow  *pqarrow.FileReader
	fields []table.Field
	leaf   []int
}

var (
	_ table.RowGroupSource = (*File)(nil)
	_ table.Counter        = (*File)(nil)
	_ table.FooterInfo     = (*File)(nil)
)

// source hides any Close method of the caller's reader from file.Reader,
// which would otherwise close it
type source struct {
	parquet.ReaderAtSeeker
}

// Open parses the footer of the Parquet file behind r
func Open(r parquet.ReaderAtSeeker, opts Options) (*File, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Allocator == nil {
		opts.Allocator = memory.DefaultAllocator
	}

	rdr, err := file.NewParquetReader(source{r})
	if err != nil {
		return nil, pqerrors.New(table.ErrSchemaReadFailed, "cannot read parquet footer", err)
	}

	fields, leaf := describeFields(rdr.MetaData().Schema)
	if len(fields) == 0 {
		rdr.Close()
		return nil, pqerrors.New(table.ErrSchemaReadFailed, "parquet schema has no fields", nil)
	}

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{
		BatchSize: opts.BatchSize,
		Parallel:  opts.Parallel,
	}, opts.Allocator)
	if err != nil {
		rdr.Close()
		return nil, pqerrors.New(table.ErrSchemaReadFailed, "cannot map parquet schema to arrow", err)
	}

	return &File{rdr: rdr, arrow: fr, fields: fields, leaf: leaf}, nil
}

func (f *File) Close() error {
	return f.rdr.Close()
}

func (f *File) Fields() []table.Field {
	return f.fields
}

func (f *File) NumRows() int64 {
	return f.rdr.NumRows()
}

func (f *File) NumRowGroups() int {
	return f.rdr.NumRowGroups()
}

func (f *File) RowGroupNumRows(i int) int64 {
	return f.rdr.MetaData().RowGroup(i).NumRows()
}

func (f *File) CreatedBy() string {
	return f.rdr.MetaData().GetCreatedBy()
}

func (f *File) Compression() (string, bool) {
	if f.rdr.NumRowGroups() == 0 {
		return "", false
	}
	chunk, err := f.rdr.MetaData().RowGroup(0).ColumnChunk(0)
	if err != nil {
		return "", false
	}
	return CodecName(chunk.Compression()), true
}

// NullCount sums the footer null counts of a primitive field. It reports
// false for groups and when any row group lacks the statistic.
func (f *File) NullCount(field int) (int64, bool) {
	if field < 0 || field >= len(f.leaf) || f.leaf[field] < 0 {
		return 0, false
	}

	var total int64
	md := f.rdr.MetaData()
	for g := 0; g < md.NumRowGroups(); g++ {
		chunk, err := md.RowGroup(g).ColumnChunk(f.leaf[field])
		if err != nil {
			return 0, false
		}
		stats, err := chunk.Statistics()
		if err != nil || stats == nil || !stats.HasNullCount() {
			return 0, false
		}
		total += stats.NullCount()
	}
	return total, true
}

func (f *File) Records(ctx context.Context) (table.RecordStream, error) {
	if f.rdr.NumRowGroups() == 0 {
		return &recordStream{ctx: ctx, fields: f.fields, done: true}, nil
	}
	return f.stream(ctx, nil)
}

func (f *File) RowGroupRecords(ctx context.Context, i int) (table.RecordStream, error) {
	return f.stream(ctx, []int{i})
}

func (f *File) stream(ctx context.Context, groups []int) (table.RecordStream, error) {
	rr, err := f.arrow.GetRecordReader(ctx, nil, groups)
	if err != nil {
		return nil, errors.Wrap(err, "open record reader")
	}
	return &recordStream{ctx: ctx, rr: rr, fields: f.fields}, nil
}

// recordStream walks the rows of successive record batches
type recordStream struct {
	ctx    context.Context
	rr     pqarrow.RecordReader
	fields []table.Field
	batch  arrow.Record
	cur    batchRow
	done   bool
	err    error
}

func (s *recordStream) Next() bool {
	if s.batch != nil && s.cur.row+1 < int(s.batch.NumRows()) {
		s.cur.row++
		return true
	}

	for !s.done {
		if err := s.ctx.Err(); err != nil {
			s.err, s.done = err, true
			break
		}
		if !s.rr.Next() {
			// the reader reports io.EOF once the last batch is consumed
			if err := s.rr.Err(); err != nil && !stderrors.Is(err, io.EOF) {
				s.err = errors.Wrap(err, "read record batch")
			}
			s.batch, s.done = nil, true
			break
		}

		s.batch = s.rr.Record()
		if s.batch.NumRows() > 0 {
			s.cur = batchRow{batch: s.batch, fields: s.fields, row: 0}
			return true
		}
	}
	return false
}

func (s *recordStream) Record() table.Record {
	return &s.cur
}

func (s *recordStream) Err() error {
	return s.err
}

func (s *recordStream) Close() error {
	if s.rr != nil {
		s.rr.Release()
		s.rr = nil
	}
	s.batch, s.done = nil, true
	return nil
}

// batchRow is one row of a record batch
type batchRow struct {
	batch  arrow.Record
	fields []table.Field
	row    int
}

func (r *batchRow) NumFields() int {
	return int(r.batch.NumCols())
}

func (r *batchRow) Value(i int) normalize.Value {
	return valueAt(r.batch.Column(i), r.row, r.fields[i].Annotation)
}
