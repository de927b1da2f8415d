// Package export streams every row of a source into a row-oriented file.
//
// The source is read once, in file order, and only a bounded number of
// rows is held in memory at a time. Format errors are raised before any
// output is written. Spreadsheets reach the writer only once complete, so
// they can also be built up front with BuildWorkbook. A CSV failure in the
// middle of a scan is returned even though part of the output may already
// have reached the writer.
package export

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/reader"
	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

const (
	DefaultFlushRows  = 1000
	DefaultSampleRows = 50
	DefaultSheetName  = "Data"
)

// Options tunes an export Pipeline
type Options struct {
	// FlushRows is how many CSV rows are buffered between flushes
	FlushRows int
	// SampleRows is how many leading rows are used to size spreadsheet columns
	SampleRows int
	SheetName  string
	// MaxSheetRows caps rows per sheet, header included
	MaxSheetRows int
}

func (o Options) withDefaults() Options {
	if o.FlushRows <= 0 {
		o.FlushRows = DefaultFlushRows
	}
	if o.SampleRows < 0 {
		o.SampleRows = 0
	}
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.MaxSheetRows <= 1 || o.MaxSheetRows > excelize.TotalRows {
		o.MaxSheetRows = excelize.TotalRows
	}
	return o
}

// Result summarizes a finished export
type Result struct {
	Rows   int64
	Sheets int
}

type Pipeline struct {
	opts   Options
	logger zerolog.Logger
}

func New(opts Options, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		opts:   opts.withDefaults(),
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Export writes the header and every record of src to w in format
func (p *Pipeline) Export(ctx context.Context, src table.Source, columns []types.ColumnSchema, format Format, w io.Writer) (*Result, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, errors.Newf(ErrUnsupportedFormat, "unsupported export format %q", string(format)).
			AddContext("format", string(format))
	}

	start := time.Now()
	rs, err := openRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	names := types.ColumnNames(columns)
	var res *Result
	if format == FormatXLSX {
		res, err = p.writeXLSX(rs, names, w)
	} else {
		res, err = p.writeCSV(rs, names, w)
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("format", string(format)).Msg("Export failed")
		return nil, err
	}

	p.logger.Info().
		Str("format", string(format)).
		Int64("rows", res.Rows).
		Int("sheets", res.Sheets).
		Dur("took", time.Since(start)).
		Msg("Export completed")
	return res, nil
}

// BuildWorkbook reads all of src into a spreadsheet without writing it
// anywhere, so a scan failure surfaces before any output exists. The
// caller closes the Workbook.
func (p *Pipeline) BuildWorkbook(ctx context.Context, src table.Source, columns []types.ColumnSchema) (*Workbook, error) {
	start := time.Now()
	rs, err := openRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	wb, err := p.buildXLSX(rs, types.ColumnNames(columns))
	if err != nil {
		p.logger.Warn().Err(err).Str("format", string(FormatXLSX)).Msg("Export failed")
		return nil, err
	}

	p.logger.Info().
		Str("format", string(FormatXLSX)).
		Int64("rows", wb.Rows).
		Int("sheets", wb.Sheets).
		Dur("took", time.Since(start)).
		Msg("Workbook built")
	return wb, nil
}

func openRecords(ctx context.Context, src table.Source) (table.RecordStream, error) {
	rs, err := src.Records(ctx)
	if err != nil {
		return nil, errors.New(reader.ErrScanFailed, "cannot open records", err)
	}
	return rs, nil
}

// scanErr reports the stream error, if any, once iteration has stopped
func scanErr(rs table.RecordStream) error {
	if err := rs.Err(); err != nil {
		return errors.New(reader.ErrScanFailed, "scan failed during export", err)
	}
	return nil
}

func writeFailure(msg string, cause error) *errors.Error {
	return errors.New(ErrWriteFailed, msg, cause)
}
