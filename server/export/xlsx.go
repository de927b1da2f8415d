package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 80
	// default sheet of a new workbook
	initialSheet = "Sheet1"
)

// sheetWriter streams rows into a workbook, starting a new sheet with the
// same header and column widths whenever the current one is full
type sheetWriter struct {
	f       *excelize.File
	base    string
	maxRows int
	header  []interface{}
	widths  []float64
	style   int

	sw     *excelize.StreamWriter
	sheets int
	row    int
}

func (s *sheetWriter) nextSheet() error {
	if s.sw != nil {
		if err := s.sw.Flush(); err != nil {
			return err
		}
	}

	s.sheets++
	name := s.base
	if s.sheets > 1 {
		name = fmt.Sprintf("%s_%d", s.base, s.sheets)
		if _, err := s.f.NewSheet(name); err != nil {
			return err
		}
	}

	sw, err := s.f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	for i, w := range s.widths {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return err
		}
	}
	if err := sw.SetRow("A1", s.header, excelize.RowOpts{StyleID: s.style}); err != nil {
		return err
	}

	s.sw, s.row = sw, 1
	return nil
}

func (s *sheetWriter) write(values []interface{}) error {
	if s.sw == nil || s.row >= s.maxRows {
		if err := s.nextSheet(); err != nil {
			return err
		}
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.sw.SetRow(cell, values)
}

func (s *sheetWriter) finish() error {
	if s.sw == nil {
		if err := s.nextSheet(); err != nil {
			return err
		}
	}
	return s.sw.Flush()
}

// Workbook is a fully built spreadsheet export that has not been written
// anywhere yet
type Workbook struct {
	Result
	f *excelize.File
}

// WriteTo writes the workbook to w
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	n, err := wb.f.WriteTo(w)
	if err != nil {
		return n, writeFailure("cannot write workbook", err)
	}
	return n, nil
}

// Close removes the temp files excelize spilled sheet data into
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

func (p *Pipeline) writeXLSX(rs table.RecordStream, names []string, w io.Writer) (*Result, error) {
	wb, err := p.buildXLSX(rs, names)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if _, err := wb.WriteTo(w); err != nil {
		return nil, err
	}
	return &wb.Result, nil
}

// buildXLSX buffers the first SampleRows rows to size the columns, then
// streams the rest into the workbook. excelize keeps sheet data in a temp
// file once it grows past its in-memory limit.
func (p *Pipeline) buildXLSX(rs table.RecordStream, names []string) (wb *Workbook, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	if p.opts.SheetName != initialSheet {
		if err := f.SetSheetName(initialSheet, p.opts.SheetName); err != nil {
			return nil, writeFailure("cannot name sheet", err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, writeFailure("cannot create header style", err)
	}

	header := make([]interface{}, len(names))
	widths := make([]float64, len(names))
	for i, n := range names {
		header[i] = n
		widths[i] = textWidth(n)
	}

	wb = &Workbook{f: f}
	res := &wb.Result
	var scalars []types.Scalar
	sample := make([][]interface{}, 0, p.opts.SampleRows)
	for len(sample) < p.opts.SampleRows && rs.Next() {
		scalars = table.Scalars(scalars, rs.Record())
		row := make([]interface{}, len(scalars))
		for i, v := range scalars {
			row[i] = v.Interface()
			if i < len(widths) {
				widths[i] = max(widths[i], textWidth(v.Text()))
			}
		}
		sample = append(sample, row)
	}
	if err := scanErr(rs); err != nil {
		return nil, err
	}
	for i := range widths {
		widths[i] = min(max(widths[i], minColumnWidth), maxColumnWidth)
	}

	sheets := &sheetWriter{
		f:       f,
		base:    p.opts.SheetName,
		maxRows: p.opts.MaxSheetRows,
		header:  header,
		widths:  widths,
		style:   style,
	}

	for _, row := range sample {
		if err := sheets.write(row); err != nil {
			return nil, writeFailure("cannot write spreadsheet row", err)
		}
		res.Rows++
	}

	row := make([]interface{}, len(names))
	for rs.Next() {
		scalars = table.Scalars(scalars, rs.Record())
		row = row[:0]
		for _, v := range scalars {
			row = append(row, v.Interface())
		}
		if err := sheets.write(row); err != nil {
			return nil, writeFailure("cannot write spreadsheet row", err)
		}
		res.Rows++
	}
	if err := scanErr(rs); err != nil {
		return nil, err
	}

	if err := sheets.finish(); err != nil {
		return nil, writeFailure("cannot flush spreadsheet", err)
	}
	res.Sheets = sheets.sheets
	return wb, nil
}

// textWidth approximates the column width needed to show s, in characters
func textWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s) + 2)
}
