// Package reader serves bounded pages of rows from a columnar source.
//
// Sources that expose their row-group layout are read with the row-group
// strategy: whole groups before the page are skipped using metadata row
// counts, so only the groups overlapping the page are decoded. Other
// sources fall back to a linear scan that discards the leading records.
// Either way only the rows of the page are normalized, and a read holds
// no state between calls.
package reader

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

// Strategy selects how pages are located
type Strategy string

const (
	// StrategyAuto uses row groups when the source has them
	StrategyAuto Strategy = "auto"
	// StrategyLinear always scans records from the start
	StrategyLinear Strategy = "linear"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyAuto, "":
		return StrategyAuto, nil
	case StrategyLinear:
		return StrategyLinear, nil
	default:
		return "", errors.New(ErrInvalidStrategy, "unknown read strategy", nil).AddContext("strategy", s)
	}
}

// ScanStats reports the work a read did
type ScanStats struct {
	RowGroupsSkipped    int
	RowGroupsOpened     int
	RecordsDiscarded    int64
	RecordsMaterialized int64
	// RecordsCounted are records past the page read only to learn the total
	RecordsCounted int64
}

type readOptions struct {
	stats *ScanStats
}

type ReadOption func(*readOptions)

// WithStats makes Read fill s
func WithStats(s *ScanStats) ReadOption {
	return func(o *readOptions) { o.stats = s }
}

type Reader struct {
	strategy Strategy
	logger   zerolog.Logger
}

func New(strategy Strategy, logger zerolog.Logger) *Reader {
	if strategy == "" {
		strategy = StrategyAuto
	}
	return &Reader{
		strategy: strategy,
		logger:   logger.With().Str("component", "reader").Logger(),
	}
}

// Read returns rows [page*pageSize, page*pageSize+pageSize) of src. columns
// describe the fields of src in order. A page past the end is empty but
// still reports the total row count.
func (r *Reader) Read(ctx context.Context, src table.Source, columns []types.ColumnSchema, page, pageSize int, opts ...ReadOption) (*types.RowWindow, error) {
	if err := CheckPage(page, pageSize); err != nil {
		return nil, err
	}

	o := readOptions{stats: &ScanStats{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &scan{
		ctx:      ctx,
		names:    types.ColumnNames(columns),
		skip:     skipCount(page, pageSize),
		pageSize: pageSize,
		stats:    o.stats,
	}

	var err error
	if rg, ok := src.(table.RowGroupSource); ok && r.strategy == StrategyAuto {
		err = s.rowGroups(rg)
	} else {
		err = s.linear(src)
	}
	if err != nil {
		return nil, err
	}
	if s.rows == nil {
		s.rows = []types.Row{}
	}

	r.logger.Debug().
		Int("page", page).
		Int("page_size", pageSize).
		Int64("total_rows", s.total).
		Int("row_groups_skipped", o.stats.RowGroupsSkipped).
		Int64("records_discarded", o.stats.RecordsDiscarded).
		Msg("Read page")

	return &types.RowWindow{
		Columns:   columns,
		Rows:      s.rows,
		TotalRows: s.total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// CheckPage rejects a negative page or a non-positive page size
func CheckPage(page, pageSize int) error {
	if page < 0 || pageSize <= 0 {
		return errors.Newf(ErrInvalidPage, "invalid page %d with size %d", page, pageSize).
			AddContext("page", strconv.Itoa(page)).
			AddContext("page_size", strconv.Itoa(pageSize))
	}
	return nil
}

// skipCount is page*pageSize, saturating instead of overflowing
func skipCount(page, pageSize int) int64 {
	if int64(page) > math.MaxInt64/int64(pageSize) {
		return math.MaxInt64
	}
	return int64(page) * int64(pageSize)
}

// scan is the state of one Read
type scan struct {
	ctx      context.Context
	names    []string
	skip     int64
	pageSize int
	stats    *ScanStats

	rows  []types.Row
	total int64
}

func (s *scan) full() bool {
	return len(s.rows) >= s.pageSize
}

func (s *scan) materialize(rec table.Record) {
	values := table.Scalars(make([]types.Scalar, 0, rec.NumFields()), rec)
	s.rows = append(s.rows, types.NewRow(s.names, values))
	s.stats.RecordsMaterialized++
}

func (s *scan) rowGroups(src table.RowGroupSource) error {
	n := src.NumRowGroups()
	for g := 0; g < n; g++ {
		s.total += src.RowGroupNumRows(g)
	}
	s.rows = make([]types.Row, 0, windowLen(s.total, s.skip, s.pageSize))

	for g := 0; g < n && !s.full(); g++ {
		groupRows := src.RowGroupNumRows(g)
		if s.skip >= groupRows {
			s.skip -= groupRows
			s.stats.RowGroupsSkipped++
			continue
		}

		rs, err := src.RowGroupRecords(s.ctx, g)
		if err != nil {
			return scanFailure("cannot open row group", err).AddContext("row_group", strconv.Itoa(g))
		}
		s.stats.RowGroupsOpened++

		for !s.full() && rs.Next() {
			if s.skip > 0 {
				s.skip--
				s.stats.RecordsDiscarded++
				continue
			}
			s.materialize(rs.Record())
		}

		err = rs.Err()
		rs.Close()
		if err != nil {
			return scanFailure("row group scan failed", err).AddContext("row_group", strconv.Itoa(g))
		}
	}
	return nil
}

func (s *scan) linear(src table.Source) error {
	counter, known := src.(table.Counter)
	if known {
		s.total = counter.NumRows()
		if s.skip >= s.total {
			return nil
		}
		s.rows = make([]types.Row, 0, windowLen(s.total, s.skip, s.pageSize))
	}

	rs, err := src.Records(s.ctx)
	if err != nil {
		return scanFailure("cannot open records", err)
	}
	defer rs.Close()

	var seen int64
	for rs.Next() {
		seen++
		switch {
		case seen <= s.skip:
			s.stats.RecordsDiscarded++
		case !s.full():
			s.materialize(rs.Record())
		default:
			s.stats.RecordsCounted++
		}
		if known && s.full() {
			break
		}
	}
	if err := rs.Err(); err != nil {
		return scanFailure("scan failed", err)
	}

	if !known {
		s.total = seen
	}
	return nil
}

// windowLen is min(pageSize, max(0, total-skip))
func windowLen(total, skip int64, pageSize int) int {
	if skip >= total {
		return 0
	}
	return int(min(total-skip, int64(pageSize)))
}

func scanFailure(msg string, cause error) *errors.Error {
	return errors.New(ErrScanFailed, msg, cause)
}
