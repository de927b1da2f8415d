// Package viewer composes the catalog, staging cache, inspector, reader
// and exporter into the operations served to clients. Every operation
// stages its own copy of the file and releases it before returning.
package viewer

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gear6io/pqview/server/catalog"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/export"
	"github.com/gear6io/pqview/server/inspect"
	"github.com/gear6io/pqview/server/reader"
	"github.com/gear6io/pqview/server/shared"
	"github.com/gear6io/pqview/server/staging"
	"github.com/gear6io/pqview/server/storage"
	"github.com/gear6io/pqview/server/storage/parquet"
	"github.com/gear6io/pqview/server/types"
)

const ComponentType = "viewer"

// Service answers list, metadata, page and export requests
type Service struct {
	catalog   *catalog.Catalog
	staging   *staging.Cache
	inspector *inspect.Inspector
	reader    *reader.Reader
	exporter  *export.Pipeline
	parquet   parquet.Options
	pageSize  int
	strategy  reader.Strategy
	prefix    string
	logger    zerolog.Logger
}

var _ shared.Component = (*Service)(nil)

// New wires a Service around store. fs backs the staging directory; nil
// means the OS filesystem.
func New(cfg *config.Config, store storage.ObjectStore, fs afero.Fs, logger zerolog.Logger) (*Service, error) {
	strategy, err := reader.ParseStrategy(cfg.Reader.Strategy)
	if err != nil {
		return nil, err
	}

	return &Service{
		catalog:   catalog.New(store, cfg.Storage.Prefix, logger),
		staging:   staging.New(store, fs, cfg.Staging.Dir, logger),
		inspector: inspect.New(logger),
		reader:    reader.New(strategy, logger),
		exporter: export.New(export.Options{
			FlushRows:    cfg.Export.FlushRows,
			SampleRows:   cfg.Export.SampleRows,
			SheetName:    cfg.Export.SheetName,
			MaxSheetRows: cfg.Export.MaxSheetRows,
		}, logger),
		parquet:  parquet.Options{BatchSize: int64(cfg.Reader.BatchSize)},
		pageSize: cfg.Reader.DefaultPageSize,
		strategy: strategy,
		prefix:   cfg.Storage.Prefix,
		logger:   logger.With().Str("component", ComponentType).Logger(),
	}, nil
}

func (s *Service) GetType() string {
	return ComponentType
}

func (s *Service) Status() map[string]interface{} {
	return map[string]interface{}{
		"prefix":            s.prefix,
		"read_strategy":     string(s.strategy),
		"default_page_size": s.pageSize,
	}
}

// Shutdown has nothing to release; staged files never outlive a request
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Viewer shut down")
	return nil
}

// DefaultPageSize is the page size used when a request names none
func (s *Service) DefaultPageSize() int {
	return s.pageSize
}

func (s *Service) ListFiles(ctx context.Context) ([]types.FileEntry, error) {
	return s.catalog.List(ctx)
}

func (s *Service) Metadata(ctx context.Context, id string) (*types.TableMetadata, error) {
	entry, err := s.catalog.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	var md *types.TableMetadata
	err = s.withFile(ctx, entry, func(f *parquet.File) error {
		var inspectErr error
		md, inspectErr = s.inspector.Inspect(ctx, entry, f)
		return inspectErr
	})
	return md, err
}

// Page returns one window of rows. The page is validated before the file
// is fetched.
func (s *Service) Page(ctx context.Context, id string, page, pageSize int) (*types.RowWindow, error) {
	if err := reader.CheckPage(page, pageSize); err != nil {
		return nil, err
	}
	entry, err := s.catalog.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	var window *types.RowWindow
	err = s.withFile(ctx, entry, func(f *parquet.File) error {
		var (
			stats   reader.ScanStats
			readErr error
		)
		window, readErr = s.reader.Read(ctx, f, inspect.Columns(f), page, pageSize, reader.WithStats(&stats))
		if readErr == nil {
			s.logger.Debug().
				Str("file_id", id).
				Int("page", page).
				Int("page_size", pageSize).
				Int("row_groups_skipped", stats.RowGroupsSkipped).
				Int("row_groups_opened", stats.RowGroupsOpened).
				Msg("Page served")
		}
		return readErr
	})
	return window, err
}

// Export streams file id to w and returns the number of rows written
func (s *Service) Export(ctx context.Context, id, format string, w io.Writer) (*export.Result, error) {
	job, err := s.PrepareExport(ctx, id, format)
	if err != nil {
		return nil, err
	}
	defer job.Close()
	return job.Run(ctx, w)
}

// PrepareExport does everything an export needs before output starts:
// the format is parsed, the file staged and its schema read. Callers that
// stream the output later, like HTTP handlers, must Close the job.
func (s *Service) PrepareExport(ctx context.Context, id, format string) (*ExportJob, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	entry, err := s.catalog.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	staged, err := s.staging.Stage(ctx, entry.RemotePath)
	if err != nil {
		return nil, err
	}
	pf, err := parquet.Open(staged, s.parquet)
	if err != nil {
		staged.Close()
		return nil, err
	}

	return &ExportJob{
		Format:   f,
		FileName: f.FileName(entry.Name),
		entry:    entry,
		staged:   staged,
		file:     pf,
		columns:  inspect.Columns(pf),
		exporter: s.exporter,
		logger:   s.logger,
	}, nil
}

// withFile stages entry, opens it and hands it to fn. The staged copy is
// removed on every path.
func (s *Service) withFile(ctx context.Context, entry types.FileEntry, fn func(*parquet.File) error) error {
	return s.staging.With(ctx, entry.RemotePath, func(sf *staging.StagedFile) error {
		f, err := parquet.Open(sf, s.parquet)
		if err != nil {
			s.logger.Warn().Err(err).Str("file_id", entry.ID).Str("path", entry.RemotePath).Msg("Cannot read parquet file")
			return err
		}
		defer f.Close()
		return fn(f)
	})
}

// ExportJob is a staged, opened file ready to be exported once
type ExportJob struct {
	Format   export.Format
	FileName string

	entry    types.FileEntry
	staged   *staging.StagedFile
	file     *parquet.File
	columns  []types.ColumnSchema
	exporter *export.Pipeline
	logger   zerolog.Logger
	workbook *export.Workbook

	closeOnce sync.Once
	closeErr  error
}

func (j *ExportJob) ContentType() string {
	return j.Format.ContentType()
}

// Build reads a spreadsheet export in full before anything is written, so
// a scan failure is still reported as an error instead of a broken file.
// CSV exports stream; Build does nothing for them.
func (j *ExportJob) Build(ctx context.Context) error {
	if j.Format != export.FormatXLSX || j.workbook != nil {
		return nil
	}
	wb, err := j.exporter.BuildWorkbook(ctx, j.file, j.columns)
	if err != nil {
		j.logger.Error().Err(err).
			Str("file_id", j.entry.ID).
			Str("format", string(j.Format)).
			Msg("Export aborted")
		return err
	}
	j.workbook = wb
	return nil
}

// Run writes the export to w, using the workbook from Build when there is one
func (j *ExportJob) Run(ctx context.Context, w io.Writer) (*export.Result, error) {
	var (
		res *export.Result
		err error
	)
	if j.workbook != nil {
		_, err = j.workbook.WriteTo(w)
		res = &j.workbook.Result
	} else {
		res, err = j.exporter.Export(ctx, j.file, j.columns, j.Format, w)
	}
	if err != nil {
		j.logger.Error().Err(err).
			Str("file_id", j.entry.ID).
			Str("format", string(j.Format)).
			Msg("Export aborted")
		return nil, err
	}
	j.logger.Debug().
		Str("file_id", j.entry.ID).
		Str("format", string(j.Format)).
		Int64("rows", res.Rows).
		Msg("Export finished")
	return res, nil
}

// Close releases the parquet reader and any built workbook, then deletes the
// staged copy
func (j *ExportJob) Close() error {
	j.closeOnce.Do(func() {
		if j.workbook != nil {
			j.workbook.Close()
		}
		j.file.Close()
		j.closeErr = j.staged.Close()
	})
	return j.closeErr
}
