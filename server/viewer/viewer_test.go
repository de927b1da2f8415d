package viewer

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/catalog"
	"github.com/gear6io/pqview/server/config"
	"github.com/gear6io/pqview/server/export"
	"github.com/gear6io/pqview/server/reader"
	"github.com/gear6io/pqview/server/storage"
	"github.com/gear6io/pqview/server/storage/memory"
	"github.com/gear6io/pqview/server/storage/parquet/parquettest"
	"github.com/gear6io/pqview/server/storage/registry"
	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

const stageDir = "/staging"

func testConfig() *config.Config {
	cfg := config.LoadDefaultConfig()
	cfg.Storage.Type = storage.MEMORY.String()
	cfg.Staging.Dir = stageDir
	return cfg
}

type fixture struct {
	svc   *Service
	store *memory.Store
	fs    afero.Fs
}

// newFixture serves a bucket holding events.parquet (25 rows in groups of
// 10), broken.parquet and a non-parquet object
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore("lake")
	store.Put("broken.parquet", []byte("not really parquet"))
	store.Put("events.parquet", parquettest.Sequence(t, 25, 10))
	store.Put("readme.txt", []byte("hello"))

	fs := afero.NewMemMapFs()
	svc, err := New(testConfig(), store, fs, zerolog.Nop())
	require.NoError(t, err)
	return &fixture{svc: svc, store: store, fs: fs}
}

// staged lists the files left in the staging directory
func (f *fixture) staged(t *testing.T) []string {
	t.Helper()
	infos, err := afero.ReadDir(f.fs, stageDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Reader.Strategy = "sideways"
	_, err := New(cfg, memory.NewStore("lake"), nil, zerolog.Nop())
	assert.True(t, errors.Is(err, reader.ErrInvalidStrategy))
}

func TestComponent(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "viewer", f.svc.GetType())
	assert.NoError(t, f.svc.Shutdown(context.Background()))
	assert.Equal(t, 50, f.svc.DefaultPageSize())
	assert.Equal(t, "auto", f.svc.Status()["read_strategy"])
	assert.Equal(t, 50, f.svc.Status()["default_page_size"])
}

func TestListFiles(t *testing.T) {
	f := newFixture(t)

	files, err := f.svc.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "1", files[0].ID)
	assert.Equal(t, "broken.parquet", files[0].Name)
	assert.Equal(t, "2", files[1].ID)
	assert.Equal(t, "events.parquet", files[1].Name)
	assert.Equal(t, "memory://lake/events.parquet", files[1].RemotePath)
}

func TestMetadata(t *testing.T) {
	f := newFixture(t)

	md, err := f.svc.Metadata(context.Background(), "2")
	require.NoError(t, err)

	assert.Equal(t, "events.parquet", md.Name)
	assert.Equal(t, int64(25), md.RowCount)
	assert.Equal(t, types.FormatParquet, md.Format)
	assert.Equal(t, "SNAPPY", md.Compression)
	assert.Equal(t, int32(3), md.Statistics.RowGroupCount)
	require.Len(t, md.Columns, 3)
	assert.Equal(t, types.LogicalInt64, md.Columns[0].LogicalType)
	assert.False(t, md.Columns[0].Nullable)
	assert.True(t, md.Columns[2].Nullable)

	assert.Empty(t, f.staged(t))
}

func TestMetadataFailures(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Metadata(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrSchemaReadFailed))
	assert.Empty(t, f.staged(t), "staged copy must be removed after a schema failure")

	_, err = f.svc.Metadata(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrFileNotFound))
}

func TestPage(t *testing.T) {
	f := newFixture(t)

	w, err := f.svc.Page(context.Background(), "2", 1, 10)
	require.NoError(t, err)
	require.Len(t, w.Rows, 10)
	assert.Equal(t, int64(25), w.TotalRows)
	assert.Equal(t, int64(10), w.Rows[0].At(0).Int())
	assert.Equal(t, int64(19), w.Rows[9].At(0).Int())
	assert.Equal(t, []string{"id", "name", "score"}, types.ColumnNames(w.Columns))

	w, err = f.svc.Page(context.Background(), "2", 3, 10)
	require.NoError(t, err)
	assert.Empty(t, w.Rows)
	assert.Equal(t, int64(25), w.TotalRows)

	assert.Empty(t, f.staged(t))
}

func TestPageRejectsInvalidWindowBeforeStaging(t *testing.T) {
	f := newFixture(t)

	// an unknown id would fail too, so the page check must come first
	_, err := f.svc.Page(context.Background(), "404", 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reader.ErrInvalidPage))
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	res, err := f.svc.Export(context.Background(), "2", "csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Rows)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 26)
	assert.Equal(t, "id,name,score", lines[0])
	assert.Equal(t, "0,row-0,0", lines[1])
	assert.Equal(t, "6,row-6,", lines[7])
	assert.Empty(t, f.staged(t))
}

func TestPrepareExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PrepareExport(ctx, "2", "parquet")
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))

	_, err = f.svc.PrepareExport(ctx, "1", "csv")
	assert.True(t, errors.Is(err, table.ErrSchemaReadFailed))
	assert.Empty(t, f.staged(t))

	job, err := f.svc.PrepareExport(ctx, "2", "excel")
	require.NoError(t, err)
	assert.Equal(t, "events.xlsx", job.FileName)
	assert.Equal(t, export.FormatXLSX.ContentType(), job.ContentType())
	assert.Len(t, f.staged(t), 1, "the job owns its staged copy until closed")

	require.NoError(t, job.Build(ctx))
	var buf bytes.Buffer
	res, err := job.Run(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Rows)
	assert.NotZero(t, buf.Len())

	require.NoError(t, job.Close())
	require.NoError(t, job.Close())
	assert.Empty(t, f.staged(t))
}

func TestLinearStrategyConfig(t *testing.T) {
	store := memory.NewStore("lake")
	store.Put("events.parquet", parquettest.Sequence(t, 25, 10))

	cfg := testConfig()
	cfg.Reader.Strategy = "linear"
	svc, err := New(cfg, store, afero.NewMemMapFs(), zerolog.Nop())
	require.NoError(t, err)

	w, err := svc.Page(context.Background(), "1", 2, 10)
	require.NoError(t, err)
	require.Len(t, w.Rows, 5)
	assert.Equal(t, int64(20), w.Rows[0].At(0).Int())
}

func TestMinioBackedBrowsing(t *testing.T) {
	ctx := context.Background()

	ts := httptest.NewServer(gofakes3.New(s3mem.New()).Server())
	t.Cleanup(ts.Close)

	seed, err := minio.New(strings.TrimPrefix(ts.URL, "http://"), &minio.Options{
		Creds:        credentials.NewStaticV4("access", "secret", ""),
		Region:       "us-east-1",
		BucketLookup: minio.BucketLookupPath,
	})
	require.NoError(t, err)
	require.NoError(t, seed.MakeBucket(ctx, "lake", minio.MakeBucketOptions{Region: "us-east-1"}))

	data := parquettest.Sequence(t, 40, 16)
	_, err = seed.PutObject(ctx, "lake", "exports/daily.parquet", bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{DisableContentSha256: true})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Storage = config.StorageConfig{
		Type:         storage.MINIO.String(),
		Endpoint:     ts.URL,
		Region:       "us-east-1",
		BucketName:   "lake",
		Prefix:       "exports/",
		AccessKey:    "access",
		SecretKey:    "secret",
		UsePathStyle: true,
	}
	store, err := registry.Open(ctx, cfg.Storage, nil, zerolog.Nop())
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	svc, err := New(cfg, store, fs, zerolog.Nop())
	require.NoError(t, err)

	files, err := svc.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "s3://lake/exports/daily.parquet", files[0].RemotePath)
	assert.Equal(t, int64(len(data)), files[0].SizeBytes)

	w, err := svc.Page(ctx, "1", 2, 15)
	require.NoError(t, err)
	require.Len(t, w.Rows, 10)
	assert.Equal(t, int64(30), w.Rows[0].At(0).Int())
	assert.Equal(t, int64(40), w.TotalRows)
}

func TestBuildReportsScanFailureBeforeOutput(t *testing.T) {
	f := newFixture(t)
	f.store.Put("damaged.parquet", parquettest.CorruptRowGroup(t, parquettest.Sequence(t, 30, 10), 1))
	ctx := context.Background()

	files, err := f.svc.ListFiles(ctx)
	require.NoError(t, err)
	var id string
	for _, e := range files {
		if e.Name == "damaged.parquet" {
			id = e.ID
		}
	}
	require.NotEmpty(t, id)

	job, err := f.svc.PrepareExport(ctx, id, "xlsx")
	require.NoError(t, err)
	err = job.Build(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reader.ErrScanFailed))
	require.NoError(t, job.Close())
	assert.Empty(t, f.staged(t))

	// csv jobs stream, so Build leaves the failure to Run
	job, err = f.svc.PrepareExport(ctx, id, "csv")
	require.NoError(t, err)
	defer job.Close()
	require.NoError(t, job.Build(ctx))

	var buf bytes.Buffer
	_, err = job.Run(ctx, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reader.ErrScanFailed))
}
