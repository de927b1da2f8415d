package types

import "time"

// LogicalType is the canonical column type exposed to callers
type LogicalType string

const (
	LogicalBool    LogicalType = "BOOL"
	LogicalInt32   LogicalType = "INT32"
	LogicalInt64   LogicalType = "INT64"
	LogicalFloat32 LogicalType = "FLOAT32"
	LogicalFloat64 LogicalType = "FLOAT64"
	LogicalBinary  LogicalType = "BINARY"
	LogicalOther   LogicalType = "OTHER"
)

const (
	FormatParquet      = "PARQUET"
	CompressionUnknown = "UNKNOWN"
)

// ColumnStats holds per-column counts. A count whose Known flag is false
// was not available and is zero.
type ColumnStats struct {
	NullCount          int64 `json:"nullCount"`
	DistinctCount      int64 `json:"distinctCount"`
	NullCountKnown     bool  `json:"nullCountKnown"`
	DistinctCountKnown bool  `json:"distinctCountKnown"`
}

type ColumnSchema struct {
	Name         string      `json:"name"`
	LogicalType  LogicalType `json:"type"`
	PhysicalType string      `json:"physicalType"`
	Nullable     bool        `json:"nullable"`
	Stats        ColumnStats `json:"statistics"`
}

type TableStatistics struct {
	TotalSize           int64   `json:"totalSize"`
	RowGroupCount       int32   `json:"rowGroups"`
	AverageRowGroupSize float64 `json:"averageRowGroupSize"`
}

// TableMetadata is the inspected view of one file
type TableMetadata struct {
	FileEntry
	Columns     []ColumnSchema  `json:"schema"`
	RowCount    int64           `json:"rowCount"`
	Format      string          `json:"format"`
	Compression string          `json:"compression"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	Statistics  TableStatistics `json:"statistics"`
}

// ColumnNames returns the column names in schema order
func ColumnNames(columns []ColumnSchema) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// RowWindow is one page of rows
type RowWindow struct {
	Columns   []ColumnSchema `json:"columns"`
	Rows      []Row          `json:"rows"`
	TotalRows int64          `json:"totalRows"`
	Page      int            `json:"currentPage"`
	PageSize  int            `json:"pageSize"`
}
