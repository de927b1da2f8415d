package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarKinds(t *testing.T) {
	tests := []struct {
		name   string
		scalar Scalar
		kind   ScalarKind
		text   string
		json   string
		native interface{}
	}{
		{"null", NullScalar(), ScalarNull, "", "null", nil},
		{"bool", BoolScalar(true), ScalarBool, "true", "true", true},
		{"int", IntScalar(-42), ScalarInt, "-42", "-42", int64(-42)},
		{"float", FloatScalar(1.5), ScalarFloat, "1.5", "1.5", 1.5},
		{"whole float", FloatScalar(3), ScalarFloat, "3", "3", float64(3)},
		{"string", StringScalar(`a"b`), ScalarString, `a"b`, `"a\"b"`, `a"b`},
		{"nan", FloatScalar(math.NaN()), ScalarFloat, "NaN", `"NaN"`, "NaN"},
		{"inf", FloatScalar(math.Inf(1)), ScalarFloat, "Infinity", `"Infinity"`, "Infinity"},
		{"neg inf", FloatScalar(math.Inf(-1)), ScalarFloat, "-Infinity", `"-Infinity"`, "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.scalar.Kind())
			assert.Equal(t, tt.text, tt.scalar.Text())
			assert.Equal(t, tt.native, tt.scalar.Interface())

			data, err := json.Marshal(tt.scalar)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))
		})
	}
}

func TestScalarZeroValueIsNull(t *testing.T) {
	var s Scalar
	assert.True(t, s.IsNull())
	assert.Equal(t, "null", s.String())
}

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	row := NewRow(
		[]string{"zeta", "alpha", "mid"},
		[]Scalar{IntScalar(1), StringScalar("x"), NullScalar()},
	)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"x","mid":null}`, string(data))
}

func TestRowGet(t *testing.T) {
	row := NewRow([]string{"id", "name"}, []Scalar{IntScalar(7), StringScalar("ada")})

	v, ok := row.Get("name")
	require.True(t, ok)
	assert.Equal(t, "ada", v.Str())

	_, ok = row.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, int64(7), row.At(0).Int())
	assert.Equal(t, 2, row.Len())
}

func TestTableMetadataJSONShape(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	meta := TableMetadata{
		FileEntry: FileEntry{
			ID:           "1",
			Name:         "a.parquet",
			RemotePath:   "s3://bucket/data/a.parquet",
			SizeBytes:    2048,
			LastModified: modified,
		},
		Columns: []ColumnSchema{
			{Name: "id", LogicalType: LogicalInt64, PhysicalType: "INT64"},
		},
		RowCount:    10,
		Format:      FormatParquet,
		Compression: "SNAPPY",
		CreatedAt:   modified,
		Statistics:  TableStatistics{TotalSize: 2048, RowGroupCount: 2, AverageRowGroupSize: 1024},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "1", decoded["id"])
	assert.Equal(t, "s3://bucket/data/a.parquet", decoded["path"])
	assert.Equal(t, "PARQUET", decoded["format"])
	assert.NotContains(t, decoded, "createdBy")

	stats := decoded["statistics"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["rowGroups"])

	schema := decoded["schema"].([]interface{})
	require.Len(t, schema, 1)
	assert.Equal(t, "INT64", schema[0].(map[string]interface{})["type"])
}

func TestColumnNames(t *testing.T) {
	names := ColumnNames([]ColumnSchema{{Name: "a"}, {Name: "b"}})
	assert.Equal(t, []string{"a", "b"}, names)
}
