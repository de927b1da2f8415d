package parquet

import (
	"bytes"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/gear6io/pqview/server/normalize"
)

const enumAnnotation = "Enum"

// valueAt decodes element i of arr into a physical value. annotation is
// the logical annotation of the top-level field; nested members pass "".
func valueAt(arr arrow.Array, i int, annotation string) normalize.Value {
	if arr.IsNull(i) {
		return normalize.Null()
	}

	switch a := arr.(type) {
	// Map is a list of key/value structs, so it must precede ListLike
	case *array.Map:
		start, end := a.ValueOffsets(i)
		keys, items := a.Keys(), a.Items()
		fields := make([]normalize.Field, 0, end-start)
		for j := int(start); j < int(end); j++ {
			fields = append(fields, normalize.Field{
				Name:  keys.ValueStr(j),
				Value: valueAt(items, j, ""),
			})
		}
		return normalize.Record(fields...)

	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		fields := make([]normalize.Field, a.NumField())
		for j := range fields {
			fields[j] = normalize.Field{
				Name:  st.Field(j).Name,
				Value: valueAt(a.Field(j), i, ""),
			}
		}
		return normalize.Record(fields...)

	case array.ListLike:
		start, end := a.ValueOffsets(i)
		values := a.ListValues()
		elems := make([]normalize.Value, 0, end-start)
		for j := int(start); j < int(end); j++ {
			elems = append(elems, valueAt(values, j, ""))
		}
		return normalize.Array(elems...)

	case *array.FixedSizeBinary:
		return normalize.FixedBytes(bytes.Clone(a.Value(i)))

	case *array.Dictionary:
		return normalize.Enum(a.Dictionary().ValueStr(a.GetValueIndex(i)))

	case *array.Binary:
		if annotation == enumAnnotation {
			return normalize.Enum(string(a.Value(i)))
		}
		return normalize.Bytes(bytes.Clone(a.Value(i)))
	case *array.LargeBinary:
		if annotation == enumAnnotation {
			return normalize.Enum(string(a.Value(i)))
		}
		return normalize.Bytes(bytes.Clone(a.Value(i)))
	case *array.BinaryView:
		return normalize.ByteBuffer(bytes.Clone(a.Value(i)))

	case *array.String:
		return normalize.Text(a.Value(i))
	case *array.LargeString:
		return normalize.Text(a.Value(i))
	case *array.StringView:
		return normalize.Text(a.Value(i))

	case *array.Int8:
		return normalize.Int(int64(a.Value(i)))
	case *array.Int16:
		return normalize.Int(int64(a.Value(i)))
	case *array.Int32:
		return normalize.Int(int64(a.Value(i)))
	case *array.Int64:
		return normalize.Int(a.Value(i))
	case *array.Uint8:
		return normalize.Int(int64(a.Value(i)))
	case *array.Uint16:
		return normalize.Int(int64(a.Value(i)))
	case *array.Uint32:
		return normalize.Int(int64(a.Value(i)))
	case *array.Uint64:
		v := a.Value(i)
		if v > math.MaxInt64 {
			return normalize.Text(strconv.FormatUint(v, 10))
		}
		return normalize.Int(int64(v))

	case *array.Float16:
		return normalize.Float(widen(a.Value(i).Float32()))
	case *array.Float32:
		return normalize.Float(widen(a.Value(i)))
	case *array.Float64:
		return normalize.Float(a.Value(i))

	case *array.Boolean:
		return normalize.Boolean(a.Value(i))

	default:
		// temporal, decimal, interval and extension types
		return normalize.Text(arr.ValueStr(i))
	}
}

// widen converts f to the float64 with the same shortest decimal form, so
// a stored 0.1 reads back as 0.1 instead of 0.10000000149011612
func widen(f float32) float64 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return float64(f)
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}
