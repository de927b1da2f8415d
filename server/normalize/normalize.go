// Package normalize turns physical parquet cell values into canonical
// scalars. Nested values are flattened into a JSON-like string, binary
// values are decoded as text and fixed-width binaries as hex.
package normalize

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/gear6io/pqview/server/types"
)

// Normalize converts a physical value into its canonical scalar
func Normalize(v Value) types.Scalar {
	switch v.Kind {
	case KindRecord, KindArray:
		var buf bytes.Buffer
		writeNested(&buf, v)
		return types.StringScalar(buf.String())
	case KindFixedBytes:
		return types.StringScalar(hex.EncodeToString(v.Raw))
	case KindEnum:
		return types.StringScalar(v.Str)
	case KindByteBuffer, KindBytes:
		return types.StringScalar(decodeText(v.Raw))
	case KindText:
		return types.StringScalar(v.Str)
	case KindNumber:
		if v.IsFloat {
			return types.FloatScalar(v.Float)
		}
		return types.IntScalar(v.Int)
	case KindBoolean:
		return types.BoolScalar(v.Bool)
	default:
		return types.NullScalar()
	}
}

func decodeText(b []byte) string {
	return strings.TrimRightFunc(strings.ToValidUTF8(string(b), "\uFFFD"), unicode.IsSpace)
}

// writeNested renders records as {"name": value, ...} and arrays as
// [value, ...]. Leaves are written in their JSON form.
func writeNested(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindRecord:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeLeaf(buf, types.StringScalar(f.Name))
			buf.WriteString(": ")
			writeNested(buf, f.Value)
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeNested(buf, e)
		}
		buf.WriteByte(']')
	default:
		writeLeaf(buf, Normalize(v))
	}
}

func writeLeaf(buf *bytes.Buffer, s types.Scalar) {
	// scalar marshaling only fails for unsupported kinds, which Normalize never returns
	data, _ := s.MarshalJSON()
	buf.Write(data)
}
