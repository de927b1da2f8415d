package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// ScalarKind enumerates the canonical value kinds a cell can hold
type ScalarKind uint8

const (
	ScalarNull ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNull:
		return "null"
	case ScalarBool:
		return "bool"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarString:
		return "string"
	default:
		return "unknown"
	}
}

// Scalar is a single canonical cell value. The zero value is null.
type Scalar struct {
	kind ScalarKind
	b    bool
	i    int64
	f    float64
	s    string
}

func NullScalar() Scalar { return Scalar{} }

func BoolScalar(v bool) Scalar { return Scalar{kind: ScalarBool, b: v} }

func IntScalar(v int64) Scalar { return Scalar{kind: ScalarInt, i: v} }

func FloatScalar(v float64) Scalar { return Scalar{kind: ScalarFloat, f: v} }

func StringScalar(v string) Scalar { return Scalar{kind: ScalarString, s: v} }

func (s Scalar) Kind() ScalarKind { return s.kind }

func (s Scalar) IsNull() bool { return s.kind == ScalarNull }

// Bool returns the boolean payload; false for other kinds
func (s Scalar) Bool() bool { return s.b }

// Int returns the integer payload; 0 for other kinds
func (s Scalar) Int() int64 { return s.i }

// Float returns the float payload; 0 for other kinds
func (s Scalar) Float() float64 { return s.f }

// Str returns the string payload; "" for other kinds
func (s Scalar) Str() string { return s.s }

// Text renders the value for delimited output. Null renders as "".
func (s Scalar) Text() string {
	switch s.kind {
	case ScalarBool:
		return strconv.FormatBool(s.b)
	case ScalarInt:
		return strconv.FormatInt(s.i, 10)
	case ScalarFloat:
		return formatFloat(s.f)
	case ScalarString:
		return s.s
	default:
		return ""
	}
}

// Interface returns the value as a plain Go value: nil, bool, int64,
// float64 or string. Non-finite floats come back as their text form.
func (s Scalar) Interface() interface{} {
	switch s.kind {
	case ScalarBool:
		return s.b
	case ScalarInt:
		return s.i
	case ScalarFloat:
		if math.IsNaN(s.f) || math.IsInf(s.f, 0) {
			return formatFloat(s.f)
		}
		return s.f
	case ScalarString:
		return s.s
	default:
		return nil
	}
}

// MarshalJSON encodes the value natively. NaN and the infinities have no
// JSON number form and are encoded as strings.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case ScalarBool:
		return strconv.AppendBool(nil, s.b), nil
	case ScalarInt:
		return strconv.AppendInt(nil, s.i, 10), nil
	case ScalarFloat:
		if math.IsNaN(s.f) || math.IsInf(s.f, 0) {
			return json.Marshal(formatFloat(s.f))
		}
		return json.Marshal(s.f)
	case ScalarString:
		return json.Marshal(s.s)
	default:
		return []byte("null"), nil
	}
}

func (s Scalar) String() string {
	if s.kind == ScalarNull {
		return "null"
	}
	return s.Text()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
