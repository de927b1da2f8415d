package normalize

// Kind tags the physical shape of a decoded cell
type Kind uint8

const (
	KindNull Kind = iota
	KindRecord
	KindArray
	KindFixedBytes
	KindEnum
	KindByteBuffer
	KindBytes
	KindText
	KindNumber
	KindBoolean
)

var kindNames = [...]string{
	KindNull:       "null",
	KindRecord:     "record",
	KindArray:      "array",
	KindFixedBytes: "fixed",
	KindEnum:       "enum",
	KindByteBuffer: "buffer",
	KindBytes:      "bytes",
	KindText:       "text",
	KindNumber:     "number",
	KindBoolean:    "boolean",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Field is one named member of a record value
type Field struct {
	Name  string
	Value Value
}

// Value is a physical cell as read from the file, before normalization.
// Only the members matching Kind are set.
type Value struct {
	Kind    Kind
	Fields  []Field
	Elems   []Value
	Raw     []byte
	Str     string
	Int     int64
	Float   float64
	IsFloat bool
	Bool    bool
}

func Null() Value { return Value{} }

func Record(fields ...Field) Value { return Value{Kind: KindRecord, Fields: fields} }

func Array(elems ...Value) Value { return Value{Kind: KindArray, Elems: elems} }

func FixedBytes(b []byte) Value { return Value{Kind: KindFixedBytes, Raw: b} }

func Enum(symbol string) Value { return Value{Kind: KindEnum, Str: symbol} }

func ByteBuffer(b []byte) Value { return Value{Kind: KindByteBuffer, Raw: b} }

func Bytes(b []byte) Value { return Value{Kind: KindBytes, Raw: b} }

func Text(s string) Value { return Value{Kind: KindText, Str: s} }

func Int(i int64) Value { return Value{Kind: KindNumber, Int: i} }

func Float(f float64) Value { return Value{Kind: KindNumber, Float: f, IsFloat: true} }

func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }
