package types

import (
	"bytes"
	"encoding/json"
)

// Row is an ordered mapping from column name to value. Rows produced for
// the same window share their column slice.
type Row struct {
	columns []string
	values  []Scalar
}

// NewRow pairs columns with values. Both slices must have the same length.
func NewRow(columns []string, values []Scalar) Row {
	return Row{columns: columns, values: values}
}

func (r Row) Len() int { return len(r.values) }

func (r Row) Columns() []string { return r.columns }

func (r Row) Values() []Scalar { return r.values }

// At returns the i-th value in schema order
func (r Row) At(i int) Scalar { return r.values[i] }

// Get looks a value up by column name
func (r Row) Get(name string) (Scalar, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return Scalar{}, false
}

// MarshalJSON writes an object whose keys follow column order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := r.values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
