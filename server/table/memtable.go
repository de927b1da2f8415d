package table

import (
	"context"

	"github.com/gear6io/pqview/server/normalize"
)

// MemTable is an in-memory RowGroupSource. Each group is a slice of rows,
// each row a slice of values in field order.
type MemTable struct {
	fields    []Field
	groups    [][][]normalize.Value
	failAfter int64
	failErr   error
}

var (
	_ RowGroupSource = (*MemTable)(nil)
	_ Counter        = (*MemTable)(nil)
)

func NewMemTable(fields []Field, groups ...[][]normalize.Value) *MemTable {
	return &MemTable{fields: fields, groups: groups, failAfter: -1}
}

// FailAfter makes every stream stop with err once n records have been read
// from it
func (m *MemTable) FailAfter(n int64, err error) *MemTable {
	m.failAfter = n
	m.failErr = err
	return m
}

func (m *MemTable) Fields() []Field { return m.fields }

func (m *MemTable) NumRowGroups() int { return len(m.groups) }

func (m *MemTable) RowGroupNumRows(i int) int64 { return int64(len(m.groups[i])) }

func (m *MemTable) NumRows() int64 {
	var n int64
	for _, g := range m.groups {
		n += int64(len(g))
	}
	return n
}

func (m *MemTable) Records(ctx context.Context) (RecordStream, error) {
	var rows [][]normalize.Value
	for _, g := range m.groups {
		rows = append(rows, g...)
	}
	return m.stream(ctx, rows), nil
}

func (m *MemTable) RowGroupRecords(ctx context.Context, i int) (RecordStream, error) {
	return m.stream(ctx, m.groups[i]), nil
}

// Linear returns a view of the table that exposes neither its row groups
// nor its row count
func (m *MemTable) Linear() Source {
	return linearTable{m}
}

func (m *MemTable) stream(ctx context.Context, rows [][]normalize.Value) *memStream {
	return &memStream{ctx: ctx, rows: rows, pos: -1, failAfter: m.failAfter, failErr: m.failErr}
}

type linearTable struct {
	m *MemTable
}

func (l linearTable) Fields() []Field { return l.m.Fields() }

func (l linearTable) Records(ctx context.Context) (RecordStream, error) {
	return l.m.Records(ctx)
}

type memStream struct {
	ctx       context.Context
	rows      [][]normalize.Value
	pos       int
	read      int64
	failAfter int64
	failErr   error
	err       error
}

func (s *memStream) Next() bool {
	if s.err != nil {
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}
	if s.failAfter >= 0 && s.read >= s.failAfter {
		s.err = s.failErr
		return false
	}
	if s.pos+1 >= len(s.rows) {
		return false
	}
	s.pos++
	s.read++
	return true
}

func (s *memStream) Record() Record { return memRecord(s.rows[s.pos]) }

func (s *memStream) Err() error { return s.err }

func (s *memStream) Close() error { return nil }

type memRecord []normalize.Value

func (r memRecord) NumFields() int { return len(r) }

func (r memRecord) Value(i int) normalize.Value { return r[i] }
