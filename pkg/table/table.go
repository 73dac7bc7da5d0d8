// Package table provides the attribute-table capability the cleaning,
// replace, and translation operations run against: named fields, string
// cells, and pluggable on-disk formats behind a codec registry.
package table

import (
	"iter"

	"gitlab.com/tozd/go/errors"
)

// Dataset is the capability contract consumed by operations: iterate fields
// and rows, read and write cells, and evolve the schema. Implementations are
// not required to be safe for concurrent use.
type Dataset interface {
	// Name identifies the dataset, usually its source path.
	Name() string
	// Fields returns the field names in column order.
	Fields() []string
	// HasField reports whether the named field exists.
	HasField(name string) bool
	// NumRows returns the number of rows.
	NumRows() int
	// Cell returns the value at (row, field). Missing fields are an error.
	Cell(row int, field string) (string, error)
	// SetCell writes the value at (row, field).
	SetCell(row int, field, value string) error
	// Column returns all values of one field in row order.
	Column(field string) ([]string, error)
	// AddField appends a new empty field. Adding an existing field is an error.
	AddField(name string) error
	// DeleteFields removes the named fields and their cells.
	DeleteFields(names []string) error
}

// Table is the in-memory Dataset implementation all codecs load into.
type Table struct {
	name   string
	fields []string
	index  map[string]int
	rows   [][]string

	// payloads carries one opaque blob per row (e.g. GeoJSON geometry) that
	// attribute operations never touch and codecs round-trip on save.
	payloads [][]byte
}

// New creates an empty table with the given field names.
func New(name string, fields []string) *Table {
	t := &Table{
		name:   name,
		fields: append([]string(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		t.index[f] = i
	}
	return t
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Fields() []string {
	return append([]string(nil), t.fields...)
}

func (t *Table) HasField(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) NumRows() int {
	return len(t.rows)
}

// AppendRow adds a row. Short rows are padded with empty cells, long rows are
// an error.
func (t *Table) AppendRow(cells []string) error {
	if len(cells) > len(t.fields) {
		return errors.Errorf("row has %d cells, table has %d fields", len(cells), len(t.fields))
	}
	row := make([]string, len(t.fields))
	copy(row, cells)
	t.rows = append(t.rows, row)
	t.payloads = append(t.payloads, nil)
	return nil
}

func (t *Table) Cell(row int, field string) (string, error) {
	idx, ok := t.index[field]
	if !ok {
		return "", errors.Errorf("field %q not found in %s", field, t.name)
	}
	if row < 0 || row >= len(t.rows) {
		return "", errors.Errorf("row %d out of range (have %d rows)", row, len(t.rows))
	}
	return t.rows[row][idx], nil
}

func (t *Table) SetCell(row int, field, value string) error {
	idx, ok := t.index[field]
	if !ok {
		return errors.Errorf("field %q not found in %s", field, t.name)
	}
	if row < 0 || row >= len(t.rows) {
		return errors.Errorf("row %d out of range (have %d rows)", row, len(t.rows))
	}
	t.rows[row][idx] = value
	return nil
}

func (t *Table) Column(field string) ([]string, error) {
	idx, ok := t.index[field]
	if !ok {
		return nil, errors.Errorf("field %q not found in %s", field, t.name)
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

func (t *Table) AddField(name string) error {
	if name == "" {
		return errors.Errorf("field name is required")
	}
	if _, ok := t.index[name]; ok {
		return errors.Errorf("field %q already exists in %s", name, t.name)
	}
	t.index[name] = len(t.fields)
	t.fields = append(t.fields, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], "")
	}
	return nil
}

func (t *Table) DeleteFields(names []string) error {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			return errors.Errorf("field %q not found in %s", name, t.name)
		}
		drop[name] = true
	}
	if len(drop) == 0 {
		return nil
	}

	var kept []string
	var keptIdx []int
	for i, f := range t.fields {
		if !drop[f] {
			kept = append(kept, f)
			keptIdx = append(keptIdx, i)
		}
	}

	t.fields = kept
	t.index = make(map[string]int, len(kept))
	for i, f := range kept {
		t.index[f] = i
	}
	for r, row := range t.rows {
		next := make([]string, len(keptIdx))
		for i, idx := range keptIdx {
			next[i] = row[idx]
		}
		t.rows[r] = next
	}
	return nil
}

// Row returns one row's cells in field order. The slice is shared; callers
// must not modify it.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// Rows iterates (index, cells) over all rows in order.
func (t *Table) Rows() iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// RowPayload returns the opaque per-row blob attached by a codec, nil if none.
func (t *Table) RowPayload(row int) []byte {
	if row < 0 || row >= len(t.payloads) {
		return nil
	}
	return t.payloads[row]
}

// SetRowPayload attaches an opaque blob to a row.
func (t *Table) SetRowPayload(row int, payload []byte) error {
	if row < 0 || row >= len(t.payloads) {
		return errors.Errorf("row %d out of range (have %d rows)", row, len(t.payloads))
	}
	t.payloads[row] = payload
	return nil
}
