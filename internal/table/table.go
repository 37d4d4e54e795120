package table

import (
	"fmt"
	"sort"
)

// Table is an ordered collection of named columns over rows of typed cells.
// Tables are value-like: every transform returns a fresh table and never
// mutates its input.
type Table struct {
	cols []string
	rows [][]Value
}

// New creates an empty table with the given column order.
func New(cols ...string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.cols {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a row. Short rows are padded with missing cells; extra
// cells are an error.
func (t *Table) AppendRow(vals ...Value) error {
	if len(vals) > len(t.cols) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(vals), len(t.cols))
	}
	row := make([]Value, len(t.cols))
	copy(row, vals)
	t.rows = append(t.rows, row)
	return nil
}

// MustAppendRow adds a row and panics on column-count mismatch. Intended for
// construction sites where the shape is static.
func (t *Table) MustAppendRow(vals ...Value) {
	if err := t.AppendRow(vals...); err != nil {
		panic(err)
	}
}

// At returns the cell at (row, col index).
func (t *Table) At(row, col int) Value {
	return t.rows[row][col]
}

// Value returns the cell at the given row in the named column. Missing for
// unknown columns.
func (t *Table) Value(row int, col string) Value {
	i := t.ColumnIndex(col)
	if i < 0 {
		return Missing
	}
	return t.rows[row][i]
}

// SetValue overwrites the cell at the given row in the named column.
func (t *Table) SetValue(row int, col string, v Value) {
	if i := t.ColumnIndex(col); i >= 0 {
		t.rows[row][i] = v
	}
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(name string) []Value {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// Row returns a copy of a row's cells in column order.
func (t *Table) Row(row int) []Value {
	return append([]Value(nil), t.rows[row]...)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// AddColumn appends a new column filled from vals (missing-padded or
// truncated to the row count). Returns an error if the name already exists.
func (t *Table) AddColumn(name string, vals []Value) error {
	if t.HasColumn(name) {
		return fmt.Errorf("column already exists: %s", name)
	}
	t.cols = append(t.cols, name)
	for i := range t.rows {
		var v Value
		if i < len(vals) {
			v = vals[i]
		}
		t.rows[i] = append(t.rows[i], v)
	}
	return nil
}

// Select returns a new table holding the named columns in the given order.
// Unknown columns are an error.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j := t.ColumnIndex(c)
		if j < 0 {
			return nil, &SchemaError{Missing: []string{c}}
		}
		idx[i] = j
	}
	out := New(cols...)
	for _, row := range t.rows {
		sel := make([]Value, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.rows = append(out.rows, sel)
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := New(t.cols...)
	for i, row := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

// SortStable reorders rows in place with a stable sort.
func (t *Table) SortStable(less func(i, j int) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool { return less(i, j) })
}
