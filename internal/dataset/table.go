package dataset

import (
	"fmt"
	"strings"
)

// Table is an in-memory column-named row set. Column names are kept
// verbatim from the source until the pipeline trims them; lookups are
// exact-name.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty table with the given column names, preserving
// order. Duplicate names keep the first index for lookups.
func New(cols []string) *Table {
	t := &Table{cols: append([]string(nil), cols...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.rows) }

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// SetColumnName renames the column at position i and rebuilds lookups.
func (t *Table) SetColumnName(i int, name string) {
	t.cols[i] = name
	t.reindex()
}

// AppendRow adds a row. Short rows are padded with missing values so
// every row spans the full column set.
func (t *Table) AppendRow(row []Value) {
	if len(row) < len(t.cols) {
		padded := make([]Value, len(t.cols))
		copy(padded, row)
		row = padded
	}
	t.rows = append(t.rows, row[:len(t.cols)])
}

// AddColumn appends a new column filled with the given value and returns
// its index.
func (t *Table) AddColumn(name string, fill Value) int {
	t.cols = append(t.cols, name)
	t.reindex()
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
	return len(t.cols) - 1
}

// Row returns the i-th row. The slice is shared; callers that mutate
// must own the table.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// At returns the cell at row i in the named column. Unknown columns
// read as missing.
func (t *Table) At(i int, name string) Value {
	col, ok := t.index[name]
	if !ok {
		return Missing()
	}
	return t.rows[i][col]
}

// Set writes the cell at row i, column col.
func (t *Table) Set(i, col int, v Value) { t.rows[i][col] = v }

// Clone returns a deep copy. The pipeline normalizes a clone so the raw
// ingested table is never mutated.
func (t *Table) Clone() *Table {
	c := New(t.cols)
	c.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = append([]Value(nil), row...)
	}
	return c
}

// Select returns a new table containing the given rows, in order. Row
// slices are copied so the views stay independent of the source batch.
func (t *Table) Select(rowIdx []int) *Table {
	out := New(t.cols)
	out.rows = make([][]Value, 0, len(rowIdx))
	for _, i := range rowIdx {
		out.rows = append(out.rows, append([]Value(nil), t.rows[i]...))
	}
	return out
}

// Head returns up to n leading rows as a new table.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Select(idx)
}

// RowKey builds an exact-equality key for duplicate detection. Kind tags
// keep typed payloads from colliding with their string forms.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for _, v := range t.rows[i] {
		fmt.Fprintf(&b, "%d\x1f%s\x1e", v.Kind(), v.Format())
	}
	return b.String()
}
