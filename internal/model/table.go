package model

import "strings"

// Table is a tabular record set as returned by a source provider. Every cell
// is kept as text; typed interpretation happens in normalize.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds an empty table, upper-casing and trimming the header.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return &Table{Columns: cols}
}

// Len returns the number of rows; a nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	if t == nil || name == "" {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when col is -1 or the row is short.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Concat appends the rows of other, widening the header to the union of both
// column sets. Cells for columns a side did not have are left empty.
func (t *Table) Concat(other *Table) {
	if other == nil {
		return
	}
	pos := make([]int, len(other.Columns))
	for i, c := range other.Columns {
		idx := t.Index(c)
		if idx < 0 {
			t.Columns = append(t.Columns, c)
			idx = len(t.Columns) - 1
		}
		pos[i] = idx
	}
	for _, src := range other.Rows {
		dst := make([]string, len(t.Columns))
		for i, v := range src {
			if i < len(pos) {
				dst[pos[i]] = v
			}
		}
		t.Rows = append(t.Rows, dst)
	}
}
