// Package table holds the in-memory tabular model shared by the rule
// filter and the lead scorer: an ordered header row plus row-aligned
// string cells, with case-insensitive column lookup.
package table

import "strings"

type Table struct {
	Headers []string
	Rows    [][]string
}

func New(headers []string) *Table {
	return &Table{Headers: headers}
}

// ColumnIndex resolves a column by name, case-insensitively and with
// surrounding whitespace ignored. Returns -1 when no column matches.
func (t *Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}

	return -1
}

// Column returns the cells of column i aligned by row index. Rows shorter
// than the header are padded with empty cells.
func (t *Table) Column(i int) []string {
	col := make([]string, len(t.Rows))

	for r, row := range t.Rows {
		if i < len(row) {
			col[r] = row[i]
		}
	}

	return col
}

func (t *Table) NumRows() int { return len(t.Rows) }

// FilterRows returns a new table keeping only rows where mask is true.
// Row order is preserved; the header is shared.
func (t *Table) FilterRows(mask []bool) *Table {
	out := &Table{Headers: t.Headers}

	for i, row := range t.Rows {
		if i < len(mask) && mask[i] {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// Cell returns the cell at (row, col) or "" when out of bounds.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}

	if col >= len(t.Rows[row]) {
		return ""
	}

	return t.Rows[row][col]
}
