package domain

import "strings"

// Table is a raw export as read from disk: a header and string cells.
// Column names are trimmed; every row is padded to the header width.
type Table struct {
	Source  string     `json:"source"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"-"`
}

// NewTable builds a table, trimming column names and normalising row widths.
func NewTable(source string, columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}
	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, len(cols))
		copy(r, row)
		normalized = append(normalized, r)
	}
	return &Table{Source: source, Columns: cols, Rows: normalized}
}

// Index returns the position of column, or -1 when absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Has reports whether column is present in the header.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Missing returns the subset of columns absent from the header, in input order.
func (t *Table) Missing(columns []string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table carries no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
