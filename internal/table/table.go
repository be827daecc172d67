package table

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	apperrors "springcli/internal/errors"
)

// Table is a named, column-ordered set of text rows.
// Every row has exactly len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates an empty table with the given columns
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell at row i in the named column, or "" when the column is absent
func (t *Table) Value(i int, column string) string {
	c := t.ColumnIndex(column)
	if c < 0 {
		return ""
	}
	return t.Rows[i][c]
}

// Column returns a copy of one column's cells
func (t *Table) Column(name string) []string {
	c := t.ColumnIndex(name)
	if c < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[c]
	}
	return out
}

// AppendRow adds a row, padding or truncating it to the table width
func (t *Table) AppendRow(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// RenameColumn renames old to name. It reports false when old is absent.
func (t *Table) RenameColumn(old, name string) bool {
	c := t.ColumnIndex(old)
	if c < 0 {
		return false
	}
	t.Columns[c] = name
	t.reindex()
	return true
}

// MissingColumns returns the requested columns that are not present, in request order
func (t *Table) MissingColumns(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// RequireColumns returns a SCHEMA error naming every absent column
func (t *Table) RequireColumns(columns ...string) error {
	var result *multierror.Error
	missing := t.MissingColumns(columns...)
	for _, c := range missing {
		result = multierror.Append(result, fmt.Errorf("missing column %q", c))
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = inlineFormat
	return apperrors.NewSchemaError(t.Name, result).WithContext("missing_columns", missing)
}

func inlineFormat(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Select returns a new table holding only the given columns, in the given order.
// All absent columns are reported together.
func (t *Table) Select(columns ...string) (*Table, error) {
	if err := t.RequireColumns(columns...); err != nil {
		return nil, err
	}

	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}

	out := New(t.Name, columns)
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(idx))
		for i, c := range idx {
			cells[i] = row[c]
		}
		out.Rows[r] = cells
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Name, t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
