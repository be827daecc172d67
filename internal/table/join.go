package table

import (
	"fmt"
	"strings"

	apperrors "springcli/internal/errors"
)

// Suffixes applied to non-key columns present on both sides of a join
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// JoinOptions tunes LeftJoin
type JoinOptions struct {
	// Strict rejects a right table that repeats a join key
	Strict bool
}

// keyOf builds the lookup key for a row. Rows with any missing key cell report false.
func keyOf(row []string, idx []int) (string, bool) {
	parts := make([]string, len(idx))
	for i, c := range idx {
		if IsMissing(row[c]) {
			return "", false
		}
		parts[i] = row[c]
	}
	return strings.Join(parts, "\x1f"), true
}

func keyIndexes(t *Table, keys []string) ([]int, error) {
	if err := t.RequireColumns(keys...); err != nil {
		return nil, err
	}
	idx := make([]int, len(keys))
	for i, k := range keys {
		idx[i] = t.ColumnIndex(k)
	}
	return idx, nil
}

// DuplicateKeys counts right-hand rows whose key was already seen
func (t *Table) DuplicateKeys(keys []string) (int, error) {
	idx, err := keyIndexes(t, keys)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(t.Rows))
	dups := 0
	for _, row := range t.Rows {
		k, ok := keyOf(row, idx)
		if !ok {
			continue
		}
		if _, hit := seen[k]; hit {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups, nil
}

// LeftJoin keeps every left row in order. A left row matching k right rows
// is emitted k times, a row matching nothing once with empty right cells.
// Key cells that are missing never match. Key columns appear once, taken
// from the left; other shared column names get LeftSuffix and RightSuffix.
func LeftJoin(left, right *Table, keys []string, opts JoinOptions) (*Table, error) {
	leftIdx, err := keyIndexes(left, keys)
	if err != nil {
		return nil, err
	}
	rightIdx, err := keyIndexes(right, keys)
	if err != nil {
		return nil, err
	}

	if opts.Strict {
		dups, err := right.DuplicateKeys(keys)
		if err != nil {
			return nil, err
		}
		if dups > 0 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("table %s repeats %d join keys on %s", right.Name, dups, strings.Join(keys, ", "))).
				WithContext("table", right.Name)
		}
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	// right columns carried over, in right order
	var carried []int
	for i, c := range right.Columns {
		if !isKey[c] {
			carried = append(carried, i)
		}
	}

	columns := make([]string, 0, len(left.Columns)+len(carried))
	for _, c := range left.Columns {
		if !isKey[c] && right.HasColumn(c) {
			c += LeftSuffix
		}
		columns = append(columns, c)
	}
	for _, i := range carried {
		c := right.Columns[i]
		if left.HasColumn(c) {
			c += RightSuffix
		}
		columns = append(columns, c)
	}

	lookup := make(map[string][]int, len(right.Rows))
	for r, row := range right.Rows {
		if k, ok := keyOf(row, rightIdx); ok {
			lookup[k] = append(lookup[k], r)
		}
	}

	out := New(left.Name, columns)
	for _, row := range left.Rows {
		var matches []int
		if k, ok := keyOf(row, leftIdx); ok {
			matches = lookup[k]
		}

		if len(matches) == 0 {
			cells := make([]string, len(columns))
			copy(cells, row)
			out.Rows = append(out.Rows, cells)
			continue
		}

		for _, r := range matches {
			cells := make([]string, len(left.Columns), len(columns))
			copy(cells, row)
			for _, i := range carried {
				cells = append(cells, right.Rows[r][i])
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out, nil
}
