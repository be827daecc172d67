package table

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	apperrors "springcli/internal/errors"
)

const utf8BOM = "\ufeff"

// ReadFile loads a CSV file. A missing file is a NOT_FOUND error.
func ReadFile(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("table %s (%s)", name, path), err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	t, err := Read(f, name)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Read parses CSV with a header row. Short rows are padded with empty cells,
// repeated header names get a .1, .2 suffix.
func Read(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError(fmt.Sprintf("table %s has no header row", name), nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", name), err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := New(name, dedupeHeader(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", name), err)
		}
		if len(record) > len(t.Columns) {
			line, _ := reader.FieldPos(0)
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("table %s line %d: expected %d fields, saw %d", name, line, len(t.Columns), len(record)), nil)
		}
		t.AppendRow(record)
	}
	return t, nil
}

func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := h
		for n := seen[h]; n > 0; n++ {
			candidate := h + "." + strconv.Itoa(n)
			if _, taken := seen[candidate]; !taken {
				name = candidate
				break
			}
		}
		seen[h]++
		if name != h {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

// Write emits the header and all rows as CSV
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
