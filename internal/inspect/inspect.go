package inspect

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"springcli/internal/config"
	"springcli/internal/files"
	"springcli/internal/infrastructure"
	"springcli/internal/table"
)

// Column kinds reported by the preview
const (
	KindInt    = "int64"
	KindFloat  = "float64"
	KindObject = "object"
)

// DefaultPreviewRows is the preview length used when none is given
const DefaultPreviewRows = 5

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	yesColor   = color.New(color.FgGreen)
	noColor    = color.New(color.FgRed)
	kindColor  = color.New(color.FgYellow)
)

// Schema summarizes the header of one cleaned table
type Schema struct {
	File         string   `json:"file"`
	Table        string   `json:"table"`
	Columns      []string `json:"columns"`
	HasSite      bool     `json:"has_site"`
	HasVisitDate bool     `json:"has_visit_date"`
	DateColumns  []string `json:"date_columns"`
}

// Inspector reads the cleaned directory
type Inspector struct {
	dir       string
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewInspector creates an inspector over a cleaned-tables directory
func NewInspector(cleanedDir string, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{
		dir:       cleanedDir,
		discovery: files.NewDiscovery(cleanedDir),
		logger:    infrastructure.WithComponent(logger, "inspect"),
	}
}

// Schemas reads the header of every cleaned table, sorted by file name
func (i *Inspector) Schemas() ([]Schema, error) {
	found, err := i.discovery.FindCleanedTables(i.dir)
	if err != nil {
		return nil, err
	}

	schemas := make([]Schema, 0, len(found))
	for _, f := range found {
		t, err := table.ReadFile(f.Path, f.Table)
		if err != nil {
			return nil, err
		}
		s := Schema{
			File:         f.Name,
			Table:        f.Table,
			Columns:      t.Columns,
			HasSite:      t.HasColumn(config.SiteColumn),
			HasVisitDate: t.HasColumn(config.VisitDateColumn),
		}
		for _, c := range t.Columns {
			if IsDateLike(c) {
				s.DateColumns = append(s.DateColumns, c)
			}
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// ListSchemas prints columns, key presence and date-like columns per cleaned table
func (i *Inspector) ListSchemas(w io.Writer) error {
	schemas, err := i.Schemas()
	if err != nil {
		return err
	}

	for _, s := range schemas {
		fmt.Fprintf(w, "\n%s\n", titleColor.Sprintf("=== %s ===", s.File))
		fmt.Fprintln(w, "Columns:")
		fmt.Fprintf(w, "  %s\n", strings.Join(s.Columns, ", "))
		fmt.Fprintf(w, "Contains SiteCode?   %s\n", yesNo(s.HasSite))
		fmt.Fprintf(w, "Contains VisitDate?  %s\n", yesNo(s.HasVisitDate))
		if len(s.DateColumns) > 0 {
			fmt.Fprintf(w, "Date-like columns:  %s\n", strings.Join(s.DateColumns, ", "))
		} else {
			fmt.Fprintln(w, "Date-like columns:  None")
		}
	}
	fmt.Fprintf(w, "\nSchema listing complete: %d tables.\n", len(schemas))

	i.logger.Debug("Schemas listed", slog.Int("tables", len(schemas)))
	return nil
}

// Preview prints row count, inferred column kinds and the first n rows of
// every cleaned table
func (i *Inspector) Preview(w io.Writer, n int) error {
	if n <= 0 {
		n = DefaultPreviewRows
	}

	found, err := i.discovery.FindCleanedTables(i.dir)
	if err != nil {
		return err
	}

	for _, f := range found {
		t, err := table.ReadFile(f.Path, f.Table)
		if err != nil {
			return err
		}
		head := t.Rows
		if len(head) > n {
			head = head[:n]
		}

		fmt.Fprintf(w, "\n%s\n", titleColor.Sprintf("=== %s ===", f.Name))
		fmt.Fprintf(w, "Rows: %s (%s)\n", humanize.Comma(int64(t.Len())), humanize.Bytes(uint64(f.Size)))
		fmt.Fprintf(w, "Columns (%d):\n", len(t.Columns))
		for c, name := range t.Columns {
			fmt.Fprintf(w, "  - %s: %s\n", name, kindColor.Sprint(InferKind(columnValues(head, c))))
		}

		fmt.Fprintf(w, "\nFirst %d rows:\n", n)
		if err := writeRows(w, t.Columns, head); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 60))
	}

	i.logger.Debug("Tables previewed", slog.Int("tables", len(found)), slog.Int("rows", n))
	return nil
}

// IsDateLike reports whether a column name mentions a date or time
func IsDateLike(column string) bool {
	name := strings.ToLower(column)
	return strings.Contains(name, "date") || strings.Contains(name, "time")
}

// InferKind classifies sample values as int64, float64 or object. Missing
// values widen an integer column to float64; an all-missing column is float64.
func InferKind(values []string) string {
	kind := KindInt
	missing := false
	for _, v := range values {
		if table.IsMissing(v) {
			missing = true
			continue
		}
		v = strings.TrimSpace(v)
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			kind = KindFloat
			continue
		}
		return KindObject
	}
	if missing && kind == KindInt {
		return KindFloat
	}
	if len(values) == 0 {
		return KindObject
	}
	return kind
}

func columnValues(rows [][]string, c int) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row[c]
	}
	return out
}

func writeRows(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if table.IsMissing(v) {
				v = "NaN"
			}
			cells[i] = v
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return yesColor.Sprint("Yes")
	}
	return noColor.Sprint("No")
}
