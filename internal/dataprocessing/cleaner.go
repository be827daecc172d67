package dataprocessing

import (
	"context"
	"log/slog"

	"springcli/internal/config"
	"springcli/internal/table"
)

// CleanResult reports what cleaning did to one table
type CleanResult struct {
	Table           string `json:"table"`
	InputRows       int    `json:"input_rows"`
	OutputRows      int    `json:"output_rows"`
	DroppedRows     int    `json:"dropped_rows"`
	PrimaryColumn   string `json:"primary_column,omitempty"`
	SiteColumnFound bool   `json:"site_column_found"`
	SiteAlias       string `json:"site_alias,omitempty"`
	InvalidDates    int    `json:"invalid_dates"`
	OutputPath      string `json:"output_path"`
}

// Cleaner standardizes raw survey tables: canonical site column, parsed
// dates, and no rows missing the primary measurement.
type Cleaner struct {
	component
	catalog []config.TableSpec
}

// NewCleaner creates a cleaner over the given catalog
func NewCleaner(paths *config.Paths, catalog []config.TableSpec, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		component: newComponent(paths, logger, "cleaner"),
		catalog:   catalog,
	}
}

// CleanAll cleans every catalog table in order and stops at the first error
func (c *Cleaner) CleanAll(ctx context.Context) ([]CleanResult, error) {
	results := make([]CleanResult, 0, len(c.catalog))
	for _, spec := range c.catalog {
		res, err := c.CleanTable(ctx, spec)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CleanTable reads one raw table, cleans it and writes <Name>_cleaned.csv
func (c *Cleaner) CleanTable(ctx context.Context, spec config.TableSpec) (CleanResult, error) {
	t, err := table.ReadFile(c.paths.RawTablePath(spec.File), spec.Name)
	if err != nil {
		return CleanResult{}, err
	}

	res := CleanResult{
		Table:      spec.Name,
		InputRows:  t.Len(),
		OutputPath: c.paths.CleanedTablePath(spec.Name),
	}

	res.SiteAlias, res.SiteColumnFound = StandardizeSiteColumn(t)
	if !res.SiteColumnFound {
		c.logger.WarnContext(ctx, "No site identifier column found",
			slog.String("table", spec.Name),
			slog.Any("aliases", config.SiteAliases))
	}

	res.InvalidDates = ParseDateColumns(t, spec.DateColumns)
	if res.InvalidDates > 0 {
		c.logger.DebugContext(ctx, "Unparseable dates set to missing",
			slog.String("table", spec.Name),
			slog.Int("count", res.InvalidDates))
	}

	res.PrimaryColumn = DetectPrimaryColumn(t, spec.DateColumns)
	if res.PrimaryColumn != "" {
		idx := t.ColumnIndex(res.PrimaryColumn)
		t = t.Filter(func(row []string) bool {
			return !table.IsMissing(row[idx])
		})
	}
	res.OutputRows = t.Len()
	res.DroppedRows = res.InputRows - res.OutputRows

	if err := c.writer.WriteTable(res.OutputPath, t); err != nil {
		return res, err
	}

	c.printf("%s: %d rows\n", spec.Name, res.OutputRows)
	c.logger.InfoContext(ctx, "Table cleaned",
		slog.String("table", spec.Name),
		slog.Int("input_rows", res.InputRows),
		slog.Int("output_rows", res.OutputRows),
		slog.String("primary_column", res.PrimaryColumn))

	return res, nil
}

// StandardizeSiteColumn renames the first known alias to the canonical site
// column. It returns the alias used and whether the table now has a site column.
func StandardizeSiteColumn(t *table.Table) (string, bool) {
	if t.HasColumn(config.SiteColumn) {
		return "", true
	}
	for _, alias := range config.SiteAliases {
		if t.RenameColumn(alias, config.SiteColumn) {
			return alias, true
		}
	}
	return "", false
}

// ParseDateColumns rewrites every present date column as YYYY-MM-DD.
// Values that do not parse become missing; their count is returned.
func ParseDateColumns(t *table.Table, columns []string) int {
	invalid := 0
	for _, name := range columns {
		c := t.ColumnIndex(name)
		if c < 0 {
			continue
		}
		for _, row := range t.Rows {
			if table.IsMissing(row[c]) {
				row[c] = ""
				continue
			}
			row[c] = table.NormalizeDate(row[c])
			if row[c] == "" {
				invalid++
			}
		}
	}
	return invalid
}

// DetectPrimaryColumn returns the first column, in file order, other than the
// site column and the date columns, that has at least one value and whose
// every value is numeric. It returns "" when there is none.
func DetectPrimaryColumn(t *table.Table, dateColumns []string) string {
	skip := map[string]bool{config.SiteColumn: true}
	for _, d := range dateColumns {
		skip[d] = true
	}

	for c, name := range t.Columns {
		if skip[name] {
			continue
		}
		if isNumericColumn(t, c) {
			return name
		}
	}
	return ""
}

func isNumericColumn(t *table.Table, c int) bool {
	seen := false
	for _, row := range t.Rows {
		if table.IsMissing(row[c]) {
			continue
		}
		if _, ok := table.ParseFloat(row[c]); !ok {
			return false
		}
		seen = true
	}
	return seen
}
