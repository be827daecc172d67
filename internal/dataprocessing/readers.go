package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "springcli/internal/errors"
	"springcli/internal/table"
	"springcli/pkg/contracts/domain"
)

// ReadAnnualSummary loads summary_annual_water_quality.csv
func ReadAnnualSummary(path string) ([]domain.AnnualSummary, error) {
	t, err := table.ReadFile(path, "summary_annual_water_quality")
	if err != nil {
		return nil, err
	}
	if err := t.RequireColumns(domain.AnnualSummaryHeaders...); err != nil {
		return nil, err
	}

	out := make([]domain.AnnualSummary, 0, t.Len())
	for i := range t.Rows {
		year, err := strconv.Atoi(strings.TrimSpace(t.Value(i, "Year")))
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid year %q", i+1, t.Value(i, "Year")), err)
		}
		means := make(map[string]*float64, len(domain.Parameters))
		for _, p := range domain.Parameters {
			if v, ok := table.ParseFloat(t.Value(i, p)); ok {
				means[p] = &v
			}
		}
		out = append(out, domain.AnnualSummary{SiteCode: t.Value(i, "SiteCode"), Year: year, Means: means})
	}
	return out, nil
}

// ReadEcologySummary loads ecology_site_summary.csv. Any value other than 0 or
// missing counts as flagged.
func ReadEcologySummary(path string) ([]domain.EcologySiteSummary, error) {
	t, err := table.ReadFile(path, "ecology_site_summary")
	if err != nil {
		return nil, err
	}
	if err := t.RequireColumns(domain.EcologySummaryHeaders...); err != nil {
		return nil, err
	}

	out := make([]domain.EcologySiteSummary, 0, t.Len())
	for i := range t.Rows {
		flags := make(map[string]bool, len(domain.EcologyFlags))
		for _, f := range domain.EcologyFlags {
			v, ok := table.ParseFloat(t.Value(i, f))
			flags[f] = ok && v != 0
		}
		out = append(out, domain.EcologySiteSummary{SiteCode: t.Value(i, "SiteCode"), Flags: flags})
	}
	return out, nil
}
