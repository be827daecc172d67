package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"springcli/internal/config"
	"springcli/internal/table"
	"springcli/pkg/contracts/domain"
)

// Parameter maps a combined-table measurement column to its summary name
type Parameter struct {
	Column string
	Name   string
}

// TrendParameters returns the summarized parameters in output order
func TrendParameters() []Parameter {
	return []Parameter{
		{Column: "SpecificConductance_microS_per_cm", Name: domain.ParamConductivity},
		{Column: "pH", Name: domain.ParamPH},
		{Column: "WaterTemperature_C", Name: domain.ParamTemperature},
		{Column: "DissolvedOxygen_mg_per_L", Name: domain.ParamDissolvedOxygen},
	}
}

// TrendSummaryResult reports the row counts of both outputs
type TrendSummaryResult struct {
	InputRows   int    `json:"input_rows"`
	SkippedRows int    `json:"skipped_rows"`
	AnnualRows  int    `json:"annual_rows"`
	TrendRows   int    `json:"trend_rows"`
	AnnualPath  string `json:"annual_path"`
	TrendsPath  string `json:"trends_path"`
}

// TrendSummarizer builds annual means and per-site linear trends
type TrendSummarizer struct {
	component
}

// NewTrendSummarizer creates a trend summarizer
func NewTrendSummarizer(paths *config.Paths, logger *slog.Logger) *TrendSummarizer {
	return &TrendSummarizer{component: newComponent(paths, logger, "trends")}
}

// Summarize reads the combined table and writes the annual and trend tables
func (s *TrendSummarizer) Summarize(ctx context.Context) (TrendSummaryResult, error) {
	combined, err := table.ReadFile(s.paths.CombinedCSV, "combined_observations")
	if err != nil {
		return TrendSummaryResult{}, err
	}

	annual, skipped, err := s.AnnualSummary(ctx, combined)
	if err != nil {
		return TrendSummaryResult{}, err
	}
	trends := s.Trends(ctx, annual)

	res := TrendSummaryResult{
		InputRows:   combined.Len(),
		SkippedRows: skipped,
		AnnualRows:  len(annual),
		TrendRows:   len(trends),
		AnnualPath:  s.paths.AnnualSummaryCSV,
		TrendsPath:  s.paths.TrendResultsCSV,
	}

	if err := s.writer.WriteTable(res.AnnualPath, AnnualSummaryTable(annual)); err != nil {
		return res, err
	}
	if err := s.writer.WriteTable(res.TrendsPath, TrendResultsTable(trends)); err != nil {
		return res, err
	}

	s.printf("Annual summary: %d rows\n", res.AnnualRows)
	s.printf("Trend results: %d rows\n", res.TrendRows)
	s.logger.InfoContext(ctx, "Trends summarized",
		slog.Int("annual_rows", res.AnnualRows),
		slog.Int("trend_rows", res.TrendRows),
		slog.Int("skipped_rows", res.SkippedRows))

	return res, nil
}

type siteYear struct {
	site string
	year int
}

type meanAcc struct {
	sum   float64
	count int
}

// AnnualSummary averages each parameter per (site, year), ignoring missing
// values column by column. Rows without a site or a parseable visit date are
// skipped and counted. Output is sorted by site then year.
func (s *TrendSummarizer) AnnualSummary(ctx context.Context, combined *table.Table) ([]domain.AnnualSummary, int, error) {
	params := TrendParameters()
	required := []string{config.SiteColumn, config.VisitDateColumn}
	for _, p := range params {
		required = append(required, p.Column)
	}
	if err := combined.RequireColumns(required...); err != nil {
		return nil, 0, err
	}

	siteIdx := combined.ColumnIndex(config.SiteColumn)
	dateIdx := combined.ColumnIndex(config.VisitDateColumn)
	paramIdx := make([]int, len(params))
	for i, p := range params {
		paramIdx[i] = combined.ColumnIndex(p.Column)
	}

	groups := make(map[siteYear][]meanAcc)
	skipped := 0
	for _, row := range combined.Rows {
		site := row[siteIdx]
		date, ok := table.ParseDate(row[dateIdx])
		if table.IsMissing(site) || !ok {
			skipped++
			continue
		}

		key := siteYear{site: site, year: date.Year()}
		acc, exists := groups[key]
		if !exists {
			acc = make([]meanAcc, len(params))
			groups[key] = acc
		}
		for i, c := range paramIdx {
			if v, ok := table.ParseFloat(row[c]); ok {
				acc[i].sum += v
				acc[i].count++
			}
		}
	}

	if skipped > 0 {
		s.logger.DebugContext(ctx, "Rows without site or visit date skipped", slog.Int("count", skipped))
	}

	keys := make([]siteYear, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].site != keys[j].site {
			return keys[i].site < keys[j].site
		}
		return keys[i].year < keys[j].year
	})

	summaries := make([]domain.AnnualSummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		means := make(map[string]*float64, len(params))
		for i, p := range params {
			if acc[i].count > 0 {
				mean := acc[i].sum / float64(acc[i].count)
				means[p.Name] = &mean
			}
		}
		summaries = append(summaries, domain.AnnualSummary{SiteCode: k.site, Year: k.year, Means: means})
	}

	return summaries, skipped, nil
}

// Trends fits mean against year per site and parameter. Years with a missing
// mean are dropped first; fewer than MinTrendYears remaining emits no row.
// Annual rows must be sorted by site then year, as AnnualSummary returns them.
func (s *TrendSummarizer) Trends(ctx context.Context, annual []domain.AnnualSummary) []domain.TrendResult {
	results := make([]domain.TrendResult, 0)

	for start := 0; start < len(annual); {
		end := start
		for end < len(annual) && annual[end].SiteCode == annual[start].SiteCode {
			end++
		}
		site := annual[start:end]

		for _, p := range TrendParameters() {
			var xs, ys []float64
			for _, a := range site {
				if v, ok := a.Mean(p.Name); ok {
					xs = append(xs, float64(a.Year))
					ys = append(ys, v)
				}
			}
			if len(xs) < config.MinTrendYears {
				continue
			}

			fit, err := FitLinear(xs, ys)
			if err != nil {
				s.logger.WarnContext(ctx, "Trend fit failed",
					slog.String("site", site[0].SiteCode),
					slog.String("parameter", p.Name),
					slog.String("error", err.Error()))
				continue
			}

			results = append(results, domain.TrendResult{
				SiteCode:     site[0].SiteCode,
				Parameter:    p.Name,
				SlopePerYear: fit.Slope,
				PValue:       fit.PValue,
				RValue:       fit.R,
				NYears:       fit.N,
			})
		}
		start = end
	}

	return results
}

// AnnualSummaryTable renders annual summaries in output layout
func AnnualSummaryTable(rows []domain.AnnualSummary) *table.Table {
	t := table.New("summary_annual_water_quality", domain.AnnualSummaryHeaders)
	for _, r := range rows {
		t.AppendRow(r.Record())
	}
	return t
}

// TrendResultsTable renders trend results in output layout
func TrendResultsTable(rows []domain.TrendResult) *table.Table {
	t := table.New("trend_results", domain.TrendResultHeaders)
	for _, r := range rows {
		t.AppendRow(r.Record())
	}
	return t
}
