package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/table"
	"springcli/pkg/contracts/domain"
)

// FlagRule derives one presence flag from one column of one cleaned table
type FlagRule struct {
	Flag      string
	Table     string
	Column    string
	Predicate func(value string) bool
}

// EcologyRules returns the five flag derivations in output order
func EcologyRules() []FlagRule {
	return []FlagRule{
		{Flag: domain.FlagVegetation, Table: "Vegetation", Column: "IsVegetationObserved", Predicate: vegetationObserved},
		{Flag: domain.FlagInvasives, Table: "Invasive", Column: "USDAPlantsCode", Predicate: codePresent},
		{Flag: domain.FlagDisturbance, Table: "Disturb", Column: "Overall", Predicate: disturbanceRecorded},
		{Flag: domain.FlagWildlife, Table: "Wildlife", Column: "IsWildlifeObserved", Predicate: wildlifeObserved},
		{Flag: domain.FlagFlowModification, Table: "FlowMod", Column: "FlowModificationStatus", Predicate: flowModified},
	}
}

func vegetationObserved(v string) bool {
	return v == "Y"
}

func codePresent(v string) bool {
	return !table.IsMissing(v)
}

// disturbanceRecorded treats "0", numeric zero and "None" as no disturbance
func disturbanceRecorded(v string) bool {
	if table.IsMissing(v) {
		return false
	}
	v = strings.TrimSpace(v)
	if v == "0" || v == "None" {
		return false
	}
	if f, ok := table.ParseFloat(v); ok && f == 0 {
		return false
	}
	return true
}

func wildlifeObserved(v string) bool {
	return strings.ToUpper(strings.TrimSpace(v)) == "YES"
}

func flowModified(v string) bool {
	return strings.Contains(strings.ToUpper(v), "YES")
}

// EcologyResult reports the ecology summary output
type EcologyResult struct {
	Sites      int            `json:"sites"`
	FlagTotals map[string]int `json:"flag_totals"`
	OutputPath string         `json:"output_path"`
}

// EcologySummarizer reduces the ecological tables to per-site presence flags
type EcologySummarizer struct {
	component
}

// NewEcologySummarizer creates an ecology summarizer
func NewEcologySummarizer(paths *config.Paths, logger *slog.Logger) *EcologySummarizer {
	return &EcologySummarizer{component: newComponent(paths, logger, "ecology")}
}

// Summarize reads the cleaned ecological tables and writes ecology_site_summary.csv
func (s *EcologySummarizer) Summarize(ctx context.Context) (EcologyResult, error) {
	tables := make(map[string]*table.Table)
	for _, rule := range EcologyRules() {
		t, err := s.readCleaned(rule.Table)
		if err != nil {
			return EcologyResult{}, err
		}
		tables[rule.Table] = t
	}

	summaries, err := s.SiteFlags(ctx, tables)
	if err != nil {
		return EcologyResult{}, err
	}

	res := EcologyResult{
		Sites:      len(summaries),
		FlagTotals: FlagTotals(summaries),
		OutputPath: s.paths.EcologySummaryCSV,
	}

	if err := s.writer.WriteTable(res.OutputPath, EcologySummaryTable(summaries)); err != nil {
		return res, err
	}

	s.printf("Ecology summary: %d sites\n", res.Sites)
	s.logger.InfoContext(ctx, "Ecology summarized",
		slog.Int("sites", res.Sites),
		slog.Any("flag_totals", res.FlagTotals))

	return res, nil
}

// SiteFlags ORs each rule's predicate per site over the union of sites in all
// rule tables. A site absent from a table gets false for that flag. Rows with
// no site are ignored. Output is sorted by site.
func (s *EcologySummarizer) SiteFlags(ctx context.Context, tables map[string]*table.Table) ([]domain.EcologySiteSummary, error) {
	flags := make(map[string]map[string]bool)

	for _, rule := range EcologyRules() {
		t, ok := tables[rule.Table]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("ecology input %s", rule.Table), nil)
		}
		if err := t.RequireColumns(config.SiteColumn, rule.Column); err != nil {
			return nil, err
		}

		siteIdx := t.ColumnIndex(config.SiteColumn)
		valIdx := t.ColumnIndex(rule.Column)
		positive := 0
		for _, row := range t.Rows {
			site := row[siteIdx]
			if table.IsMissing(site) {
				continue
			}
			siteFlags, exists := flags[site]
			if !exists {
				siteFlags = make(map[string]bool, len(domain.EcologyFlags))
				flags[site] = siteFlags
			}
			if rule.Predicate(row[valIdx]) {
				siteFlags[rule.Flag] = true
				positive++
			}
		}

		s.logger.DebugContext(ctx, "Flag derived",
			slog.String("flag", rule.Flag),
			slog.String("table", rule.Table),
			slog.Int("positive_rows", positive))
	}

	sites := make([]string, 0, len(flags))
	for site := range flags {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	summaries := make([]domain.EcologySiteSummary, 0, len(sites))
	for _, site := range sites {
		summaries = append(summaries, domain.EcologySiteSummary{SiteCode: site, Flags: flags[site]})
	}
	return summaries, nil
}

// FlagTotals counts the flagged sites per flag
func FlagTotals(summaries []domain.EcologySiteSummary) map[string]int {
	totals := make(map[string]int, len(domain.EcologyFlags))
	for _, f := range domain.EcologyFlags {
		totals[f] = 0
	}
	for _, s := range summaries {
		for _, f := range domain.EcologyFlags {
			if s.Flags[f] {
				totals[f]++
			}
		}
	}
	return totals
}

// EcologySummaryTable renders site flags in output layout
func EcologySummaryTable(rows []domain.EcologySiteSummary) *table.Table {
	t := table.New("ecology_site_summary", domain.EcologySummaryHeaders)
	for _, r := range rows {
		t.AppendRow(r.Record())
	}
	return t
}
