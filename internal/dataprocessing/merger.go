package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/table"
)

// MergeInput is the column subset read from one cleaned table and the keys it joins on
type MergeInput struct {
	Table   string
	Columns []string
	Keys    []string
}

var (
	siteKey  = []string{config.SiteColumn}
	visitKey = []string{config.SiteColumn, config.VisitDateColumn}
)

// MergeInputs returns the merge schema in join order. The first entry is the
// base table, the second joins on site only, the rest on site and visit date.
func MergeInputs() []MergeInput {
	visit := func(cols ...string) []string {
		return append([]string{config.SiteColumn, config.VisitDateColumn}, cols...)
	}
	return []MergeInput{
		{Table: "Visits", Columns: visit("MonitoringStatus", "SpringType", "DPL")},
		{Table: "Sites", Columns: []string{config.SiteColumn, "Lat_WGS84", "Lon_WGS84"}, Keys: siteKey},
		{Table: "SpCond", Columns: visit("SpecificConductance_microS_per_cm"), Keys: visitKey},
		{Table: "pH", Columns: visit("pH"), Keys: visitKey},
		{Table: "Temp", Columns: visit("WaterTemperature_C"), Keys: visitKey},
		{Table: "DO", Columns: visit("DissolvedOxygen_mg_per_L"), Keys: visitKey},
		{Table: "DischVol", Columns: visit("ContainerVolume_mL", "FillTime_seconds"), Keys: visitKey},
		{Table: "DischEst", Columns: visit("DischargeClass_L_per_s"), Keys: visitKey},
		{Table: "FlowCond", Columns: visit("FlowCondition"), Keys: visitKey},
		{Table: "FlowMod", Columns: visit("FlowModificationStatus", "ModificationType"), Keys: visitKey},
	}
}

// MergeResult reports the shape of the combined table
type MergeResult struct {
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	FanOutRows int    `json:"fan_out_rows"`
	OutputPath string `json:"output_path"`
}

// Merger left-joins the cleaned tables onto the visits
type Merger struct {
	component
	strict bool
}

// NewMerger creates a merger. With strict set, duplicate join keys in a
// joined table are a VALIDATION error instead of fanning rows out.
func NewMerger(paths *config.Paths, logger *slog.Logger, strict bool) *Merger {
	return &Merger{
		component: newComponent(paths, logger, "merger"),
		strict:    strict,
	}
}

// Merge loads the cleaned inputs, combines them and writes combined_observations.csv
func (m *Merger) Merge(ctx context.Context) (MergeResult, error) {
	inputs := make(map[string]*table.Table)
	for _, in := range MergeInputs() {
		t, err := m.readCleaned(in.Table)
		if err != nil {
			return MergeResult{}, err
		}
		inputs[in.Table] = t
	}

	combined, err := m.Combine(ctx, inputs)
	if err != nil {
		return MergeResult{}, err
	}

	res := MergeResult{
		Rows:       combined.Len(),
		Columns:    len(combined.Columns),
		FanOutRows: combined.Len() - inputs["Visits"].Len(),
		OutputPath: m.paths.CombinedCSV,
	}

	if err := m.writer.WriteTable(res.OutputPath, combined); err != nil {
		return res, err
	}

	m.printf("Combined table: %d rows, %d columns\n", res.Rows, res.Columns)
	m.logger.InfoContext(ctx, "Tables merged",
		slog.Int("rows", res.Rows),
		slog.Int("columns", res.Columns),
		slog.Int("fan_out_rows", res.FanOutRows))

	return res, nil
}

// Combine selects each input's columns and joins them in MergeInputs order.
// Every input must be present in tables.
func (m *Merger) Combine(ctx context.Context, tables map[string]*table.Table) (*table.Table, error) {
	var combined *table.Table

	for _, in := range MergeInputs() {
		t, ok := tables[in.Table]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("merge input %s", in.Table), nil)
		}

		selected, err := t.Select(in.Columns...)
		if err != nil {
			return nil, err
		}

		if combined == nil {
			combined = selected
			continue
		}

		if dups, err := selected.DuplicateKeys(in.Keys); err == nil && dups > 0 && !m.strict {
			m.logger.WarnContext(ctx, "Duplicate join keys will fan out rows",
				slog.String("table", in.Table),
				slog.Int("duplicates", dups))
		}

		combined, err = table.LeftJoin(combined, selected, in.Keys, table.JoinOptions{Strict: m.strict})
		if err != nil {
			return nil, err
		}
	}

	combined.Name = "combined_observations"
	return combined, nil
}
