package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"springcli/internal/charts"
	"springcli/internal/config"
	"springcli/internal/dataprocessing"
	apperrors "springcli/internal/errors"
	"springcli/internal/exporter"
	"springcli/internal/files"
	"springcli/internal/table"
	"springcli/internal/validation"
)

// Stage names
const (
	StageNameClean     = "Loader/Cleaner"
	StageNameMerge     = "Merger"
	StageNameTrends    = "Trend Summarizer"
	StageNameEcology   = "Ecology Summarizer"
	StageNameVisualize = "Visualizer"
	StageNameExport    = "Report Exporter"
)

// StageDeps carries what every pipeline stage needs
type StageDeps struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	Progress io.Writer
}

func (d StageDeps) withDefaults() StageDeps {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Progress == nil {
		d.Progress = os.Stdout
	}
	return d
}

// NewPipelineRegistry registers the six stages in pipeline order
func NewPipelineRegistry(deps StageDeps) (*Registry, error) {
	deps = deps.withDefaults()
	registry := NewRegistry()

	steps := []Step{
		NewCleanStep(deps),
		NewMergeStep(deps),
		NewTrendsStep(deps),
		NewEcologyStep(deps),
		NewVisualizeStep(deps),
		NewExportStep(deps),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// CleanStep standardizes every raw table of the catalog
type CleanStep struct {
	BaseStep
	deps    StageDeps
	catalog []config.TableSpec
}

// NewCleanStep creates the clean stage over the default catalog
func NewCleanStep(deps StageDeps) *CleanStep {
	return &CleanStep{
		BaseStep: NewBaseStep(config.StageClean, StageNameClean),
		deps:     deps.withDefaults(),
		catalog:  config.DefaultTableCatalog(),
	}
}

// Execute implements Step
func (s *CleanStep) Execute(ctx context.Context) (StepResult, error) {
	paths := s.deps.Paths

	validator := validation.NewFileValidator(s.deps.Logger)
	if err := validator.ValidateInputDirectory(paths.DataDir); err != nil {
		return StepResult{}, err
	}
	if err := validator.ValidateOutputDirectory(paths.CleanedDir); err != nil {
		return StepResult{}, err
	}

	// report every absent raw table at once
	discovery := files.NewDiscovery(paths.RootDir)
	missing := discovery.MissingRawTables(paths.DataDir, s.catalog)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, spec := range missing {
			names[i] = spec.File
		}
		return StepResult{}, apperrors.NewNotFoundError(
			fmt.Sprintf("raw tables %s in %s", strings.Join(names, ", "), paths.DataDir), nil).
			WithContext("missing", names)
	}

	extra, err := discovery.UnexpectedRawFiles(paths.DataDir, s.catalog)
	if err != nil {
		return StepResult{}, apperrors.NewStorageError("failed to list raw tables", err)
	}
	for _, f := range extra {
		s.deps.Logger.WarnContext(ctx, "Ignoring raw file outside the table catalog",
			slog.String("file", f.Name),
			slog.Int64("size", f.Size))
	}

	cleaner := dataprocessing.NewCleaner(paths, s.catalog, s.deps.Logger)
	cleaner.SetProgress(s.deps.Progress)

	results, err := cleaner.CleanAll(ctx)
	if err != nil {
		return StepResult{}, err
	}

	res := StepResult{Metadata: map[string]any{"tables": results}}
	for _, r := range results {
		res.RowsRead += r.InputRows
		res.RowsWritten += r.OutputRows
		res.RowsDropped += r.DroppedRows
		res.Outputs = append(res.Outputs, r.OutputPath)
	}
	return res, nil
}

// MergeStep left-joins the cleaned tables onto the visits
type MergeStep struct {
	BaseStep
	deps StageDeps
}

// NewMergeStep creates the merge stage
func NewMergeStep(deps StageDeps) *MergeStep {
	return &MergeStep{
		BaseStep: NewBaseStep(config.StageMerge, StageNameMerge),
		deps:     deps.withDefaults(),
	}
}

// Execute implements Step
func (s *MergeStep) Execute(ctx context.Context) (StepResult, error) {
	merger := dataprocessing.NewMerger(s.deps.Paths, s.deps.Logger, s.deps.Config.Pipeline.StrictJoinKeys)
	merger.SetProgress(s.deps.Progress)

	r, err := merger.Merge(ctx)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		RowsRead:    r.Rows - r.FanOutRows,
		RowsWritten: r.Rows,
		Outputs:     []string{r.OutputPath},
		Metadata:    map[string]any{"columns": r.Columns, "fan_out_rows": r.FanOutRows},
	}, nil
}

// TrendsStep computes annual means and per-site trends
type TrendsStep struct {
	BaseStep
	deps StageDeps
}

// NewTrendsStep creates the trends stage
func NewTrendsStep(deps StageDeps) *TrendsStep {
	return &TrendsStep{
		BaseStep: NewBaseStep(config.StageTrends, StageNameTrends),
		deps:     deps.withDefaults(),
	}
}

// Execute implements Step
func (s *TrendsStep) Execute(ctx context.Context) (StepResult, error) {
	summarizer := dataprocessing.NewTrendSummarizer(s.deps.Paths, s.deps.Logger)
	summarizer.SetProgress(s.deps.Progress)

	r, err := summarizer.Summarize(ctx)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		RowsRead:    r.InputRows,
		RowsWritten: r.AnnualRows + r.TrendRows,
		RowsDropped: r.SkippedRows,
		Outputs:     []string{r.AnnualPath, r.TrendsPath},
		Metadata:    map[string]any{"annual_rows": r.AnnualRows, "trend_rows": r.TrendRows},
	}, nil
}

// EcologyStep derives the per-site presence flags
type EcologyStep struct {
	BaseStep
	deps StageDeps
}

// NewEcologyStep creates the ecology stage
func NewEcologyStep(deps StageDeps) *EcologyStep {
	return &EcologyStep{
		BaseStep: NewBaseStep(config.StageEcology, StageNameEcology),
		deps:     deps.withDefaults(),
	}
}

// Execute implements Step
func (s *EcologyStep) Execute(ctx context.Context) (StepResult, error) {
	summarizer := dataprocessing.NewEcologySummarizer(s.deps.Paths, s.deps.Logger)
	summarizer.SetProgress(s.deps.Progress)

	r, err := summarizer.Summarize(ctx)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		RowsWritten: r.Sites,
		Outputs:     []string{r.OutputPath},
		Metadata:    map[string]any{"flag_totals": r.FlagTotals},
	}, nil
}

// VisualizeStep renders the static charts
type VisualizeStep struct {
	BaseStep
	deps StageDeps
}

// NewVisualizeStep creates the visualize stage
func NewVisualizeStep(deps StageDeps) *VisualizeStep {
	return &VisualizeStep{
		BaseStep: NewBaseStep(config.StageVisualize, StageNameVisualize),
		deps:     deps.withDefaults(),
	}
}

// Execute implements Step
func (s *VisualizeStep) Execute(ctx context.Context) (StepResult, error) {
	validator := validation.NewFileValidator(s.deps.Logger)
	for _, input := range []string{s.deps.Paths.AnnualSummaryCSV, s.deps.Paths.EcologySummaryCSV} {
		if err := validator.ValidateFile(input); err != nil {
			return StepResult{}, err
		}
	}
	if err := validator.ValidateOutputDirectory(s.deps.Paths.PlotsDir); err != nil {
		return StepResult{}, err
	}

	annual, err := dataprocessing.ReadAnnualSummary(s.deps.Paths.AnnualSummaryCSV)
	if err != nil {
		return StepResult{}, err
	}
	ecology, err := dataprocessing.ReadEcologySummary(s.deps.Paths.EcologySummaryCSV)
	if err != nil {
		return StepResult{}, err
	}

	plotter := charts.NewPlotter(s.deps.Paths, s.deps.Config.Charts, s.deps.Logger)
	plotter.SetProgress(s.deps.Progress)

	results, err := plotter.PlotAll(ctx, annual, ecology)
	if err != nil {
		return StepResult{}, err
	}

	res := StepResult{
		RowsRead: len(annual) + len(ecology),
		Metadata: map[string]any{"charts": results},
	}
	for _, c := range results {
		if !c.Skipped {
			res.Outputs = append(res.Outputs, c.Path)
		}
	}
	return res, nil
}

// ExportStep bundles the derived tables into a workbook and a SQLite archive
type ExportStep struct {
	BaseStep
	deps StageDeps
}

// NewExportStep creates the export stage
func NewExportStep(deps StageDeps) *ExportStep {
	return &ExportStep{
		BaseStep: NewBaseStep(config.StageExport, StageNameExport),
		deps:     deps.withDefaults(),
	}
}

// DerivedTables loads the four derived tables in report order
func DerivedTables(paths *config.Paths) ([]*table.Table, error) {
	sources := []struct {
		name string
		path string
	}{
		{"combined_observations", paths.CombinedCSV},
		{"summary_annual_water_quality", paths.AnnualSummaryCSV},
		{"trend_results", paths.TrendResultsCSV},
		{"ecology_site_summary", paths.EcologySummaryCSV},
	}

	tables := make([]*table.Table, 0, len(sources))
	for _, src := range sources {
		t, err := table.ReadFile(src.path, src.name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Execute implements Step
func (s *ExportStep) Execute(ctx context.Context) (StepResult, error) {
	tables, err := DerivedTables(s.deps.Paths)
	if err != nil {
		return StepResult{}, err
	}

	res := StepResult{}
	for _, t := range tables {
		res.RowsRead += t.Len()
	}

	cfg := s.deps.Config.Export
	if cfg.Workbook || cfg.SQLite {
		if err := validation.NewFileValidator(s.deps.Logger).ValidateOutputDirectory(s.deps.Paths.ReportsDir); err != nil {
			return res, err
		}
	}
	if cfg.Workbook {
		path := s.deps.Paths.WorkbookFile
		if err := exporter.NewWorkbookExporter(s.deps.Logger).Export(ctx, path, tables); err != nil {
			return res, err
		}
		res.Outputs = append(res.Outputs, path)
		fmt.Fprintf(s.deps.Progress, "Workbook: %s\n", path)
	}
	if cfg.SQLite {
		archive := exporter.NewSQLiteArchive(s.deps.Paths.SQLiteFile, s.deps.Logger)
		if err := archive.Archive(ctx, tables); err != nil {
			return res, err
		}
		res.Outputs = append(res.Outputs, archive.Path())
		fmt.Fprintf(s.deps.Progress, "SQLite archive: %s\n", archive.Path())
	}

	if len(res.Outputs) == 0 {
		s.deps.Logger.InfoContext(ctx, "All report outputs disabled")
	}
	res.RowsWritten = res.RowsRead * len(res.Outputs)
	return res, nil
}
