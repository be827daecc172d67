package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known output file names
const (
	CleanedSuffix         = "_cleaned.csv"
	CombinedCSVName       = "combined_observations.csv"
	AnnualSummaryCSVName  = "summary_annual_water_quality.csv"
	TrendResultsCSVName   = "trend_results.csv"
	EcologySummaryCSVName = "ecology_site_summary.csv"
	WorkbookName          = "springs_report.xlsx"
	SQLiteName            = "springs.db"
	ManifestName          = "run_manifest.json"
	TraceFileName         = "traces.json"
)

// Paths contains all the application paths.
// It is resolved once at process start and handed to every stage.
type Paths struct {
	RootDir    string
	DataDir    string
	OutputDir  string
	CleanedDir string
	TablesDir  string
	PlotsDir   string
	ReportsDir string
	MetricsDir string
	LogsDir    string

	// Well-known files
	CombinedCSV       string
	AnnualSummaryCSV  string
	TrendResultsCSV   string
	EcologySummaryCSV string
	WorkbookFile      string
	SQLiteFile        string
	ManifestFile      string
	TraceFile         string
}

// ResolvePaths builds the Paths for this configuration. An empty root
// directory means the current working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	root := c.Paths.RootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	return NewPaths(root, c.Paths.DataDir, c.Paths.OutputDir, c.Paths.LogsDir), nil
}

// NewPaths lays out the directory tree under root. Relative dataDir,
// outputDir and logsDir are joined onto root.
func NewPaths(root, dataDir, outputDir, logsDir string) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	outDir := resolve(outputDir)
	tablesDir := filepath.Join(outDir, "tables")
	reportsDir := filepath.Join(outDir, "reports")
	logs := resolve(logsDir)

	return &Paths{
		RootDir:    root,
		DataDir:    resolve(dataDir),
		OutputDir:  outDir,
		CleanedDir: filepath.Join(outDir, "cleaned"),
		TablesDir:  tablesDir,
		PlotsDir:   filepath.Join(outDir, "plots"),
		ReportsDir: reportsDir,
		MetricsDir: filepath.Join(outDir, "metrics"),
		LogsDir:    logs,

		CombinedCSV:       filepath.Join(tablesDir, CombinedCSVName),
		AnnualSummaryCSV:  filepath.Join(tablesDir, AnnualSummaryCSVName),
		TrendResultsCSV:   filepath.Join(tablesDir, TrendResultsCSVName),
		EcologySummaryCSV: filepath.Join(tablesDir, EcologySummaryCSVName),
		WorkbookFile:      filepath.Join(reportsDir, WorkbookName),
		SQLiteFile:        filepath.Join(reportsDir, SQLiteName),
		ManifestFile:      filepath.Join(outDir, ManifestName),
		TraceFile:         filepath.Join(logs, TraceFileName),
	}
}

// EnsureDirectories creates all output directories if they don't exist.
// The raw data directory is input and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.CleanedDir,
		p.TablesDir,
		p.PlotsDir,
		p.ReportsDir,
		p.MetricsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// RawTablePath returns the path of a raw input file
func (p *Paths) RawTablePath(file string) string {
	return filepath.Join(p.DataDir, file)
}

// CleanedTablePath returns the path of a cleaned table, e.g. Visits_cleaned.csv
func (p *Paths) CleanedTablePath(name string) string {
	return filepath.Join(p.CleanedDir, name+CleanedSuffix)
}

// PlotPath returns the path for a chart image
func (p *Paths) PlotPath(filename string) string {
	return filepath.Join(p.PlotsDir, filename)
}

// MetricsPath returns the textfile-collector path for a stage's metrics
func (p *Paths) MetricsPath(stage string) string {
	return filepath.Join(p.MetricsDir, stage+".prom")
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("root", p.RootDir),
			slog.String("data", p.DataDir),
			slog.String("cleaned", p.CleanedDir),
			slog.String("tables", p.TablesDir),
			slog.String("plots", p.PlotsDir),
			slog.String("reports", p.ReportsDir),
			slog.String("metrics", p.MetricsDir),
			slog.String("logs", p.LogsDir),
		))
}
