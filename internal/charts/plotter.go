package charts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/infrastructure"
	"springcli/pkg/contracts/domain"
)

// Chart identifiers
const (
	ChartTimeseries     = "timeseries"
	ChartPHDistribution = "ph_distribution"
	ChartEcologyFlags   = "ecology_flags"
)

// EcologyFlagsFile is the file name of the flag totals bar chart
const EcologyFlagsFile = "ecology_flags_summary.png"

// axisLabels are the y axis labels per summary parameter
var axisLabels = map[string]string{
	domain.ParamConductivity:    "Specific Conductance (µS/cm)",
	domain.ParamPH:              "pH",
	domain.ParamTemperature:     "Water Temperature (°C)",
	domain.ParamDissolvedOxygen: "Dissolved Oxygen (mg/L)",
}

// titles are the short parameter names used in chart titles
var titles = map[string]string{
	domain.ParamConductivity:    "Conductivity",
	domain.ParamPH:              "pH",
	domain.ParamTemperature:     "Temperature",
	domain.ParamDissolvedOxygen: "Dissolved Oxygen",
}

// flagLabels are the bar labels in EcologyFlags order
var flagLabels = []string{"Vegetation", "Invasives", "Disturbance", "Wildlife", "Modifications"}

// ChartResult reports one chart
type ChartResult struct {
	Chart   string `json:"chart"`
	Path    string `json:"path,omitempty"`
	Points  int    `json:"points"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Plotter renders the pipeline charts into the plots directory
type Plotter struct {
	paths    *config.Paths
	cfg      config.ChartsConfig
	logger   *slog.Logger
	progress io.Writer
}

// NewPlotter creates a plotter
func NewPlotter(paths *config.Paths, cfg config.ChartsConfig, logger *slog.Logger) *Plotter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plotter{
		paths:    paths,
		cfg:      cfg,
		logger:   infrastructure.WithComponent(logger, "charts"),
		progress: os.Stdout,
	}
}

// SetProgress redirects the saved-plot and notice lines, nil silences them
func (p *Plotter) SetProgress(w io.Writer) {
	p.progress = w
}

func (p *Plotter) printf(format string, args ...any) {
	if p.progress != nil {
		fmt.Fprintf(p.progress, format, args...)
	}
}

// PlotAll renders every chart from the annual and ecology summaries.
// The configured time series site and parameter select the first chart.
func (p *Plotter) PlotAll(ctx context.Context, annual []domain.AnnualSummary, ecology []domain.EcologySiteSummary) ([]ChartResult, error) {
	var results []ChartResult

	res, err := p.PlotParameterTimeseries(ctx, annual, p.cfg.TimeseriesSite, p.cfg.TimeseriesParameter)
	if err != nil {
		return results, err
	}
	results = append(results, res)

	res, err = p.PlotPHDistribution(ctx, annual, LatestYear(annual))
	if err != nil {
		return results, err
	}
	results = append(results, res)

	res, err = p.PlotEcologyFlags(ctx, ecology)
	if err != nil {
		return results, err
	}
	results = append(results, res)

	return results, nil
}

// LatestYear returns the largest year in the summary, or 0 when it is empty
func LatestYear(annual []domain.AnnualSummary) int {
	latest := 0
	for _, a := range annual {
		if a.Year > latest {
			latest = a.Year
		}
	}
	return latest
}

// PlotParameterTimeseries draws one site's annual means of a parameter as a
// line with point markers. Years without a mean are left out.
func (p *Plotter) PlotParameterTimeseries(ctx context.Context, annual []domain.AnnualSummary, site, parameter string) (ChartResult, error) {
	res := ChartResult{Chart: ChartTimeseries}

	label, ok := axisLabels[parameter]
	if !ok {
		return res, apperrors.NewValidationError(fmt.Sprintf("unknown parameter %q", parameter))
	}

	var pts plotter.XYs
	for _, a := range annual {
		if a.SiteCode != site {
			continue
		}
		if v, ok := a.Mean(parameter); ok {
			pts = append(pts, plotter.XY{X: float64(a.Year), Y: v})
		}
	}
	res.Points = len(pts)

	if len(pts) == 0 {
		return p.skip(ctx, res, fmt.Sprintf("No %s data found for %s", parameter, site)), nil
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Annual %s at %s", titles[parameter], site)
	plt.X.Label.Text = "Year"
	plt.Y.Label.Text = label
	plt.X.Tick.Marker = yearTicks{}
	plt.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return res, apperrors.NewValidationError(fmt.Sprintf("invalid time series points: %v", err))
	}
	plt.Add(line, points)

	res.Path = p.paths.PlotPath(fmt.Sprintf("%s_timeseries_%s.png", parameter, fileSafe(site)))
	return res, p.save(ctx, plt, res)
}

// PlotPHDistribution draws a histogram of the pH annual means of one year
func (p *Plotter) PlotPHDistribution(ctx context.Context, annual []domain.AnnualSummary, year int) (ChartResult, error) {
	res := ChartResult{Chart: ChartPHDistribution}

	var values plotter.Values
	for _, a := range annual {
		if a.Year != year {
			continue
		}
		if v, ok := a.Mean(domain.ParamPH); ok {
			values = append(values, v)
		}
	}
	res.Points = len(values)

	if len(values) == 0 {
		return p.skip(ctx, res, fmt.Sprintf("No pH data for %d", year)), nil
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("pH Distribution Across Springs in %d", year)
	plt.X.Label.Text = "pH"
	plt.Y.Label.Text = "Count of Springs"

	hist, err := plotter.NewHist(values, p.bins())
	if err != nil {
		return res, apperrors.NewValidationError(fmt.Sprintf("invalid pH values: %v", err))
	}
	plt.Add(hist)

	res.Path = p.paths.PlotPath(fmt.Sprintf("ph_distribution_%d.png", year))
	return res, p.save(ctx, plt, res)
}

// PlotEcologyFlags draws the number of sites carrying each ecology flag.
// An empty summary still renders five zero bars.
func (p *Plotter) PlotEcologyFlags(ctx context.Context, summaries []domain.EcologySiteSummary) (ChartResult, error) {
	res := ChartResult{Chart: ChartEcologyFlags, Points: len(summaries)}

	values := make(plotter.Values, len(domain.EcologyFlags))
	for _, s := range summaries {
		for i, f := range domain.EcologyFlags {
			if s.Flags[f] {
				values[i]++
			}
		}
	}

	plt := plot.New()
	plt.Title.Text = "Number of Springs with Ecological Flags"
	plt.Y.Label.Text = "Number of Springs"
	plt.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return res, apperrors.NewValidationError(fmt.Sprintf("invalid flag totals: %v", err))
	}
	plt.Add(bars)
	plt.NominalX(flagLabels...)

	res.Path = p.paths.PlotPath(EcologyFlagsFile)
	return res, p.save(ctx, plt, res)
}

func (p *Plotter) bins() int {
	if p.cfg.HistogramBins > 0 {
		return p.cfg.HistogramBins
	}
	return 15
}

func (p *Plotter) skip(ctx context.Context, res ChartResult, reason string) ChartResult {
	res.Skipped = true
	res.Reason = reason
	p.printf("%s\n", reason)
	p.logger.InfoContext(ctx, "Chart skipped",
		slog.String("chart", res.Chart),
		slog.String("reason", reason))
	return res
}

func (p *Plotter) save(ctx context.Context, plt *plot.Plot, res ChartResult) error {
	width := vg.Length(p.cfg.WidthInches) * vg.Inch
	height := vg.Length(p.cfg.HeightInches) * vg.Inch
	if width <= 0 || height <= 0 {
		width, height = 6.4*vg.Inch, 4.8*vg.Inch
	}

	if err := os.MkdirAll(p.paths.PlotsDir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", p.paths.PlotsDir), err)
	}
	if err := plt.Save(width, height, res.Path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save chart %s", res.Path), err)
	}

	p.printf("Saved plot: %s\n", res.Path)
	p.logger.InfoContext(ctx, "Chart saved",
		slog.String("chart", res.Chart),
		slog.String("path", res.Path),
		slog.Int("points", res.Points))
	return nil
}

// yearTicks labels whole years only
type yearTicks struct{}

// Ticks implements plot.Ticker
func (yearTicks) Ticks(min, max float64) []plot.Tick {
	first, last := int(math.Ceil(min)), int(math.Floor(max))
	step := 1
	for (last-first)/step > 10 {
		step++
	}

	var ticks []plot.Tick
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

// fileSafe replaces path separators in a site code used in a file name
func fileSafe(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
}
