package charts

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/shared/testutil"
	"springcli/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newTestPlotter(t *testing.T) (*Plotter, *config.Paths, *bytes.Buffer) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), "data", "output", "logs")
	logger, _ := testutil.NewTestLogger(t)
	p := NewPlotter(paths, config.Default().Charts, logger)
	var progress bytes.Buffer
	p.SetProgress(&progress)
	return p, paths, &progress
}

func summary(site string, year int, means map[string]float64) domain.AnnualSummary {
	m := make(map[string]*float64, len(means))
	for k, v := range means {
		v := v
		m[k] = &v
	}
	return domain.AnnualSummary{SiteCode: site, Year: year, Means: m}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func sampleAnnual() []domain.AnnualSummary {
	return []domain.AnnualSummary{
		summary("A", 2018, map[string]float64{domain.ParamConductivity: 410, domain.ParamPH: 7.4}),
		summary("A", 2019, map[string]float64{domain.ParamConductivity: 425, domain.ParamPH: 7.6}),
		summary("A", 2020, map[string]float64{domain.ParamPH: 7.7}),
		summary("B", 2020, map[string]float64{domain.ParamConductivity: 980, domain.ParamPH: 8.2}),
		summary("C", 2020, map[string]float64{domain.ParamTemperature: 19.5}),
	}
}

func TestPlotter_PlotParameterTimeseries(t *testing.T) {
	p, paths, progress := newTestPlotter(t)

	res, err := p.PlotParameterTimeseries(context.Background(), sampleAnnual(), "A", domain.ParamConductivity)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, 2, res.Points)
	assert.Equal(t, filepath.Join(paths.PlotsDir, "conductivity_timeseries_A.png"), res.Path)
	assertPNG(t, res.Path)
	assert.Equal(t, "Saved plot: "+res.Path+"\n", progress.String())
}

func TestPlotter_PlotParameterTimeseries_NoData(t *testing.T) {
	tests := []struct {
		name      string
		site      string
		parameter string
		reason    string
	}{
		{name: "unknown site", site: "Z", parameter: domain.ParamConductivity, reason: "No conductivity data found for Z"},
		{name: "site without the parameter", site: "C", parameter: domain.ParamConductivity, reason: "No conductivity data found for C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, paths, progress := newTestPlotter(t)

			res, err := p.PlotParameterTimeseries(context.Background(), sampleAnnual(), tt.site, tt.parameter)
			require.NoError(t, err)

			assert.True(t, res.Skipped)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.reason+"\n", progress.String())
			assert.NoDirExists(t, paths.PlotsDir)
		})
	}
}

func TestPlotter_PlotParameterTimeseries_UnknownParameter(t *testing.T) {
	p, _, _ := newTestPlotter(t)

	_, err := p.PlotParameterTimeseries(context.Background(), sampleAnnual(), "A", "turbidity")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestPlotter_PlotPHDistribution(t *testing.T) {
	p, paths, _ := newTestPlotter(t)
	annual := sampleAnnual()

	res, err := p.PlotPHDistribution(context.Background(), annual, LatestYear(annual))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Points)
	assert.Equal(t, filepath.Join(paths.PlotsDir, "ph_distribution_2020.png"), res.Path)
	assertPNG(t, res.Path)
}

func TestPlotter_PlotPHDistribution_NoData(t *testing.T) {
	p, _, progress := newTestPlotter(t)

	res, err := p.PlotPHDistribution(context.Background(), nil, LatestYear(nil))
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Equal(t, "No pH data for 0\n", progress.String())
}

func TestPlotter_PlotEcologyFlags(t *testing.T) {
	p, paths, _ := newTestPlotter(t)

	summaries := []domain.EcologySiteSummary{
		{SiteCode: "A", Flags: map[string]bool{domain.FlagVegetation: true, domain.FlagWildlife: true}},
		{SiteCode: "B", Flags: map[string]bool{domain.FlagVegetation: true}},
	}

	res, err := p.PlotEcologyFlags(context.Background(), summaries)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.PlotsDir, EcologyFlagsFile), res.Path)
	assertPNG(t, res.Path)
}

func TestPlotter_PlotAll_Overwrites(t *testing.T) {
	p, paths, _ := newTestPlotter(t)
	p.cfg.TimeseriesSite = "A"

	require.NoError(t, os.MkdirAll(paths.PlotsDir, 0755))
	stale := paths.PlotPath(EcologyFlagsFile)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	results, err := p.PlotAll(context.Background(), sampleAnnual(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, res := range results {
		assert.False(t, res.Skipped, res.Chart)
		assertPNG(t, res.Path)
	}
}

func TestLatestYear(t *testing.T) {
	assert.Equal(t, 2020, LatestYear(sampleAnnual()))
	assert.Equal(t, 0, LatestYear(nil))
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2017.6, 2020.2)

	require.Len(t, ticks, 3)
	assert.Equal(t, "2018", ticks[0].Label)
	assert.Equal(t, 2020.0, ticks[2].Value)

	wide := yearTicks{}.Ticks(1990, 2020)
	assert.LessOrEqual(t, len(wide), 11)
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "DEVA_P_BEN0606", fileSafe("DEVA_P_BEN0606"))
	assert.Equal(t, "a_b_c", fileSafe("a/b c"))
}
