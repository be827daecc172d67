package domain

import (
	"strconv"
)

// Water-quality parameter names used in derived tables
const (
	ParamConductivity    = "conductivity"
	ParamPH              = "pH"
	ParamTemperature     = "temperature"
	ParamDissolvedOxygen = "dissolved_oxygen"
)

// Parameters lists the summarized parameters in output column order
var Parameters = []string{ParamConductivity, ParamPH, ParamTemperature, ParamDissolvedOxygen}

// AnnualSummaryHeaders is the column layout of summary_annual_water_quality.csv
var AnnualSummaryHeaders = []string{"SiteCode", "Year", ParamConductivity, ParamPH, ParamTemperature, ParamDissolvedOxygen}

// AnnualSummary holds one site's yearly parameter means.
// A nil mean means the year had no valid value for that parameter.
type AnnualSummary struct {
	SiteCode string              `json:"site_code" csv:"SiteCode"`
	Year     int                 `json:"year" csv:"Year"`
	Means    map[string]*float64 `json:"means"`
}

// Mean returns the mean for a parameter and whether it is present
func (a AnnualSummary) Mean(parameter string) (float64, bool) {
	v := a.Means[parameter]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Record renders the row in AnnualSummaryHeaders order
func (a AnnualSummary) Record() []string {
	rec := []string{a.SiteCode, strconv.Itoa(a.Year)}
	for _, p := range Parameters {
		if v, ok := a.Mean(p); ok {
			rec = append(rec, formatFloat(v))
		} else {
			rec = append(rec, "")
		}
	}
	return rec
}

// TrendResultHeaders is the column layout of trend_results.csv
var TrendResultHeaders = []string{"SiteCode", "parameter", "slope_per_year", "p_value", "r_value", "n_years"}

// TrendResult is the linear fit of annual means against year for one site and parameter
type TrendResult struct {
	SiteCode     string  `json:"site_code" csv:"SiteCode"`
	Parameter    string  `json:"parameter" csv:"parameter"`
	SlopePerYear float64 `json:"slope_per_year" csv:"slope_per_year"`
	PValue       float64 `json:"p_value" csv:"p_value"`
	RValue       float64 `json:"r_value" csv:"r_value"`
	NYears       int     `json:"n_years" csv:"n_years"`
}

// Record renders the row in TrendResultHeaders order
func (t TrendResult) Record() []string {
	return []string{
		t.SiteCode,
		t.Parameter,
		formatFloat(t.SlopePerYear),
		formatFloat(t.PValue),
		formatFloat(t.RValue),
		strconv.Itoa(t.NYears),
	}
}

// Ecology flag column names
const (
	FlagVegetation       = "vegetation_present"
	FlagInvasives        = "invasives_present"
	FlagDisturbance      = "disturbance_present"
	FlagWildlife         = "wildlife_present"
	FlagFlowModification = "flow_modification_present"
)

// EcologyFlags lists the flag columns in output order
var EcologyFlags = []string{FlagVegetation, FlagInvasives, FlagDisturbance, FlagWildlife, FlagFlowModification}

// EcologySummaryHeaders is the column layout of ecology_site_summary.csv
var EcologySummaryHeaders = append([]string{"SiteCode"}, EcologyFlags...)

// EcologySiteSummary carries the presence flags of one site, keyed by flag column
type EcologySiteSummary struct {
	SiteCode string          `json:"site_code" csv:"SiteCode"`
	Flags    map[string]bool `json:"flags"`
}

// Record renders the row in EcologySummaryHeaders order, flags as 0 or 1
func (e EcologySiteSummary) Record() []string {
	rec := []string{e.SiteCode}
	for _, f := range EcologyFlags {
		if e.Flags[f] {
			rec = append(rec, "1")
		} else {
			rec = append(rec, "0")
		}
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
