package config

import "springcli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "Springs Pipeline"
	AppVersion = contracts.Version

	// Canonical column names shared by every stage
	SiteColumn      = "SiteCode"
	VisitDateColumn = "VisitDate"

	// DateLayout is the textual form of every parsed date
	DateLayout = "2006-01-02"

	// MinTrendYears is the admission threshold for a trend test
	MinTrendYears = 3

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Stage identifiers, in execution order
	StageClean     = "clean"
	StageMerge     = "merge"
	StageTrends    = "trends"
	StageEcology   = "ecology"
	StageVisualize = "visualize"
	StageExport    = "export"
)

// SiteAliases lists the legacy site identifier names, in lookup order.
// The first one present in a table is renamed to SiteColumn.
var SiteAliases = []string{"SiteID", "SpringID", "site_id", "spring_id", "SPRING_ID"}

// StageOrder is the fixed forward order of the pipeline.
var StageOrder = []string{
	StageClean,
	StageMerge,
	StageTrends,
	StageEcology,
	StageVisualize,
	StageExport,
}
