// Package config provides centralized configuration for the springs pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables SPRINGS_* (highest priority)
//	2. springs.yaml or configs/springs.yaml
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded before the environment is
// read and never overrides variables that are already set.
//
// # Environment Variables
//
//	SPRINGS_LOGGING_LEVEL=debug
//	SPRINGS_PATHS_ROOT_DIR=/srv/springs
//	SPRINGS_PIPELINE_STRICT_JOIN_KEYS=true
//	SPRINGS_CHARTS_TIMESERIES_SITE=DEVA_P_BEN0606
//	SPRINGS_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths are resolved once at process start and passed to every stage:
//
//	cfg, err := config.Load()
//	paths, err := cfg.ResolvePaths()
//	if err := paths.EnsureDirectories(); err != nil { ... }
//	cleaned := paths.CleanedTablePath("Visits") // output/cleaned/Visits_cleaned.csv
//
// # Table Catalog
//
// The raw tables and the date columns parsed on each are static values,
// see DefaultTableCatalog.
package config
