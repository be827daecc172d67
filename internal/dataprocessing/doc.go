// Package dataprocessing implements the batch stages of the springs survey
// pipeline, from raw field tables to the derived reporting tables.
//
// # Stages
//
//  1. Cleaner: renames site identifier aliases to SiteCode, normalizes date
//     columns to YYYY-MM-DD and drops rows missing the primary measurement.
//  2. Merger: left-joins sites and the measurement tables onto the visits.
//  3. TrendSummarizer: annual means per site and a linear trend per parameter.
//  4. EcologySummarizer: per-site presence flags from the ecological tables.
//
// Every stage reads and writes files under the resolved config.Paths and
// prints one progress line per output to its progress writer (stdout unless
// redirected with SetProgress).
//
// # Usage
//
//	cleaner := dataprocessing.NewCleaner(paths, config.DefaultTableCatalog(), logger)
//	if _, err := cleaner.CleanAll(ctx); err != nil {
//	    return err
//	}
//
//	merger := dataprocessing.NewMerger(paths, logger, cfg.Pipeline.StrictJoinKeys)
//	res, err := merger.Merge(ctx)
//
// # Missing values
//
// Cells are kept as text. A cell is missing when it is empty or one of the
// usual null tokens (NA, NaN, NULL, None, ...), see table.IsMissing. Numeric
// aggregates skip missing cells column by column.
package dataprocessing
