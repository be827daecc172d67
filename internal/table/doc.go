// Package table holds the in-memory representation of a survey table:
// ordered column names plus rows of text cells.
//
// Cells keep the text read from disk. A value is treated as missing when it
// is empty or one of the usual missing-value tokens (NA, NaN, NULL, ...),
// see IsMissing. Numbers and dates are parsed on demand with ParseFloat and
// ParseDate, so writing a table back out never reformats untouched cells.
//
// Basic usage:
//
//	t, err := table.ReadFile("data/Visits.csv", "Visits")
//	if err := t.RequireColumns("SiteCode", "VisitDate"); err != nil { ... }
//	joined, err := table.LeftJoin(visits, sites, []string{"SiteCode"}, table.JoinOptions{})
package table
