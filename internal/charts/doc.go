// Package charts renders the static PNG charts of the springs pipeline with
// gonum/plot: a per-site parameter time series, the pH distribution of the
// latest year and the ecology flag totals.
//
// A chart whose selection is empty is skipped with a notice instead of an error.
package charts
