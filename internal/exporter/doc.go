// Package exporter writes pipeline tables to disk.
//
// CSVWriter: plain CSV output for cleaned and derived tables. Relative paths
// resolve against the derived tables directory.
//
// WorkbookExporter: one xlsx workbook with a sheet per derived table, header
// row frozen and numeric cells stored as numbers.
//
// SQLiteArchive: the same tables in a SQLite file, recreated on every run,
// plus an export_catalog table with row counts and export time.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	err := writer.WriteTable(paths.TrendResultsCSV, trends)
//
//	err = exporter.NewWorkbookExporter(logger).Export(ctx, paths.WorkbookFile, tables)
//	err = exporter.NewSQLiteArchive(paths.SQLiteFile, logger).Archive(ctx, tables)
package exporter
