package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "springcli/internal/errors"
	"springcli/internal/table"
)

// catalogTable records what each export run wrote
const catalogTable = "export_catalog"

// SQLiteArchive writes derived tables into a SQLite file.
// Every table is dropped and recreated with TEXT columns on each run.
type SQLiteArchive struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteArchive creates an archive writer for the database at path
func NewSQLiteArchive(path string, logger *slog.Logger) *SQLiteArchive {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteArchive{path: path, logger: logger}
}

// Path returns the database file location
func (a *SQLiteArchive) Path() string {
	return a.path
}

// Archive writes every table in one transaction each
func (a *SQLiteArchive) Archive(ctx context.Context, tables []*table.Table) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create database directory", err)
	}

	a.logger.DebugContext(ctx, "Opening database", slog.String("path", a.path))
	db, err := sql.Open("sqlite3", a.path)
	if err != nil {
		return apperrors.NewStorageError("failed to open database", err)
	}
	defer db.Close()

	createCatalog := `
	CREATE TABLE IF NOT EXISTS ` + catalogTable + ` (
		table_name TEXT PRIMARY KEY,
		row_count INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		exported_at DATETIME NOT NULL
	);`
	if _, err := db.ExecContext(ctx, createCatalog); err != nil {
		return apperrors.NewStorageError("failed to create catalog table", err)
	}

	for _, t := range tables {
		if err := a.writeTable(ctx, db, t); err != nil {
			return err
		}
		a.logger.InfoContext(ctx, "Archived table",
			slog.String("table", t.Name),
			slog.Int("rows", t.Len()))
	}
	return nil
}

func (a *SQLiteArchive) writeTable(ctx context.Context, db *sql.DB, t *table.Table) error {
	if len(t.Columns) == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("table %s has no columns", t.Name))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	name := quoteIdent(t.Name)
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to drop %s", t.Name), err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", t.Name), err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to prepare insert into %s", t.Name), err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.Columns))
	for r, row := range t.Rows {
		for i, cell := range row {
			args[i] = sql.NullString{String: cell, Valid: !table.IsMissing(cell)}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to insert row %d into %s", r, t.Name), err)
		}
	}

	upsert := `INSERT INTO ` + catalogTable + ` (table_name, row_count, column_count, exported_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(table_name) DO UPDATE SET
		row_count = excluded.row_count,
		column_count = excluded.column_count,
		exported_at = excluded.exported_at`
	if _, err := tx.ExecContext(ctx, upsert, t.Name, t.Len(), len(t.Columns), time.Now().UTC()); err != nil {
		return apperrors.NewStorageError("failed to update catalog", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to commit %s", t.Name), err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
