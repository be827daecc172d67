package exporter

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springcli/internal/table"
)

func TestSQLiteArchive_Archive(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports", "springs.db")
	archive := NewSQLiteArchive(path, nil)
	assert.Equal(t, path, archive.Path())

	require.NoError(t, archive.Archive(ctx, []*table.Table{sampleTable(t)}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "trend_results"`).Scan(&count))
	assert.Equal(t, 2, count)

	var slope sql.NullString
	require.NoError(t, db.QueryRow(`SELECT slope_per_year FROM "trend_results" WHERE SiteCode = 'B'`).Scan(&slope))
	assert.False(t, slope.Valid)

	var rows, cols int
	require.NoError(t, db.QueryRow(`SELECT row_count, column_count FROM export_catalog WHERE table_name = 'trend_results'`).Scan(&rows, &cols))
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)
}

func TestSQLiteArchive_RecreatesTables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "springs.db")
	archive := NewSQLiteArchive(path, nil)

	require.NoError(t, archive.Archive(ctx, []*table.Table{sampleTable(t)}))

	smaller, err := table.Read(strings.NewReader("SiteCode,parameter\nZ,pH\n"), "trend_results")
	require.NoError(t, err)
	require.NoError(t, archive.Archive(ctx, []*table.Table{smaller}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "trend_results"`).Scan(&count))
	assert.Equal(t, 1, count)

	var catalogRows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM export_catalog`).Scan(&catalogRows))
	assert.Equal(t, 1, catalogRows)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"pH"`, quoteIdent("pH"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
