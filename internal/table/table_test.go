package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "springcli/internal/errors"
)

func mustRead(t *testing.T, name, content string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(content), name)
	require.NoError(t, err)
	return tbl
}

func TestRead(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantColumns []string
		wantRows    [][]string
		wantErr     bool
	}{
		{
			name:        "header and rows",
			content:     "SiteID,pH\nA,7.1\nB,\n",
			wantColumns: []string{"SiteID", "pH"},
			wantRows:    [][]string{{"A", "7.1"}, {"B", ""}},
		},
		{
			name:        "short rows are padded",
			content:     "a,b,c\n1\n",
			wantColumns: []string{"a", "b", "c"},
			wantRows:    [][]string{{"1", "", ""}},
		},
		{
			name:        "byte order mark is stripped",
			content:     "\ufeffSiteCode,x\nA,1\n",
			wantColumns: []string{"SiteCode", "x"},
			wantRows:    [][]string{{"A", "1"}},
		},
		{
			name:        "duplicate headers are suffixed",
			content:     "a,a,a\n1,2,3\n",
			wantColumns: []string{"a", "a.1", "a.2"},
			wantRows:    [][]string{{"1", "2", "3"}},
		},
		{
			name:        "header only",
			content:     "a,b\n",
			wantColumns: []string{"a", "b"},
			wantRows:    [][]string{},
		},
		{
			name:    "empty input",
			content: "",
			wantErr: true,
		},
		{
			name:    "too many fields",
			content: "a,b\n1,2,3\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.content), "T")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, tbl.Columns)
			assert.Equal(t, tt.wantRows, tbl.Rows)
		})
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "Visits.csv"), "Visits")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), "Visits")
}

func TestWrite_RoundTrip(t *testing.T) {
	src := "SiteCode,Note,Value\nA,\"has, comma\",1.50\nB,,\n"
	tbl := mustRead(t, "T", src)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	assert.Equal(t, src, buf.String())

	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	again, err := ReadFile(path, "T")
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, again.Rows)
}

func TestRenameColumn(t *testing.T) {
	tbl := mustRead(t, "T", "SiteID,x\nA,1\n")

	assert.True(t, tbl.RenameColumn("SiteID", "SiteCode"))
	assert.True(t, tbl.HasColumn("SiteCode"))
	assert.False(t, tbl.HasColumn("SiteID"))
	assert.Equal(t, "A", tbl.Value(0, "SiteCode"))

	assert.False(t, tbl.RenameColumn("absent", "y"))
}

func TestRequireColumns(t *testing.T) {
	tbl := mustRead(t, "pH", "SiteCode,x\nA,1\n")

	require.NoError(t, tbl.RequireColumns("SiteCode", "x"))

	err := tbl.RequireColumns("SiteCode", "VisitDate", "pH")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	assert.Contains(t, err.Error(), `missing column "VisitDate"`)
	assert.Contains(t, err.Error(), `missing column "pH"`)
	assert.Contains(t, err.Error(), "table pH")
}

func TestSelect(t *testing.T) {
	tbl := mustRead(t, "T", "a,b,c\n1,2,3\n4,5,6\n")

	sel, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Columns)
	assert.Equal(t, [][]string{{"3", "1"}, {"6", "4"}}, sel.Rows)

	_, err = tbl.Select("a", "z")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestFilter(t *testing.T) {
	tbl := mustRead(t, "T", "site,year\nB,2020\nA,2021\nA,2019\nC,\n")

	kept := tbl.Filter(func(row []string) bool { return !IsMissing(row[1]) })
	assert.Equal(t, 3, kept.Len())
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"B", "A", "A"}, kept.Column("site"))
	assert.Equal(t, []string{"2020", "2021", "2019"}, kept.Column("year"))
}

func TestAppendRow(t *testing.T) {
	tbl := New("T", []string{"a", "b"})
	tbl.AppendRow([]string{"1"})
	tbl.AppendRow([]string{"1", "2", "3"})

	assert.Equal(t, [][]string{{"1", ""}, {"1", "2"}}, tbl.Rows)
	assert.Nil(t, tbl.Column("z"))
	assert.Equal(t, "", tbl.Value(0, "z"))
}
