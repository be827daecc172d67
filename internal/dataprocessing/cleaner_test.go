package dataprocessing

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/shared/testutil"
	"springcli/internal/table"
)

func readTable(t *testing.T, content string) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(content), "test")
	require.NoError(t, err)
	return tbl
}

func TestStandardizeSiteColumn(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantAlias string
		wantFound bool
		wantCols  []string
	}{
		{
			name:      "spring id alias",
			content:   "SpringID,VisitDate\nA,2020-01-01\n",
			wantAlias: "SpringID",
			wantFound: true,
			wantCols:  []string{"SiteCode", "VisitDate"},
		},
		{
			name:      "lower case alias",
			content:   "site_id,Overall\nA,1\n",
			wantAlias: "site_id",
			wantFound: true,
			wantCols:  []string{"SiteCode", "Overall"},
		},
		{
			name:      "canonical column wins over alias",
			content:   "SiteCode,SiteID\nA,B\n",
			wantFound: true,
			wantCols:  []string{"SiteCode", "SiteID"},
		},
		{
			name:      "first alias in lookup order",
			content:   "spring_id,SiteID\nA,B\n",
			wantAlias: "SiteID",
			wantFound: true,
			wantCols:  []string{"spring_id", "SiteCode"},
		},
		{
			name:     "no identifier",
			content:  "Name,Value\nx,1\n",
			wantCols: []string{"Name", "Value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := readTable(t, tt.content)
			alias, found := StandardizeSiteColumn(tbl)
			assert.Equal(t, tt.wantAlias, alias)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCols, tbl.Columns)
		})
	}
}

func TestParseDateColumns(t *testing.T) {
	tbl := readTable(t, "SiteCode,VisitDate,Date,Note\n"+
		"A,5/1/2019,2019-05-01 10:30:00,5/1/2019\n"+
		"A,not a date,,x\n"+
		"B,2020-06-09,NA,y\n")

	invalid := ParseDateColumns(tbl, []string{"VisitDate", "Date", "Absent"})

	assert.Equal(t, 1, invalid)
	assert.Equal(t, []string{"2019-05-01", "", "2020-06-09"}, tbl.Column("VisitDate"))
	assert.Equal(t, []string{"2019-05-01", "", ""}, tbl.Column("Date"))
	// non-date columns keep their text
	assert.Equal(t, []string{"5/1/2019", "x", "y"}, tbl.Column("Note"))
}

func TestDetectPrimaryColumn(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		dateCols []string
		want     string
	}{
		{
			name:     "first numeric after keys",
			content:  "SiteCode,VisitDate,pH,DPL\nA,2019-05-01,7.2,Accepted\nB,2019-05-02,,Accepted\n",
			dateCols: []string{"VisitDate"},
			want:     "pH",
		},
		{
			name:    "text column with one word is not numeric",
			content: "SiteCode,Reading,Value\nA,1.5,2\nB,high,3\n",
			want:    "Value",
		},
		{
			name:    "all missing column is skipped",
			content: "SiteCode,Empty,Count\nA,,4\nB,NA,5\n",
			want:    "Count",
		},
		{
			name:     "blank leading column is never primary",
			content:  "SiteCode,VisitDate,Empty,pH\nA,2019-05-01,,7.2\nB,2019-05-02,,\n",
			dateCols: []string{"VisitDate"},
			want:     "pH",
		},
		{
			name:    "only blank columns",
			content: "SiteCode,Empty,Notes\nA,,\nB,,\n",
			want:    "",
		},
		{
			name:    "numeric site codes are not primary",
			content: "SiteCode,Flag\n101,Y\n102,N\n",
			want:    "",
		},
		{
			name:    "no rows",
			content: "SiteCode,Value\n",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPrimaryColumn(readTable(t, tt.content), tt.dateCols))
		})
	}
}

func TestCleaner_CleanTable(t *testing.T) {
	paths := newTestPaths(t, testutil.MinimalSurvey())
	logger, handler := testutil.NewTestLogger(t)
	cleaner := NewCleaner(paths, config.DefaultTableCatalog(), logger)
	var progress bytes.Buffer
	cleaner.SetProgress(&progress)

	spec, ok := config.LookupTable("pH")
	require.True(t, ok)

	res, err := cleaner.CleanTable(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, 4, res.InputRows)
	assert.Equal(t, 3, res.OutputRows)
	assert.Equal(t, 1, res.DroppedRows)
	assert.Equal(t, "pH", res.PrimaryColumn)
	assert.True(t, res.SiteColumnFound)
	assert.Equal(t, "pH: 3 rows\n", progress.String())
	assert.True(t, handler.ContainsMessage("Table cleaned"))

	cleaned, err := table.ReadFile(paths.CleanedTablePath("pH"), "pH")
	require.NoError(t, err)
	assert.Equal(t, []string{"7.2", "7.6", "8.1"}, cleaned.Column("pH"))
}

func TestCleaner_BlankLeadingColumn(t *testing.T) {
	survey := testutil.MinimalSurvey().With("WaterQualitypH.csv", "SiteCode,VisitDate,Comment,pH,DPL\n"+
		"A,2019-05-01,,7.2,Accepted\n"+
		"A,2020-05-03,,,Accepted\n"+
		"B,2019-06-11,,8.1,Accepted\n")
	paths := newTestPaths(t, survey)
	cleaner := NewCleaner(paths, config.DefaultTableCatalog(), slog.Default())
	cleaner.SetProgress(nil)

	spec, _ := config.LookupTable("pH")
	res, err := cleaner.CleanTable(context.Background(), spec)
	require.NoError(t, err)

	// the empty Comment column is passed over, rows are dropped on pH
	assert.Equal(t, "pH", res.PrimaryColumn)
	assert.Equal(t, 2, res.OutputRows)
	assert.Equal(t, 1, res.DroppedRows)
}

func TestCleaner_RenamesVisitAlias(t *testing.T) {
	paths := newTestPaths(t, testutil.MinimalSurvey())
	cleanSurvey(t, paths)

	visits, err := table.ReadFile(paths.CleanedTablePath("Visits"), "Visits")
	require.NoError(t, err)
	assert.Equal(t, "SiteCode", visits.Columns[0])
	assert.False(t, visits.HasColumn("SpringID"))
	assert.Equal(t, 4, visits.Len())
}

func TestCleaner_WarnsWithoutSiteColumn(t *testing.T) {
	survey := testutil.MinimalSurvey().With("Wildlife.csv", "Observer,IsWildlifeObserved\nJD,Yes\n")
	paths := newTestPaths(t, survey)
	logger, handler := testutil.NewTestLogger(t)
	cleaner := NewCleaner(paths, config.DefaultTableCatalog(), logger)
	cleaner.SetProgress(nil)

	spec, _ := config.LookupTable("Wildlife")
	res, err := cleaner.CleanTable(context.Background(), spec)
	require.NoError(t, err)

	assert.False(t, res.SiteColumnFound)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "No site identifier column found")
}

func TestCleaner_MissingRawFile(t *testing.T) {
	paths := newTestPaths(t, testutil.MinimalSurvey().Without("Sites.csv"))
	cleaner := NewCleaner(paths, config.DefaultTableCatalog(), quietLogger(t))
	cleaner.SetProgress(nil)

	results, err := cleaner.CleanAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Empty(t, results, "Sites is first in the catalog")
}

func TestCleaner_Idempotent(t *testing.T) {
	raw := testutil.MinimalSurvey().
		With("Visits.csv", testutil.VisitsHeader+
			"A,5/1/2019,Active,Rheocrene,Accepted\n"+
			"A,bad date,Active,Rheocrene,Accepted\n"+
			"B,2020-06-09 08:15:00,Active,Limnocrene,Accepted\n")
	first := newTestPaths(t, raw)
	cleanSurvey(t, first)

	// feed the cleaned output back in as raw input
	second := testutil.EmptySurvey()
	for _, spec := range config.DefaultTableCatalog() {
		data, err := os.ReadFile(first.CleanedTablePath(spec.Name))
		require.NoError(t, err)
		second[spec.File] = string(data)
	}
	again := newTestPaths(t, second)
	cleanSurvey(t, again)

	for _, spec := range config.DefaultTableCatalog() {
		want, err := os.ReadFile(first.CleanedTablePath(spec.Name))
		require.NoError(t, err)
		got, err := os.ReadFile(again.CleanedTablePath(spec.Name))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), spec.Name)
	}
}
