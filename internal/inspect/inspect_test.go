package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springcli/internal/shared/testutil"
)

func newTestInspector(t *testing.T, tables map[string]string) *Inspector {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	logger, _ := testutil.NewTestLogger(t)
	return NewInspector(dir, logger)
}

func TestIsDateLike(t *testing.T) {
	tests := []struct {
		column string
		want   bool
	}{
		{"VisitDate", true},
		{"StartTime", true},
		{"FillTime_seconds", true},
		{"DATE", true},
		{"SiteCode", false},
		{"pH", false},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateLike(tt.column))
		})
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{name: "integers", values: []string{"1", "42", "-7"}, want: KindInt},
		{name: "floats", values: []string{"7.2", "8"}, want: KindFloat},
		{name: "integers with a gap", values: []string{"1", "", "3"}, want: KindFloat},
		{name: "all missing", values: []string{"", "NA"}, want: KindFloat},
		{name: "text", values: []string{"7.2", "Accepted"}, want: KindObject},
		{name: "no rows", values: nil, want: KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.values))
		})
	}
}

func TestInspector_Schemas(t *testing.T) {
	insp := newTestInspector(t, map[string]string{
		"Visits_cleaned.csv": "SiteCode,VisitDate,SpringType\nA,2019-05-01,Rheocrene\n",
		"Sites_cleaned.csv":  "SiteCode,Lat_WGS84,Lon_WGS84\n",
		"notes.csv":          "x\n",
	})

	schemas, err := insp.Schemas()
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	assert.Equal(t, "Sites_cleaned.csv", schemas[0].File)
	assert.True(t, schemas[0].HasSite)
	assert.False(t, schemas[0].HasVisitDate)
	assert.Empty(t, schemas[0].DateColumns)

	assert.Equal(t, "Visits", schemas[1].Table)
	assert.True(t, schemas[1].HasVisitDate)
	assert.Equal(t, []string{"VisitDate"}, schemas[1].DateColumns)
}

func TestInspector_ListSchemas(t *testing.T) {
	insp := newTestInspector(t, map[string]string{
		"Wildlife_cleaned.csv": "Observer,IsWildlifeObserved\n",
	})

	var out bytes.Buffer
	require.NoError(t, insp.ListSchemas(&out))

	assert.Equal(t, "\n=== Wildlife_cleaned.csv ===\n"+
		"Columns:\n"+
		"  Observer, IsWildlifeObserved\n"+
		"Contains SiteCode?   No\n"+
		"Contains VisitDate?  No\n"+
		"Date-like columns:  None\n"+
		"\nSchema listing complete: 1 tables.\n", out.String())
}

func TestInspector_Preview(t *testing.T) {
	insp := newTestInspector(t, map[string]string{
		"pH_cleaned.csv": "SiteCode,VisitDate,pH\n" +
			"A,2019-05-01,7.2\n" +
			"A,2020-05-03,7.6\n" +
			"B,2019-06-11,8.1\n",
	})

	var out bytes.Buffer
	require.NoError(t, insp.Preview(&out, 2))
	text := out.String()

	assert.Contains(t, text, "=== pH_cleaned.csv ===")
	assert.Contains(t, text, "Rows: 3 (")
	assert.Contains(t, text, "Columns (3):")
	assert.Contains(t, text, "  - SiteCode: object\n")
	assert.Contains(t, text, "  - pH: float64\n")
	assert.Contains(t, text, "First 2 rows:")
	assert.Contains(t, text, "A         2020-05-03  7.6")
	assert.NotContains(t, text, "8.1")
}

func TestInspector_MissingDirectory(t *testing.T) {
	insp := NewInspector(filepath.Join(t.TempDir(), "absent"), nil)

	assert.Error(t, insp.ListSchemas(&bytes.Buffer{}))
	assert.Error(t, insp.Preview(&bytes.Buffer{}, 5))
}
