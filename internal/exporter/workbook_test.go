package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "springcli/internal/errors"
	"springcli/internal/table"
)

func TestWorkbookExporter_Export(t *testing.T) {
	ecology, err := table.Read(strings.NewReader(
		"SiteCode,vegetation_present,invasives_present\nA,1,0\nB,0,1\n"), "ecology_site_summary")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "springs_report.xlsx")
	exp := NewWorkbookExporter(nil)

	require.NoError(t, exp.Export(context.Background(), path, []*table.Table{sampleTable(t), ecology}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"trend_results", "ecology_site_summary"}, f.GetSheetList())

	rows, err := f.GetRows("trend_results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SiteCode", "parameter", "slope_per_year", "p_value", "r_value", "n_years"}, rows[0])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "12.5", rows[1][2])

	rows, err = f.GetRows("ecology_site_summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "0", "1"}, rows[2])
}

func TestWorkbookExporter_NoTables(t *testing.T) {
	err := NewWorkbookExporter(nil).Export(context.Background(), filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "trend_results", sheetName("trend_results"))
	assert.Len(t, sheetName("summary_annual_water_quality_with_extra"), maxSheetName)
}
