package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/infrastructure"
	"springcli/internal/operations"
	"springcli/internal/shared/testutil"
)

const testConfig = `
logging:
  level: debug
  format: json
  output: file
telemetry:
  service_name: springs-test
  trace_exporter: none
  metrics_enabled: true
charts:
  timeseries_site: A
  timeseries_parameter: pH
`

func setupRoot(t *testing.T) (root, configFile string) {
	t.Helper()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	root = t.TempDir()
	testutil.WriteSurvey(t, filepath.Join(root, "data"), testutil.MinimalSurvey())

	configFile = filepath.Join(root, "springs.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(testConfig), 0644))
	return root, configFile
}

func TestNew(t *testing.T) {
	root, configFile := setupRoot(t)
	ctx := context.Background()

	a, err := New(ctx, Options{ConfigFile: configFile, RootDir: root, LogName: "clean", Progress: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Equal(t, "A", a.Config.Charts.TimeseriesSite)
	assert.Equal(t, filepath.Join(root, "output", "cleaned"), a.Paths.CleanedDir)
	assert.Equal(t, filepath.Join(root, "logs", "clean.log"), a.Config.Logging.FilePath)
	assert.Equal(t, config.StageOrder, a.Registry.ListIDs())
	assert.DirExists(t, a.Paths.MetricsDir)
}

func TestApplication_RunStage(t *testing.T) {
	root, configFile := setupRoot(t)
	ctx := context.Background()
	var progress bytes.Buffer

	a, err := New(ctx, Options{ConfigFile: configFile, RootDir: root, LogName: "clean", Progress: &progress})
	require.NoError(t, err)

	manifest, err := a.Run(ctx, config.StageClean)
	require.NoError(t, err)
	require.NoError(t, a.Close(ctx))

	assert.Equal(t, operations.RunStatusCompleted, manifest.Status)
	assert.Contains(t, progress.String(), "Visits: 4 rows\n")
	assert.FileExists(t, a.Paths.CleanedTablePath("Visits"))
	assert.FileExists(t, a.Paths.ManifestFile)
	assert.FileExists(t, a.Paths.MetricsPath(config.StageClean))

	logData, err := os.ReadFile(filepath.Join(root, "logs", "clean.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"stage":"clean"`)
	assert.Contains(t, string(logData), manifest.RunID)
}

func TestExecute_MissingInput(t *testing.T) {
	root, configFile := setupRoot(t)
	require.NoError(t, os.Remove(filepath.Join(root, "data", "Visits.csv")))

	err := Execute(context.Background(), Options{ConfigFile: configFile, RootDir: root, Progress: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.FileExists(t, filepath.Join(root, "logs", PipelineLogName+".log"))
}

func TestNew_InvalidConfig(t *testing.T) {
	root, _ := setupRoot(t)
	configFile := filepath.Join(root, "bad.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("charts:\n  histogram_bins: 0\n"), 0644))

	_, err := New(context.Background(), Options{ConfigFile: configFile, RootDir: root})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestRunStage(t *testing.T) {
	root, configFile := setupRoot(t)
	var progress bytes.Buffer

	err := RunStage(context.Background(), config.StageClean, []string{"-config", configFile, "-root", root}, &progress)
	require.NoError(t, err)

	assert.Contains(t, progress.String(), "Visits: 4 rows\n")
	assert.FileExists(t, filepath.Join(root, "output", "cleaned", "Visits_cleaned.csv"))
	assert.FileExists(t, filepath.Join(root, "logs", config.StageClean+".log"))
}

func TestRunStage_Errors(t *testing.T) {
	root, configFile := setupRoot(t)
	ctx := context.Background()

	err := RunStage(ctx, config.StageTrends, []string{"-verbose"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	err = RunStage(ctx, config.StageTrends, []string{"-config", configFile, "-root", root}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trends stage failed")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	assert.NoError(t, RunStage(ctx, config.StageTrends, []string{"-h"}, &bytes.Buffer{}))
}
