package dataprocessing

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"springcli/internal/config"
	"springcli/internal/shared/testutil"
)

// newTestPaths lays out a project under a temp dir with the survey as raw input
func newTestPaths(t *testing.T, survey testutil.Survey) *config.Paths {
	t.Helper()
	root := t.TempDir()
	paths := config.NewPaths(root, "data", "output", "logs")
	require.NoError(t, paths.EnsureDirectories())
	testutil.WriteSurvey(t, paths.DataDir, survey)
	return paths
}

func quietLogger(t *testing.T) *slog.Logger {
	logger, _ := testutil.NewTestLogger(t)
	return logger
}

// cleanSurvey runs the cleaner over every catalog table
func cleanSurvey(t *testing.T, paths *config.Paths) []CleanResult {
	t.Helper()
	cleaner := NewCleaner(paths, config.DefaultTableCatalog(), quietLogger(t))
	cleaner.SetProgress(&bytes.Buffer{})
	results, err := cleaner.CleanAll(context.Background())
	require.NoError(t, err)
	return results
}

// mergeSurvey cleans then merges
func mergeSurvey(t *testing.T, paths *config.Paths) MergeResult {
	t.Helper()
	cleanSurvey(t, paths)
	merger := NewMerger(paths, quietLogger(t), false)
	merger.SetProgress(&bytes.Buffer{})
	res, err := merger.Merge(context.Background())
	require.NoError(t, err)
	return res
}
