// Package shared holds code used across the springs packages that belongs to
// no single stage.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and a small raw survey dataset written into a temp directory:
//
//	func TestSomething(t *testing.T) {
//	    root := t.TempDir()
//	    testutil.WriteSurvey(t, filepath.Join(root, "data"), testutil.MinimalSurvey())
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
package shared
