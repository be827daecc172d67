package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "cleaner").Warn("no site column", "table", "Sites")

		AssertLogContains(t, handler, slog.LevelWarn, "no site column")
		assert.True(t, handler.ContainsAttr("component", "cleaner"))
		assert.True(t, handler.ContainsAttr("table", "Sites"))
		AssertNoErrors(t, handler)
	})
}
