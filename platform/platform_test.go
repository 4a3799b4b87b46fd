package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/19h/ul2/internal/native/soft"
	"github.com/19h/ul2/ul"
)

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.LogMessage(ul.LogLevelError, "bad")
	l.LogMessage(ul.LogLevelWarning, "careful")
	l.LogMessage(ul.LogLevelInfo, "fyi")
	l.LogMessage(ul.LogLevel(9), "odd")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	levels := make([]zapcore.Level, len(entries))
	for i, e := range entries {
		levels[i] = e.Level
		assert.Equal(t, "ultralight", e.LoggerName)
	}
	assert.Equal(t, []zapcore.Level{zapcore.ErrorLevel, zapcore.WarnLevel, zapcore.InfoLevel, zapcore.DebugLevel}, levels)
	assert.Equal(t, "LogLevel(9)", entries[3].ContextMap()["level"])
}

func TestLoggerInstalled(t *testing.T) {
	b := soft.Install(t)
	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, ul.SetLogger(NewLogger(zap.New(core))))
	defer ul.ClearLogger()

	b.FireLog(int32(ul.LogLevelWarning), "from the engine")
	entries := logs.FilterMessage("from the engine").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestNewLoggerDefault(t *testing.T) {
	assert.NotNil(t, NewLogger(nil))
}

func TestClipboard(t *testing.T) {
	b := soft.Install(t)
	c := NewClipboard()
	require.NoError(t, ul.SetClipboard(c))
	defer ul.ClearClipboard()

	b.ClipboardWrite("copied")
	assert.Equal(t, "copied", c.ReadPlainText())
	assert.Equal(t, "copied", b.ClipboardRead())

	c.WritePlainText("seeded")
	assert.Equal(t, "seeded", b.ClipboardRead())

	b.ClipboardClear()
	assert.Empty(t, c.ReadPlainText())
}
