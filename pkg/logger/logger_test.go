package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		name          string
		expectedLevel zapcore.Level
	}{
		{name: "Info", expectedLevel: zapcore.InfoLevel},
		{name: "Debug", expectedLevel: zapcore.DebugLevel},
		{name: "Warn", expectedLevel: zapcore.WarnLevel},
		{name: "Error", expectedLevel: zapcore.ErrorLevel},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dut, logs := NewObserverLogger("debug")
			const testMessage = "ABC"
			switch tc.name {
			case "Info":
				dut.Info(testMessage)
			case "Debug":
				dut.Debug(testMessage)
			case "Warn":
				dut.Warn(testMessage)
			case "Error":
				dut.Error(testMessage)
			}
			require.Equal(t, 1, logs.Len())

			entry := logs.All()[0]
			require.Equal(t, testMessage, entry.Message)
			require.Equal(t, tc.expectedLevel, entry.Level)
		})
	}
}

func TestWithAddsFields(t *testing.T) {
	dut, logs := NewObserverLogger("info")

	dut.With(zap.String("stage", "square")).Info("started")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, map[string]interface{}{"stage": "square"}, logs.All()[0].ContextMap())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		for _, level := range []string{"debug", "info", "warn", "error", "panic", "fatal"} {
			l, err := NewLogger(format, level)
			require.NoError(t, err, "%s/%s", format, level)
			require.NotNil(t, l)
		}
	}

	l, err := NewLogger("text", "none")
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = NewLogger("text", "loud")
	require.ErrorContains(t, err, "unknown log level")

	_, err = NewLogger("xml", "info")
	require.ErrorContains(t, err, "unknown log format")

	require.Panics(t, func() { MustNewLogger("xml", "info") })
}

var (
	_ Logger = (*ZapLogger)(nil)
	_ Logger = (*zap.Logger)(nil)
)
