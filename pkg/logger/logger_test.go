package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: " error ", want: slog.LevelError},
		{input: "", want: slog.LevelInfo},
		{input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	require.NotNil(t, logger.New("info", "text"))
}

func TestNewWithWriter_Formats(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	logger.NewWithWriter(&text, "info", "text").Info("hello")
	logger.NewWithWriter(&js, "info", "JSON").Info("hello")

	assert.Contains(t, text.String(), "level=INFO")
	assert.Contains(t, text.String(), "msg=hello")
	assert.Contains(t, js.String(), `"level":"INFO"`)
	assert.Contains(t, js.String(), `"msg":"hello"`)
}

func TestNewWithWriter_DebugAddsSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger.NewWithWriter(&buf, "debug", "text").Debug("where")
	assert.Contains(t, buf.String(), "source=")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		level      string
		logFunc    func(*slog.Logger)
		wantOutput bool
	}{
		{"debug visible at debug", "debug", func(l *slog.Logger) { l.Debug("x") }, true},
		{"debug suppressed at info", "info", func(l *slog.Logger) { l.Debug("x") }, false},
		{"info suppressed at warn", "warn", func(l *slog.Logger) { l.Info("x") }, false},
		{"error visible at warn", "warn", func(l *slog.Logger) { l.Error("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.logFunc(logger.NewWithWriter(&buf, tt.level, "text"))
			assert.Equal(t, tt.wantOutput, buf.Len() > 0)
		})
	}
}

func TestForStoreAndComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info", "text")
	logger.ForComponent(logger.ForStore(l, "de"), "engine").Info("cycle")

	assert.Contains(t, buf.String(), "store=de")
	assert.Contains(t, buf.String(), "component=engine")
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	logger.Discard().Error("nothing to see")
}
