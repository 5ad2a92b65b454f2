package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Setup mutates the slog default, so these tests do not run in parallel.
func TestSetup_JSONOutput(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := logger.Setup(logger.LoggerConfig{Level: "warn", Output: &buf})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "task_id", 42)
	slog.Error("via default")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(42), entry["task_id"])
}

func TestSetup_Errors(t *testing.T) {
	_, err := logger.Setup(logger.LoggerConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = logger.Setup(logger.LoggerConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	ctx := logger.WithContext(context.Background(), l.With("sweep_id", "abc"))

	logger.FromContext(ctx).Info("hello")

	entries := buf.Entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["sweep_id"])

	assert.Equal(t, slog.Default(), logger.FromContext(context.Background()))
}
