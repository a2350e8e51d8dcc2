package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{" error ", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	plugin := NewPlugin(zapcore.AddSync(&buf), DefaultEncoder(), zapcore.InfoLevel)
	logger := NewLogger(plugin)

	logger.Debug("hidden")
	logger.Info("fetched", zap.Int("count", 2))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "Info の1行だけが出力される")
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "fetched", entry["msg"])
	assert.Equal(t, float64(2), entry["count"])
	assert.Contains(t, entry, "caller")
}

func TestNewFilePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archnews.log")
	plugin, closer := NewFilePlugin(path, zapcore.DebugLevel)
	logger := NewLogger(plugin)

	logger.Warn("fetch failed", zap.String("url", "https://archlinux.org/news/"))
	require.NoError(t, logger.Sync())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"fetch failed"`)
	assert.Contains(t, string(data), `"level":"WARN"`)
}

func TestNewStderrPlugin(t *testing.T) {
	plugin := NewStderrPlugin(zapcore.WarnLevel)
	assert.True(t, plugin.Enabled(zapcore.ErrorLevel))
	assert.False(t, plugin.Enabled(zapcore.InfoLevel))
}

func TestNewConsolePlugin(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewConsolePlugin(&buf, zapcore.InfoLevel))

	logger.Info("fetched", zap.Int("count", 2))
	require.NoError(t, logger.Sync())

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "fetched")
	assert.Contains(t, line, `{"count": 2}`)
}
