package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archnews.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("全項目", func(t *testing.T) {
		path := writeConfig(t, `
url: https://mirror.example.org/news/
feed_url: https://mirror.example.org/feeds/news/
limit: 3
timeout: 8
max_retries: 2
implicit_tbody: true
log:
  level: info
  file: /tmp/archnews.log
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "https://mirror.example.org/news/", cfg.URL)
		assert.Equal(t, "https://mirror.example.org/feeds/news/", cfg.FeedURL)
		assert.Equal(t, 3, cfg.Limit)
		assert.Equal(t, 8, cfg.Timeout)
		require.NotNil(t, cfg.MaxRetries)
		assert.Equal(t, 2, *cfg.MaxRetries)
		require.NotNil(t, cfg.ImplicitTbody)
		assert.True(t, *cfg.ImplicitTbody)
		assert.Equal(t, Log{Level: "info", File: "/tmp/archnews.log"}, cfg.Log)
	})

	t.Run("省略した項目はゼロ値", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "limit: 5\n"))
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Limit)
		assert.Empty(t, cfg.URL)
		assert.Nil(t, cfg.MaxRetries)
		assert.Nil(t, cfg.ImplicitTbody)
	})

	t.Run("空ファイル", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		errorContains string
	}{
		{"不正なYAML", "limit: [1, 2", "パースに失敗"},
		{"型の不一致", "limit: many", "パースに失敗"},
		{"負のlimit", "limit: -1", "limit"},
		{"負のtimeout", "timeout: -5", "timeout"},
		{"負のmax_retries", "max_retries: -1", "max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	t.Run("ファイルが存在しない", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "読み込みに失敗")
	})
}
