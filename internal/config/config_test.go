package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
provider:
  name: yahoo
fetcher:
  max_retries: 5
  request_delay: 1s
  rate_limit_delay: 10s
pipeline:
  lookback_days: 90
  news_limit: 3
archive:
  enabled: true
  type: localfs
  path: /tmp/snapshots
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.Equal(t, 5, cfg.Fetcher.MaxRetries)
	assert.Equal(t, time.Second, cfg.Fetcher.RequestDelay)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.RateLimitDelay)
	assert.Equal(t, 90, cfg.Pipeline.LookbackDays)
	assert.Equal(t, 3, cfg.Pipeline.NewsLimit)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "/tmp/snapshots", cfg.Archive.Path)

	// Unset fields keep their defaults.
	assert.Equal(t, 5*time.Minute, cfg.Fetcher.RateLimitCeiling)
	assert.Equal(t, 1.25, cfg.Fetcher.JitterFactor)
	assert.Equal(t, "1d", cfg.Pipeline.BarInterval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SUMMARIZER_KEY", "sk-test-123")
	path := writeConfig(t, `
summarizer:
  enabled: true
  provider: claude
  claude:
    api_key: ${TEST_SUMMARIZER_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.Summarizer.Claude.APIKey)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative retries", "fetcher:\n  max_retries: -1\n"},
		{"jitter below one", "fetcher:\n  jitter_factor: 0.5\n"},
		{"negative lookback", "pipeline:\n  lookback_days: -10\n"},
		{"unknown archive type", "archive:\n  type: ftp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefaults_AreValid(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}
