package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := `
llm:
  base_url: https://api.openai.com/v1
  api_key: llm-key
  model: gpt-4o
search:
  provider: exa
  exa:
    api_key: exa-key
  tavily:
    api_key: tavily-key
log:
  level: debug
  file: logs/test.log
concurrency:
  qps: 2
  rpm: 30
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "exa", cfg.Search.Provider)
	assert.Equal(t, "exa-key", cfg.Search.Exa.APIKey)
	assert.Equal(t, "tavily-key", cfg.Search.Tavily.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Concurrency.QPS)
	assert.Equal(t, 30, cfg.Concurrency.RPM)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
