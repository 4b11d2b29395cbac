package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PDF_BATCH_CONFIG",
	"INPUT_DIR", "OUTPUT_CSV", "OUTPUT_XLSX",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	"OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES", "OPENAI_RPS",
	"MAX_ATTEMPTS", "BACKOFF_BASE", "POLL_INTERVAL", "POLL_TIMEOUT",
	"LOG_LEVEL", "LOG_FILE",
}

// clearEnv unsets every config key for the test; t.Setenv first so the
// original values come back afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()

	assert.Equal(t, "./pdfs", cfg.Input.Dir)
	assert.Equal(t, "extracted_data.csv", cfg.Output.CSVPath)
	assert.Empty(t, cfg.Output.XLSXPath)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4-turbo", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 3, cfg.Batch.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Batch.BackoffBase)
	assert.Equal(t, 5*time.Second, cfg.Batch.PollInterval)
	assert.Equal(t, 300*time.Second, cfg.Batch.PollTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "pdf_processing.log", cfg.Log.File)
}

func TestLoadConfigFileLayer(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
input:
  dir: /data/in
output:
  csv_path: results.csv
  xlsx_path: results.xlsx
llm:
  model: gpt-4o
  timeout: 45s
batch:
  max_attempts: 5
  poll_interval: 2s
log:
  level: debug
  file: ""
`)
	t.Setenv("PDF_BATCH_CONFIG", path)

	cfg := LoadConfig()

	assert.Equal(t, "/data/in", cfg.Input.Dir)
	assert.Equal(t, "results.csv", cfg.Output.CSVPath)
	assert.Equal(t, "results.xlsx", cfg.Output.XLSXPath)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Batch.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Batch.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File, "explicit empty file routes logs to stdout")

	// Untouched keys keep their defaults.
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 300*time.Second, cfg.Batch.PollTimeout)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
input:
  dir: /file/in
llm:
  model: gpt-4o
`)
	t.Setenv("PDF_BATCH_CONFIG", path)
	t.Setenv("INPUT_DIR", "/env/in")
	t.Setenv("OPENAI_MODEL", "gpt-4-turbo-preview")
	t.Setenv("OPENAI_TIMEOUT", "60s")
	t.Setenv("MAX_ATTEMPTS", "7")

	cfg := LoadConfig()

	assert.Equal(t, "/env/in", cfg.Input.Dir)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 7, cfg.Batch.MaxAttempts)
}

func TestLoadConfigBadFileFallsBack(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "{not yaml")
	t.Setenv("PDF_BATCH_CONFIG", path)

	cfg := LoadConfig()

	assert.Equal(t, "gpt-4-turbo", cfg.LLM.Model)
	assert.Equal(t, "./pdfs", cfg.Input.Dir)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	valid := func() *Config {
		cfg := LoadConfig()
		cfg.LLM.APIKey = "sk-test"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.APIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("zero attempts", func(t *testing.T) {
		cfg := valid()
		cfg.Batch.MaxAttempts = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad poll interval", func(t *testing.T) {
		cfg := valid()
		cfg.Batch.PollInterval = 0
		assert.Error(t, cfg.Validate())
	})
}
