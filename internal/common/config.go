package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "PDF_BATCH_CONFIG"

// Config holds all application configuration
type Config struct {
	Input  InputConfig
	Output OutputConfig
	LLM    LLMConfig
	Batch  BatchConfig
	Log    LogConfig
}

// InputConfig names the directory scanned for documents.
type InputConfig struct {
	Dir string
}

// OutputConfig holds the result table destinations. XLSXPath is optional;
// empty disables the workbook export.
type OutputConfig struct {
	CSVPath  string
	XLSXPath string
}

// LLMConfig holds remote extraction service configuration
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// BatchConfig holds the per-document retry and polling knobs.
type BatchConfig struct {
	MaxAttempts  int
	BackoffBase  time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// LogConfig holds log sink configuration. An empty File logs to stdout.
type LogConfig struct {
	Level string
	File  string
}

// LoadConfig layers configuration: defaults, then the optional YAML file
// named by PDF_BATCH_CONFIG, then environment variables.
func LoadConfig() *Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v (ignoring config file)\n", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Dir: "./pdfs"},
		Output: OutputConfig{CSVPath: "extracted_data.csv"},
		LLM: LLMConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4-turbo",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Batch: BatchConfig{
			MaxAttempts:  3,
			BackoffBase:  1 * time.Second,
			PollInterval: 5 * time.Second,
			PollTimeout:  300 * time.Second,
		},
		Log: LogConfig{Level: "info", File: "pdf_processing.log"},
	}
}

// fileConfig mirrors Config for the YAML layer. Durations are
// time.ParseDuration strings; pointer fields distinguish "absent" from an
// explicit zero.
type fileConfig struct {
	Input struct {
		Dir string `yaml:"dir"`
	} `yaml:"input"`
	Output struct {
		CSVPath  string `yaml:"csv_path"`
		XLSXPath string `yaml:"xlsx_path"`
	} `yaml:"output"`
	LLM struct {
		APIKey            string  `yaml:"api_key"`
		BaseURL           string  `yaml:"base_url"`
		Model             string  `yaml:"model"`
		Timeout           string  `yaml:"timeout"`
		MaxRetries        *int    `yaml:"max_retries"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"llm"`
	Batch struct {
		MaxAttempts  *int   `yaml:"max_attempts"`
		BackoffBase  string `yaml:"backoff_base"`
		PollInterval string `yaml:"poll_interval"`
		PollTimeout  string `yaml:"poll_timeout"`
	} `yaml:"batch"`
	Log struct {
		Level string  `yaml:"level"`
		File  *string `yaml:"file"`
	} `yaml:"log"`
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Input.Dir != "" {
		c.Input.Dir = fc.Input.Dir
	}
	if fc.Output.CSVPath != "" {
		c.Output.CSVPath = fc.Output.CSVPath
	}
	if fc.Output.XLSXPath != "" {
		c.Output.XLSXPath = fc.Output.XLSXPath
	}
	if fc.LLM.APIKey != "" {
		c.LLM.APIKey = fc.LLM.APIKey
	}
	if fc.LLM.BaseURL != "" {
		c.LLM.BaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		c.LLM.Model = fc.LLM.Model
	}
	if err := applyDuration(&c.LLM.Timeout, fc.LLM.Timeout); err != nil {
		return fmt.Errorf("llm.timeout: %w", err)
	}
	if fc.LLM.MaxRetries != nil {
		c.LLM.MaxRetries = *fc.LLM.MaxRetries
	}
	if fc.LLM.RequestsPerSecond > 0 {
		c.LLM.RequestsPerSecond = fc.LLM.RequestsPerSecond
	}
	if fc.Batch.MaxAttempts != nil {
		c.Batch.MaxAttempts = *fc.Batch.MaxAttempts
	}
	if err := applyDuration(&c.Batch.BackoffBase, fc.Batch.BackoffBase); err != nil {
		return fmt.Errorf("batch.backoff_base: %w", err)
	}
	if err := applyDuration(&c.Batch.PollInterval, fc.Batch.PollInterval); err != nil {
		return fmt.Errorf("batch.poll_interval: %w", err)
	}
	if err := applyDuration(&c.Batch.PollTimeout, fc.Batch.PollTimeout); err != nil {
		return fmt.Errorf("batch.poll_timeout: %w", err)
	}
	if fc.Log.Level != "" {
		c.Log.Level = fc.Log.Level
	}
	if fc.Log.File != nil {
		c.Log.File = *fc.Log.File
	}
	return nil
}

func applyDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Input.Dir = getEnv("INPUT_DIR", c.Input.Dir)
	c.Output.CSVPath = getEnv("OUTPUT_CSV", c.Output.CSVPath)
	c.Output.XLSXPath = getEnv("OUTPUT_XLSX", c.Output.XLSXPath)

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxRetries = getEnvAsInt("OPENAI_MAX_RETRIES", c.LLM.MaxRetries)
	c.LLM.RequestsPerSecond = getEnvAsFloat64("OPENAI_RPS", c.LLM.RequestsPerSecond)

	c.Batch.MaxAttempts = getEnvAsInt("MAX_ATTEMPTS", c.Batch.MaxAttempts)
	c.Batch.BackoffBase = getEnvAsDuration("BACKOFF_BASE", c.Batch.BackoffBase)
	c.Batch.PollInterval = getEnvAsDuration("POLL_INTERVAL", c.Batch.PollInterval)
	c.Batch.PollTimeout = getEnvAsDuration("POLL_TIMEOUT", c.Batch.PollTimeout)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		c.Log.File = v
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Input.Dir == "" {
		return NewAppError("CONFIG_ERROR", "INPUT_DIR is required", ErrInvalidInput)
	}
	if c.Output.CSVPath == "" {
		return NewAppError("CONFIG_ERROR", "OUTPUT_CSV is required", ErrInvalidInput)
	}
	if c.Batch.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	if c.Batch.PollInterval <= 0 || c.Batch.PollTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "poll interval and timeout must be positive", ErrInvalidInput)
	}
	return nil
}
