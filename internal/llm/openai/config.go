package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/retry"
)

// Config for the OpenAI assistants client.
type Config struct {
	APIKey            string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL           string        // default https://api.openai.com/v1
	Model             string        // e.g., "gpt-4-turbo"
	Timeout           time.Duration // per-request http timeout
	MaxRetries        int           // attempts per request for transient failures
	RetryBackoff      time.Duration // base backoff between transient retries
	RequestsPerSecond float64       // client-side pacing; 0 disables
}

type Client struct {
	cfg     Config
	http    *http.Client
	log     *slog.Logger
	limiter *rate.Limiter
	retry   retry.Policy
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4-turbo"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logger,
		limiter: limiter,
		retry: retry.Policy{
			MaxAttempts: cfg.MaxRetries,
			Backoff:     retry.ExponentialBackoff(cfg.RetryBackoff),
		},
	}
}

// Model reports the configured model name, after defaulting.
func (c *Client) Model() string { return c.cfg.Model }
