package together

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Together AI client. The credential is injected here at
// construction; nothing reads ambient globals after startup.
type Config struct {
	APIKey      string        // if empty, falls back to env TOGETHER_API_KEY
	BaseURL     string        // default https://api.together.xyz/v1
	Model       string        // default mistralai/Mistral-7B-Instruct-v0.2
	Temperature float32       // default 0.1
	TopP        float32       // default 0.9
	MaxTokens   int           // default 700
	Timeout     time.Duration // http client timeout, default 60s
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("TOGETHER_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.together.xyz/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/Mistral-7B-Instruct-v0.2"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.TopP <= 0 {
		cfg.TopP = 0.9
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 700
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
