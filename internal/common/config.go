package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM LLMConfig
	OCR OCRConfig
}

// LLMConfig holds completion-endpoint configuration. The credential is read
// once here at startup and injected into the client constructor; no hot
// reload.
type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float32
	TopP         float32
	MaxTokens    int
	Timeout      time.Duration
	MockAnalysis bool
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	Lang          string
	TessdataDir   string
	Upscale       float64
	MaxPages      int
	IngestTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:       getEnv("TOGETHER_API_KEY", ""),
			BaseURL:      getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1"),
			Model:        getEnv("MINDSET_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
			Temperature:  getEnvAsFloat32("MINDSET_TEMPERATURE", 0.1),
			TopP:         getEnvAsFloat32("MINDSET_TOP_P", 0.9),
			MaxTokens:    getEnvAsInt("MINDSET_MAX_TOKENS", 700),
			Timeout:      getEnvAsDuration("MINDSET_LLM_TIMEOUT", 60*time.Second),
			MockAnalysis: getEnvAsBool("MINDSET_MOCK_ANALYSIS", false),
		},
		OCR: OCRConfig{
			Pdftoppm:      getEnv("OCR_PDFTOPPM", "pdftoppm"),
			Tesseract:     getEnv("OCR_TESSERACT", "tesseract"),
			Lang:          getEnv("OCR_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			Upscale:       getEnvAsFloat64("OCR_UPSCALE", 2.0),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			IngestTimeout: getEnvAsDuration("MINDSET_INGEST_TIMEOUT", 2*time.Minute),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" && !c.LLM.MockAnalysis {
		return NewAppError("CONFIG_ERROR", "TOGETHER_API_KEY is required", ErrInvalidInput)
	}
	if c.OCR.Upscale <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_UPSCALE must be positive", ErrInvalidInput)
	}
	return nil
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
