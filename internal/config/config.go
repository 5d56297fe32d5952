// Package config provides configuration loading for the career-planner service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the environment does not override them.
const (
	DefaultPort            = 8080
	DefaultModel           = "gemini-2.5-flash"
	DefaultResumeCharLimit = 4000
	DefaultRetryAttempts   = 3
	DefaultRetryDelay      = 2 * time.Second
)

// Config holds the process configuration, resolved once at startup from the
// environment and passed to each component at construction.
type Config struct {
	Port            int
	DatabaseURL     string
	GeminiAPIKey    string
	Model           string
	ResumeCharLimit int
	RetryAttempts   int
	RetryDelay      time.Duration
	Debug           bool
	JSONLogs        bool
}

// Load resolves the configuration from environment variables. Callers load
// .env into the environment before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		Model:           DefaultModel,
		ResumeCharLimit: DefaultResumeCharLimit,
		RetryAttempts:   DefaultRetryAttempts,
		RetryDelay:      DefaultRetryDelay,
		Debug:           os.Getenv("DEBUG") == "true",
		JSONLogs:        os.Getenv("LOG_JSON") == "true",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("RESUME_CHAR_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RESUME_CHAR_LIMIT %q: %w", v, err)
		}
		cfg.ResumeCharLimit = limit
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RETRY_ATTEMPTS %q: %w", v, err)
		}
		cfg.RetryAttempts = attempts
	}
	if v := os.Getenv("RETRY_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RETRY_DELAY %q: %w", v, err)
		}
		cfg.RetryDelay = delay
	}

	return cfg, nil
}

// Validate checks that required fields for serving are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}
