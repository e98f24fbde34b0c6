// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Translation service (OpenAI-compatible chat completions).
	TranslateURL     string
	TranslateKey     string
	TranslateModel   string
	SourceLanguage   string
	TargetLanguage   string
	RetryBaseDelay   time.Duration
	TranslateTimeout time.Duration

	// Tesseract language code.
	OCRLanguage string

	LogLevel string
}

// Load reads the process environment, seeded from .env files when present.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		TranslateURL:   getEnvOrDefault("OCRSELECT_TRANSLATE_URL", "https://models.inference.ai.azure.com"),
		TranslateKey:   getEnvOrDefault("OCRSELECT_TRANSLATE_KEY", ""),
		TranslateModel: getEnvOrDefault("OCRSELECT_TRANSLATE_MODEL", "gpt-4o"),
		SourceLanguage: getEnvOrDefault("OCRSELECT_SOURCE_LANG", "Vietnamese"),
		TargetLanguage: getEnvOrDefault("OCRSELECT_TARGET_LANG", "English"),
		OCRLanguage:    getEnvOrDefault("OCRSELECT_OCR_LANG", "eng"),
		LogLevel:       getEnvOrDefault("OCRSELECT_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RetryBaseDelay, err = getEnvAsDurationOrDefault("OCRSELECT_TRANSLATE_BASE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.TranslateTimeout, err = getEnvAsDurationOrDefault("OCRSELECT_TRANSLATE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RetryBaseDelay < 0 {
		return fmt.Errorf("OCRSELECT_TRANSLATE_BASE_DELAY must not be negative")
	}
	if c.TranslateTimeout <= 0 {
		return fmt.Errorf("OCRSELECT_TRANSLATE_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(c.TranslateURL, "http://") && !strings.HasPrefix(c.TranslateURL, "https://") {
		return fmt.Errorf("OCRSELECT_TRANSLATE_URL must be an http(s) URL: %q", c.TranslateURL)
	}
	return nil
}

// TranslationEnabled reports whether a translation key was configured.
func (c *Config) TranslationEnabled() bool {
	return c.TranslateKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
