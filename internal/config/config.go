package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// AIConfig holds settings for the upstream one-word-answer chat completion service.
type AIConfig struct {
	APIKey  string
	BaseURL string        `validate:"required,url"`
	Model   string        `validate:"required"`
	Timeout time.Duration `validate:"gt=0"`
}

// LimitsConfig bounds the size of every accepted input.
type LimitsConfig struct {
	FibonacciMax   int `validate:"gte=1"`
	ArrayMax       int `validate:"gte=1"`
	QuestionMax    int `validate:"gte=1"`
	BodyLimitBytes int `validate:"gte=1"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string `validate:"required,numeric"`
	Identity string
	LogLevel string `validate:"oneof=debug info warn error"`
	TimeZone string `validate:"required"`
	AI       AIConfig
	Limits   LimitsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "3000"),
		Identity: getEnv("OFFICIAL_EMAIL", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		TimeZone: getEnv("APP_TZ", "UTC"),
		AI: AIConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:   getEnv("AI_MODEL", "google/gemini-2.0-flash-001"),
			Timeout: getEnvDuration("AI_TIMEOUT", 30*time.Second),
		},
		Limits: LimitsConfig{
			FibonacciMax:   getEnvInt("FIBONACCI_MAX", 1000),
			ArrayMax:       getEnvInt("ARRAY_MAX", 1000),
			QuestionMax:    getEnvInt("AI_QUESTION_MAX", 1000),
			BodyLimitBytes: getEnvInt("BODY_LIMIT_BYTES", 1<<20),
		},
	}
}

// Validate checks field constraints and that the configured time zone exists.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid config: APP_TZ: %w", err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
