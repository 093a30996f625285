package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/minju-kim98/personal-ai-hub/internal/logger"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port            string
	LogLevel        string // debug, info, warn, error
	LogFormat       string // json, text
	ShutdownTimeout time.Duration

	// Storage
	DatabaseURL string // empty keeps everything in memory
	RedisURL    string // empty disables the news seen-cache

	// Auth
	SecretKey string

	// API Keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Generation
	ModelTimeout time.Duration
	StepTimeout  time.Duration

	// News
	NewsEnabled   bool
	NewsRetention time.Duration
	NewsPerFeed   int
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnvOrDefault("AIHUB_PORT", "8000"),
		LogLevel:        getEnvOrDefault("AIHUB_LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("AIHUB_LOG_FORMAT", "json"),
		ShutdownTimeout: getEnvDurationOrDefault("AIHUB_SHUTDOWN_TIMEOUT", 30*time.Second),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SecretKey:       os.Getenv("SECRET_KEY"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		GoogleKey:       os.Getenv("GOOGLE_API_KEY"),
		ModelTimeout:    getEnvDurationOrDefault("AIHUB_MODEL_TIMEOUT", 3*time.Minute),
		StepTimeout:     getEnvDurationOrDefault("AIHUB_STEP_TIMEOUT", 0),
		NewsEnabled:     getEnvBoolOrDefault("AIHUB_NEWS_ENABLED", true),
		NewsRetention:   getEnvDurationOrDefault("AIHUB_NEWS_RETENTION", 720*time.Hour),
		NewsPerFeed:     getEnvIntOrDefault("AIHUB_NEWS_PER_FEED", 10),
	}
}

// Validate checks what the server needs to start.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.AnthropicKey == "" && c.OpenAIKey == "" && c.GoogleKey == "" {
		return fmt.Errorf("at least one of ANTHROPIC_API_KEY, OPENAI_API_KEY or GOOGLE_API_KEY is required")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("AIHUB_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("AIHUB_LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.NewsRetention <= 0 {
		return fmt.Errorf("AIHUB_NEWS_RETENTION must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
