package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"AIHUB_PORT", "AIHUB_LOG_LEVEL", "AIHUB_MODEL_TIMEOUT", "AIHUB_STEP_TIMEOUT",
		"AIHUB_NEWS_ENABLED", "AIHUB_NEWS_RETENTION", "AIHUB_NEWS_PER_FEED", "DATABASE_URL",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3*time.Minute, cfg.ModelTimeout)
	assert.Zero(t, cfg.StepTimeout)
	assert.True(t, cfg.NewsEnabled)
	assert.Equal(t, 720*time.Hour, cfg.NewsRetention)
	assert.Equal(t, 10, cfg.NewsPerFeed)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AIHUB_PORT", "9000")
	t.Setenv("AIHUB_STEP_TIMEOUT", "90s")
	t.Setenv("AIHUB_NEWS_ENABLED", "false")
	t.Setenv("AIHUB_NEWS_PER_FEED", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.StepTimeout)
	assert.False(t, cfg.NewsEnabled)
	assert.Equal(t, 10, cfg.NewsPerFeed, "unparsable values keep the default")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SecretKey:     "s",
			OpenAIKey:     "k",
			LogLevel:      "info",
			LogFormat:     "json",
			NewsRetention: time.Hour,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.SecretKey = "" }},
		{"no provider key", func(c *Config) { c.OpenAIKey = "" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero retention", func(c *Config) { c.NewsRetention = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
