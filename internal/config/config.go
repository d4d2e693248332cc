package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mfreitas/flowscout/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port          string
	DBPath        string
	SourcesPath   string
	DocsDir       string
	LogLevel      string
	LogFormat     string
	DaysBack      int
	MaxPerChannel int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", constants.DefaultPort),
		DBPath:        getEnv("DB_PATH", constants.DefaultDBPath),
		SourcesPath:   getEnv("SOURCES_PATH", constants.DefaultSourcesPath),
		DocsDir:       getEnv("DOCS_DIR", constants.DefaultDocsDir),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		DaysBack:      getEnvInt("SCAN_DAYS_BACK", constants.DefaultDaysBack),
		MaxPerChannel: getEnvInt("SCAN_MAX_PER_CHANNEL", constants.DefaultMaxPerChannel),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.SourcesPath == "" {
		errors = append(errors, "SOURCES_PATH cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.DaysBack < 1 {
		errors = append(errors, fmt.Sprintf("SCAN_DAYS_BACK must be at least 1, got: %d", c.DaysBack))
	}
	if c.MaxPerChannel < 1 {
		errors = append(errors, fmt.Sprintf("SCAN_MAX_PER_CHANNEL must be at least 1, got: %d", c.MaxPerChannel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
