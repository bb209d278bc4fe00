package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Settings are the process-level options shared by the CLI and the HTTP server
type Settings struct {
	Addr           string
	DatabasePath   string
	LogLevel       string
	LogFormat      string
	OutputDir      string
	AllowedOrigins []string
}

// LoadSettings reads settings from the environment, falling back to defaults
func LoadSettings() Settings {
	return Settings{
		Addr:           getEnv("ARREAR_ADDR", ":8080"),
		DatabasePath:   getEnv("ARREAR_DB", "arrear.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		OutputDir:      getEnv("ARREAR_OUTPUT_DIR", "."),
		AllowedOrigins: splitList(getEnv("ARREAR_ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings that have a closed set of values
func (s Settings) Validate() error {
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", s.LogFormat)
	}
	if strings.TrimSpace(s.DatabasePath) == "" {
		return fmt.Errorf("ARREAR_DB is required")
	}
	return nil
}

// NewLogger builds the application logger from the settings
func (s Settings) NewLogger() (*logrus.Logger, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger := logrus.New()
	level, _ := logrus.ParseLevel(s.LogLevel)
	logger.SetLevel(level)
	if s.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
