// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// APIBaseURL is the metrics backend root, e.g. http://host:8080/api.
	APIBaseURL string

	// RequestTimeout bounds each backend query.
	RequestTimeout time.Duration

	// HealthPollInterval is how often the backend health endpoint is probed.
	HealthPollInterval time.Duration

	// SeriesRefreshInterval is the overview auto-refresh period.
	SeriesRefreshInterval time.Duration

	// ExportDir is where downloaded CSV exports are written.
	ExportDir string

	// EnvPath is the .env file the configuration was loaded from, if
	// any. It is watched for changes at runtime.
	EnvPath string
}

// Default values
const (
	defaultBaseURL               = "http://localhost:8080/api"
	defaultRequestTimeout        = 30 * time.Second
	defaultHealthPollInterval    = 30 * time.Second
	defaultSeriesRefreshInterval = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	envPath := ""
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			envPath = path
			break
		}
	}

	cfg := &Config{
		APIBaseURL:            getEnvString("API_BASE_URL", defaultBaseURL),
		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		HealthPollInterval:    getEnvDuration("HEALTH_POLL_INTERVAL", defaultHealthPollInterval),
		SeriesRefreshInterval: getEnvDuration("SERIES_REFRESH_INTERVAL", defaultSeriesRefreshInterval),
		ExportDir:             getEnvString("EXPORT_DIR", getDefaultExportDir()),
		EnvPath:               envPath,
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: %w", cfg.APIBaseURL, err)
	}

	if err := ensureDir(cfg.ExportDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gatewatch", ".env"),
			filepath.Join(home, ".gatewatch", ".env"),
		)
	}

	return paths
}

// getDefaultExportDir returns the default directory for CSV exports.
func getDefaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(home, "Downloads")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
