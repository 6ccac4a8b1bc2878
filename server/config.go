package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the HTTP service configuration.
type Config struct {
	// Port is the port the benchmark API listens on.
	Port string `yaml:"port"`

	// ReadTimeout bounds reading an entire request, including the body.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// ReadHeaderTimeout bounds reading the request headers.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// WriteTimeout bounds writing the response. Benchmark runs happen
	// inside the handler, so this needs to be generous.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds waiting for the next request on a kept-alive
	// connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// RequestLogging enables the per-request log line.
	RequestLogging bool `yaml:"request_logging"`

	// DatabasePath is the SQLite file results are persisted to. Empty
	// disables persistence.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Port:              "8080",
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       120 * time.Second,
		RequestLogging:    true,
		DatabasePath:      "benchmark_results.db",
		LogLevel:          "info",
	}
}

// LoadConfig reads a YAML config file over the defaults. Values of the form
// ${VAR} are expanded from the environment; ${VAR:fallback} supplies a value
// for a missing variable. A reference to a missing variable without a
// fallback is an error.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var missing []string
	expanded := os.Expand(string(raw), func(rawKey string) string {
		key, fallback, hasFallback := strings.Cut(rawKey, ":")
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasFallback {
			return fallback
		}
		missing = append(missing, key)
		return ""
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("config references missing environment variables: %s",
			strings.Join(missing, ", "))
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("invalid configuration: port must not be empty")
	}
	return cfg, nil
}
