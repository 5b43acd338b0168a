// Package cli holds the configuration and wiring conventions shared by
// the castlet commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// AppRegistration pre-registers one application in the registry at
// startup.
type AppRegistration struct {
	URL      string `yaml:"url"`
	LaunchID string `yaml:"launch_id"`
}

// Config is the castlet CLI configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	// Redis, when configured, backs the application registry so multiple
	// controller processes share one registration table.
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Applications []AppRegistration `yaml:"applications"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{LogLevel: "info"}
	cfg.HTTP.Addr = ":8420"
	return cfg
}

// LoadConfig reads a YAML config file. An empty path yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
