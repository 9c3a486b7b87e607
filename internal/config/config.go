package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Display DisplayConfig `toml:"display"`
	Service ServiceConfig `toml:"service"`
}

// APIConfig holds the FrioService REST API connection settings.
// The bearer token comes from the environment, never from the file.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Token          string // From environment
}

// DisplayConfig holds the calendar display defaults. These seed the
// database-backed settings on first run and can be changed from the UI
// afterwards.
type DisplayConfig struct {
	DefaultView    string `toml:"default_view"`
	Timezone       string `toml:"timezone"`
	RefreshMinutes int    `toml:"refresh_minutes"`
}

// ServiceConfig holds the service configuration
type ServiceConfig struct {
	Port      int    `toml:"port"`
	StateFile string `toml:"state_file"`
	LogLevel  string `toml:"log_level"`
}

// Load reads the configuration file and environment variables
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Ensure the state file path is absolute
	if !filepath.IsAbs(cfg.Service.StateFile) {
		configDir := filepath.Dir(path)
		cfg.Service.StateFile = filepath.Join(configDir, "..", cfg.Service.StateFile)
	}

	// Load API token from environment
	cfg.API.Token = os.Getenv("FRIOSERVICE_API_TOKEN")

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 15
	}
	if cfg.Display.DefaultView == "" {
		cfg.Display.DefaultView = "month"
	}
	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "America/Lima"
	}
	if cfg.Display.RefreshMinutes == 0 {
		cfg.Display.RefreshMinutes = 5
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "info"
	}
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api base_url is required")
	}

	switch cfg.Display.DefaultView {
	case "month", "week", "day":
	// Valid view modes
	default:
		return fmt.Errorf("invalid default view: %s", cfg.Display.DefaultView)
	}

	if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", cfg.Display.Timezone, err)
	}

	if cfg.Display.RefreshMinutes < 1 {
		return fmt.Errorf("refresh minutes must be positive")
	}

	if cfg.Service.Port < 1 || cfg.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", cfg.Service.Port)
	}

	if cfg.Service.StateFile == "" {
		return fmt.Errorf("state file path is required")
	}

	return nil
}
