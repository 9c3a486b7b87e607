package config

import (
	"fmt"
	"sync"
)

// RuntimeConfig holds configuration merged from the file and the database at
// runtime. This allows UI-configurable display settings to be updated without
// restarting the app.
//
// Display settings are the only part that changes after boot; they are
// guarded so a settings save and concurrent page renders never race. The
// remaining Config sections are read-only once loaded.
type RuntimeConfig struct {
	// Complete merged configuration
	Config *Config

	mu sync.RWMutex
}

// Display returns a snapshot of the current display settings
func (rc *RuntimeConfig) Display() DisplayConfig {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.Config.Display
}

// SetDisplay replaces the display settings
func (rc *RuntimeConfig) SetDisplay(display DisplayConfig) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Config.Display = display
}

// SettingsLoader is the interface for loading display settings from the
// database
type SettingsLoader interface {
	GetDisplaySettings() (defaultView, timezone string, refreshMinutes int, err error)
}

// LoadRuntimeConfig merges the file-based config (app settings) with the
// database config (UI-configurable display settings)
func LoadRuntimeConfig(fileConfig *Config, loader SettingsLoader) (*RuntimeConfig, error) {
	// Create a new config with a copy of the file config
	mergedConfig := &Config{
		API:     fileConfig.API,
		Service: fileConfig.Service,
	}

	defaultView, timezone, refreshMinutes, err := loader.GetDisplaySettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load display settings: %w", err)
	}
	mergedConfig.Display = DisplayConfig{
		DefaultView:    defaultView,
		Timezone:       timezone,
		RefreshMinutes: refreshMinutes,
	}

	return &RuntimeConfig{Config: mergedConfig}, nil
}
