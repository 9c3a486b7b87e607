package database

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/logging"
)

// SettingsSeeder writes the file-based display defaults into the database on
// first run. Once a row exists the database values win and the file section
// only serves as documentation of the initial state.
type SettingsSeeder struct {
	store  *SettingsStore
	logger zerolog.Logger
}

// NewSettingsSeeder creates a new settings seeder
func NewSettingsSeeder(store *SettingsStore) *SettingsSeeder {
	return &SettingsSeeder{
		store:  store,
		logger: logging.GetLogger("settings-seeder"),
	}
}

// SeedFromConfig inserts the display defaults from the TOML config unless
// settings already exist in the database
func (s *SettingsSeeder) SeedFromConfig(cfg *config.Config) error {
	if _, _, _, err := s.store.GetDisplaySettings(); err == nil {
		s.logger.Debug().Msg("Display settings already present, skipping seed")
		return nil
	}

	s.logger.Info().
		Str("default_view", cfg.Display.DefaultView).
		Str("display_timezone", cfg.Display.Timezone).
		Int("refresh_minutes", cfg.Display.RefreshMinutes).
		Msg("Seeding display settings from configuration file")

	if err := s.store.SaveDisplaySettings(cfg.Display.DefaultView, cfg.Display.Timezone, cfg.Display.RefreshMinutes); err != nil {
		return fmt.Errorf("failed to seed display settings: %w", err)
	}

	return nil
}
