package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/logging"
)

// DisplaySettings represents the UI-configurable calendar display settings
type DisplaySettings struct {
	ID              int64
	DefaultView     string
	DisplayTimezone string
	RefreshMinutes  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SettingsStore handles display settings storage in SQLite
type SettingsStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSettingsStore creates a new settings store
func NewSettingsStore(db *DB) (*SettingsStore, error) {
	logger := logging.GetLogger("settings-store")
	return &SettingsStore{db: db.Conn(), logger: logger}, nil
}

// GetDisplaySettings retrieves the stored display settings. It implements
// config.SettingsLoader.
func (s *SettingsStore) GetDisplaySettings() (defaultView, timezone string, refreshMinutes int, err error) {
	s.logger.Debug().Msg("Retrieving display settings")
	err = s.db.QueryRow(`
		SELECT default_view, display_timezone, refresh_minutes
		FROM display_settings
		WHERE id = 1
	`).Scan(&defaultView, &timezone, &refreshMinutes)

	if err == sql.ErrNoRows {
		s.logger.Debug().Msg("No display settings found in database")
		return "", "", 0, fmt.Errorf("no display settings found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to retrieve display settings")
		return "", "", 0, fmt.Errorf("failed to retrieve display settings: %w", err)
	}

	return defaultView, timezone, refreshMinutes, nil
}

// SaveDisplaySettings updates the stored display settings
func (s *SettingsStore) SaveDisplaySettings(defaultView, timezone string, refreshMinutes int) error {
	s.logger.Debug().
		Str("default_view", defaultView).
		Str("display_timezone", timezone).
		Int("refresh_minutes", refreshMinutes).
		Msg("Saving display settings")

	_, err := s.db.Exec(`
		INSERT INTO display_settings (id, default_view, display_timezone, refresh_minutes, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			default_view = excluded.default_view,
			display_timezone = excluded.display_timezone,
			refresh_minutes = excluded.refresh_minutes,
			updated_at = CURRENT_TIMESTAMP
	`, defaultView, timezone, refreshMinutes)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save display settings")
		return fmt.Errorf("failed to save display settings: %w", err)
	}

	return nil
}
