package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/database"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/handlers"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/logging"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/provider"
	appSignals "github.com/wparra-sinapsiscode/frioservice-sub001/internal/signals"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Determine if we're in development mode
	isDev := os.Getenv("ENV") != "production"

	// Initialize logging
	logging.Initialize(isDev)

	logger := logging.GetLogger("main")

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting FrioService Calendar")

	// Create context that's canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
		cancel()
	}()

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context) error {
	logger := logging.GetLogger("main")

	// Get config file path from environment or use default
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "configs/frioservice.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	// Set log level from configuration
	logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Info().Str("log_level", cfg.Service.LogLevel).Msg("Log level set")

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0755); err != nil {
		logger.Error().Err(err).Str("path", filepath.Dir(cfg.Service.StateFile)).Msg("Failed to create data directory")
		return err
	}

	// Initialize database for UI-configurable display settings
	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database: %w", err)
		logger.Error().Err(wrappedErr).Str("db_path", cfg.Service.StateFile).Msg("Database initialization failed")
		return wrappedErr
	}
	defer db.Close()

	if err := db.MigrateDatabase(); err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database schema: %w", err)
		logger.Error().Err(wrappedErr).Msg("Database schema initialization failed")
		return wrappedErr
	}

	settingsStore, err := database.NewSettingsStore(db)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize settings store: %w", err)
		logger.Error().Err(wrappedErr).Msg("Settings store initialization failed")
		return wrappedErr
	}

	// Seed display settings from the TOML file (runs only on initial setup)
	settingsSeeder := database.NewSettingsSeeder(settingsStore)
	if err := settingsSeeder.SeedFromConfig(cfg); err != nil {
		wrappedErr := fmt.Errorf("failed to seed display settings: %w", err)
		logger.Error().Err(wrappedErr).Msg("Display settings seeding failed")
		return wrappedErr
	}

	// Load runtime configuration (merges file config with DB settings)
	runtimeCfg, err := config.LoadRuntimeConfig(cfg, settingsStore)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to load runtime configuration: %w", err)
		logger.Error().Err(wrappedErr).Msg("Runtime configuration loading failed")
		return wrappedErr
	}
	display := runtimeCfg.Display()
	logger.Info().
		Str("default_view", display.DefaultView).
		Str("timezone", display.Timezone).
		Int("refresh_minutes", display.RefreshMinutes).
		Msg("Runtime configuration loaded from database")

	// Initialize the service-listing provider
	apiClient := provider.NewAPIClient(cfg.API)

	// Initialize base handler first, as other handlers depend on it
	baseHandler, err := handlers.NewBaseHandler(runtimeCfg, apiClient)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize base handler: %w", err)
		logger.Error().Err(wrappedErr).Msg("Base handler initialization failed")
		return wrappedErr
	}
	calendarHandler := handlers.NewCalendarHandler(baseHandler)
	apiHandler := handlers.NewAPIHandler(baseHandler)
	exportHandler := handlers.NewExportHandler(baseHandler)
	settingsHandler := handlers.NewSettingsHandler(baseHandler, settingsStore)

	// Register routes
	baseHandler.RegisterStaticRoutes()
	calendarHandler.RegisterRoutes()
	apiHandler.RegisterRoutes()
	exportHandler.RegisterRoutes()
	settingsHandler.RegisterRoutes()

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Service.Port),
	}

	go func() {
		logger.Info().Int("port", cfg.Service.Port).Msg("Starting web server")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Log refresh outcomes centrally
	appSignals.OnServicesRefreshed(func(ctx context.Context, data appSignals.ServicesRefreshedData) {
		signalLogger := logging.GetLogger("signal-services-refreshed")
		signalLogger.Info().
			Int("services", data.ServiceCount).
			Int("technicians", data.TechnicianCount).
			Msg("Service listing refreshed")
	}, "main-services-refreshed-handler")

	// Fetch the initial service listing. A failure here is not fatal; the
	// refresh loop retries on its next tick.
	if err := apiClient.FetchServices(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial service fetch failed")
	}

	// Refresh on the configured interval. Settings changes retune the
	// ticker without a restart.
	ticker := time.NewTicker(refreshInterval(display.RefreshMinutes))
	defer ticker.Stop()

	appSignals.OnSettingsChanged(func(ctx context.Context, data appSignals.SettingsChangedData) {
		signalLogger := logging.GetLogger("signal-settings-changed")
		signalLogger.Info().
			Str("default_view", data.DefaultView).
			Str("timezone", data.DisplayTimezone).
			Int("refresh_minutes", data.RefreshMinutes).
			Msg("Display settings changed, retuning refresh interval")
		ticker.Reset(refreshInterval(data.RefreshMinutes))
	}, "main-settings-changed-handler")

	logger.Info().Int("refresh_minutes", display.RefreshMinutes).Msg("Starting refresh loop")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Context cancelled, initiating shutdown sequence")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown failed")
				return err
			}
			logger.Info().Msg("Shutdown complete")
			return nil
		case <-ticker.C:
			if err := apiClient.FetchServices(ctx); err != nil {
				logger.Warn().Err(err).Msg("Scheduled service fetch failed")
			}
		}
	}
}

func refreshInterval(minutes int) time.Duration {
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}
