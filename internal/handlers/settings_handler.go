package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/database"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/signals"
)

// SettingsHandler manages the display settings page
type SettingsHandler struct {
	*BaseHandler
	store *database.SettingsStore
}

// NewSettingsHandler creates a new settings page handler
func NewSettingsHandler(baseHandler *BaseHandler, store *database.SettingsStore) *SettingsHandler {
	return &SettingsHandler{BaseHandler: baseHandler, store: store}
}

// RegisterRoutes registers settings page routes
func (h *SettingsHandler) RegisterRoutes() {
	http.HandleFunc("/settings", h.handleSettings)
}

// SettingsPageData contains data for the settings page template
type SettingsPageData struct {
	BasePageData
	DefaultView    string
	Timezone       string
	RefreshMinutes int
	Saved          bool
	Error          string
}

func (h *SettingsHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.showSettings(w, r, "", r.URL.Query().Get("saved") == "1")
	case http.MethodPost:
		h.saveSettings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) showSettings(w http.ResponseWriter, r *http.Request, errMsg string, saved bool) {
	display := h.RuntimeConfig.Display()
	h.RenderTemplate(w, "settings.html", SettingsPageData{
		BasePageData:   h.NewBasePageData(r),
		DefaultView:    display.DefaultView,
		Timezone:       display.Timezone,
		RefreshMinutes: display.RefreshMinutes,
		Saved:          saved,
		Error:          errMsg,
	})
}

// saveSettings validates the posted form, persists it and updates the merged
// runtime configuration so the change applies without a restart
func (h *SettingsHandler) saveSettings(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "saveSettings").Logger()

	if err := r.ParseForm(); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to parse settings form")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	defaultView := r.FormValue("default_view")
	timezone := r.FormValue("timezone")
	refreshMinutes, err := strconv.Atoi(r.FormValue("refresh_minutes"))
	if err != nil {
		h.showSettings(w, r, "El intervalo de actualización debe ser un número", false)
		return
	}

	if errMsg := validateDisplaySettings(defaultView, timezone, refreshMinutes); errMsg != "" {
		h.showSettings(w, r, errMsg, false)
		return
	}

	if err := h.store.SaveDisplaySettings(defaultView, timezone, refreshMinutes); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to save display settings")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.RuntimeConfig.SetDisplay(config.DisplayConfig{
		DefaultView:    defaultView,
		Timezone:       timezone,
		RefreshMinutes: refreshMinutes,
	})

	handlerLogger.Info().
		Str("default_view", defaultView).
		Str("timezone", timezone).
		Int("refresh_minutes", refreshMinutes).
		Msg("Display settings updated")

	signals.EmitSettingsChanged(r.Context(), defaultView, timezone, refreshMinutes)

	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

func validateDisplaySettings(defaultView, timezone string, refreshMinutes int) string {
	if !calendar.ViewMode(defaultView).IsValid() {
		return "Vista por defecto inválida"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return "Zona horaria inválida"
	}
	if refreshMinutes < 1 {
		return "El intervalo de actualización debe ser al menos 1 minuto"
	}
	return ""
}
