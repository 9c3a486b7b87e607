package handlers

import (
	"net/http"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/export"
)

// ExportHandler serves the ICS feed of the filtered calendar
type ExportHandler struct {
	*BaseHandler
}

// NewExportHandler creates a new ICS export handler
func NewExportHandler(baseHandler *BaseHandler) *ExportHandler {
	return &ExportHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers the export route
func (h *ExportHandler) RegisterRoutes() {
	http.HandleFunc("/calendar/export.ics", h.handleExport)
}

// handleExport streams the currently filtered events as an iCalendar feed
func (h *ExportHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	handlerLogger := h.logger.With().Str("handler", "handleExport").Logger()

	now := time.Now().In(h.DisplayLocation())
	ctrl := h.ControllerFromRequest(r, now)

	events := calendar.Filter(calendar.MapEvents(h.Provider.Services(), h.DisplayLocation()), ctrl.Criteria)

	feed, err := export.BuildICS(events, h.DisplayLocation(), now)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to build ICS feed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="frioservice.ics"`)
	if _, err := w.Write([]byte(feed)); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to write ICS response")
	}
}
