package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
)

// APIHandler serves the JSON endpoints used by mobile and script clients
type APIHandler struct {
	*BaseHandler
}

// NewAPIHandler creates a new JSON API handler
func NewAPIHandler(baseHandler *BaseHandler) *APIHandler {
	return &APIHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers the JSON API routes
func (h *APIHandler) RegisterRoutes() {
	http.HandleFunc("/api/calendar", h.handleCalendarJSON)
	http.HandleFunc("/technicians", h.handleTechnicians)
	http.HandleFunc("/refresh", h.handleRefresh)
}

// CalendarDayJSON is one calendar cell flattened for JSON clients
type CalendarDayJSON struct {
	Date    string            `json:"date"`
	Day     int               `json:"day"`
	Month   calendar.MonthTag `json:"month"`
	IsToday bool              `json:"isToday"`
	Events  []calendar.Event  `json:"events"`
}

// CalendarJSON is the full calendar state for one navigation state
type CalendarJSON struct {
	View        calendar.ViewMode `json:"view"`
	Date        string            `json:"date"`
	Loading     bool              `json:"loading"`
	Days        []CalendarDayJSON `json:"days"`
	Unscheduled int               `json:"unscheduled"`
}

// handleCalendarJSON returns the calendar grid with bucketed events as JSON
func (h *APIHandler) handleCalendarJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now().In(h.DisplayLocation())
	ctrl := h.ControllerFromRequest(r, now)

	events := calendar.Filter(calendar.MapEvents(h.Provider.Services(), h.DisplayLocation()), ctrl.Criteria)
	buckets := calendar.BucketByDate(events)

	cells := ctrl.Grid(now)
	days := make([]CalendarDayJSON, 0, len(cells))
	for _, cell := range cells {
		key := cell.Date.Format("2006-01-02")
		days = append(days, CalendarDayJSON{
			Date:    key,
			Day:     cell.Day,
			Month:   cell.Month,
			IsToday: cell.IsToday,
			Events:  sortByTime(buckets[key]),
		})
	}

	h.WriteJSON(w, http.StatusOK, CalendarJSON{
		View:        ctrl.View,
		Date:        ctrl.Date().Format("2006-01-02"),
		Loading:     h.Provider.IsLoading(),
		Days:        days,
		Unscheduled: countUnscheduled(events),
	})
}

// TechnicianJSON is one dropdown entry for the technician filter
type TechnicianJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleTechnicians returns the technician roster for the filter dropdown
func (h *APIHandler) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	roster := h.Provider.Technicians()
	out := make([]TechnicianJSON, 0, len(roster))
	for _, t := range roster {
		out = append(out, TechnicianJSON{ID: t.ID, Name: t.DisplayName()})
	}
	h.WriteJSON(w, http.StatusOK, out)
}

// handleRefresh triggers an out of band fetch from the FrioService API
func (h *APIHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	handlerLogger := h.logger.With().Str("handler", "handleRefresh").Logger()
	handlerLogger.Info().Msg("Manual refresh requested")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := h.Provider.FetchServices(ctx); err != nil {
			handlerLogger.Error().Err(err).Msg("Manual refresh failed")
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}
