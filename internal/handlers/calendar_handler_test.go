package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
)

func TestControllerFromRequest(t *testing.T) {
	handler := newTestBaseHandler(t, fixtureProvider())
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("empty query yields initial state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar", nil)
		ctrl := handler.ControllerFromRequest(req, now)

		assert.Equal(t, 2025, ctrl.Year)
		assert.Equal(t, time.June, ctrl.Month)
		assert.Equal(t, 10, ctrl.Day)
		assert.Equal(t, calendar.ViewMonth, ctrl.View)
		assert.Len(t, ctrl.Criteria.Types, 2)
	})

	t.Run("configured default view applies when query has none", func(t *testing.T) {
		display := handler.RuntimeConfig.Display()
		display.DefaultView = "week"
		handler.RuntimeConfig.SetDisplay(display)
		defer func() {
			display.DefaultView = "month"
			handler.RuntimeConfig.SetDisplay(display)
		}()

		req := httptest.NewRequest(http.MethodGet, "/calendar", nil)
		ctrl := handler.ControllerFromRequest(req, now)
		assert.Equal(t, calendar.ViewWeek, ctrl.View)
	})

	t.Run("full query reconstructs the state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/calendar?view=day&date=2025-12-31&types=correctivo&technician=Carlos+Quispe&status=pendiente&priority=urgente", nil)
		ctrl := handler.ControllerFromRequest(req, now)

		assert.Equal(t, 2025, ctrl.Year)
		assert.Equal(t, time.December, ctrl.Month)
		assert.Equal(t, 31, ctrl.Day)
		assert.Equal(t, calendar.ViewDay, ctrl.View)
		assert.Equal(t, []constants.TypeCategory{constants.CategoryCorrective}, ctrl.Criteria.Types)
		assert.Equal(t, "Carlos Quispe", ctrl.Criteria.Technician)
		assert.Equal(t, "pendiente", ctrl.Criteria.Status)
		assert.Equal(t, "urgente", ctrl.Criteria.Priority)
	})

	t.Run("empty types parameter clears the category set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?types=", nil)
		ctrl := handler.ControllerFromRequest(req, now)
		assert.Empty(t, ctrl.Criteria.Types)
	})

	t.Run("repeated types parameters accumulate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?types=programado&types=correctivo", nil)
		ctrl := handler.ControllerFromRequest(req, now)
		assert.Len(t, ctrl.Criteria.Types, 2)
	})

	t.Run("malformed date falls back to now", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?date=not-a-date", nil)
		ctrl := handler.ControllerFromRequest(req, now)
		assert.Equal(t, 10, ctrl.Day)
		assert.Equal(t, time.June, ctrl.Month)
	})
}

func TestControllerURLRoundTrip(t *testing.T) {
	handler := newTestBaseHandler(t, fixtureProvider())
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	ctrl := calendar.NewController(now).
		SetView(calendar.ViewWeek).
		SetTechnician("María Torres").
		SetStatus("confirmado")

	built := ControllerURL("/calendar", ctrl)
	u, err := url.Parse(built)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/calendar?"+u.RawQuery, nil)
	rebuilt := handler.ControllerFromRequest(req, now.AddDate(1, 0, 0))

	assert.Equal(t, ctrl.Year, rebuilt.Year)
	assert.Equal(t, ctrl.Month, rebuilt.Month)
	assert.Equal(t, ctrl.Day, rebuilt.Day)
	assert.Equal(t, ctrl.View, rebuilt.View)
	assert.Equal(t, ctrl.Criteria, rebuilt.Criteria)
}

func TestCalendarHandlerRendersMonth(t *testing.T) {
	handler := NewCalendarHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-06-15", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Junio 2025")
	assert.Contains(t, body, "Mantenimiento cámara frigorífica")
	assert.Contains(t, body, "Reparación compresor")
	// srv-3 has no scheduled date and stays off the grid
	assert.NotContains(t, body, "Inspección pendiente de agendar")
	assert.Contains(t, body, "1 servicio(s) sin fecha programada")
	// roster entries appear in the filter dropdown
	assert.Contains(t, body, "Carlos Quispe")
	assert.Contains(t, body, "María Torres")
}

// The filter form must resubmit the full navigation state: changing a filter
// while viewing another month keeps the cursor on that month.
func TestCalendarHandlerFilterFormKeepsCursor(t *testing.T) {
	handler := NewCalendarHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-12-15", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="date" value="2025-12-15"`)
	// all single-valued filters are submittable from the form
	assert.Contains(t, body, `<select name="technician">`)
	assert.Contains(t, body, `<select name="status">`)
	assert.Contains(t, body, `<select name="priority">`)

	// the query a filter submit produces lands back on December
	submit := httptest.NewRequest(http.MethodGet,
		"/calendar?view=month&date=2025-12-15&types=programado&technician=todos&status=pending&priority=todos", nil)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	ctrl := handler.ControllerFromRequest(submit, now)
	assert.Equal(t, 2025, ctrl.Year)
	assert.Equal(t, time.December, ctrl.Month)
	assert.Equal(t, 15, ctrl.Day)
	assert.Equal(t, "pending", ctrl.Criteria.Status)
}

func TestCalendarHandlerRendersDayAgenda(t *testing.T) {
	handler := NewCalendarHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/calendar?view=day&date=2025-06-15", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "15 de Junio 2025")
	// both events of the day appear, earliest first
	assert.Contains(t, body, "09:00")
	assert.Contains(t, body, "14:30")
	assert.Less(t,
		strings.Index(body, "Reparación compresor"),
		strings.Index(body, "Mantenimiento cámara frigorífica"))
}

func TestCalendarHandlerNavigationRedirect(t *testing.T) {
	handler := NewCalendarHandler(newTestBaseHandler(t, fixtureProvider()))

	t.Run("next month", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-01-15&action=next", nil)
		rec := httptest.NewRecorder()
		handler.handleCalendar(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "date=2025-02-15")
	})

	t.Run("prev across a year boundary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-01-15&action=prev", nil)
		rec := httptest.NewRecorder()
		handler.handleCalendar(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "date=2024-12-15")
	})

	t.Run("toggle removes a category", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-06-15&toggle=correctivo", nil)
		rec := httptest.NewRecorder()
		handler.handleCalendar(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "programado", loc.Query().Get("types"))
	})

	t.Run("unknown action redirects without a transition", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?view=month&date=2025-06-15&action=sideways", nil)
		rec := httptest.NewRecorder()
		handler.handleCalendar(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestSortByTimePlacesUnscheduledLast(t *testing.T) {
	events := []calendar.Event{
		{ID: "a", Time: calendar.NoTimeLabel},
		{ID: "b", Time: "14:30"},
		{ID: "c", Time: "09:00"},
	}

	sorted := sortByTime(events)
	require.Len(t, sorted, 3)
	assert.Equal(t, "c", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
	assert.Equal(t, "a", sorted[2].ID)
	// input order is untouched
	assert.Equal(t, "a", events[0].ID)
}
