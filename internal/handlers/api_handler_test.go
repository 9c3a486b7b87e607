package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIHandlerCalendarJSON(t *testing.T) {
	handler := NewAPIHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?view=month&date=2025-06-15", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendarJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var payload CalendarJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, "month", string(payload.View))
	assert.Equal(t, "2025-06-15", payload.Date)
	assert.Len(t, payload.Days, 42)
	assert.Equal(t, 1, payload.Unscheduled)

	var june15 *CalendarDayJSON
	for i := range payload.Days {
		if payload.Days[i].Date == "2025-06-15" {
			june15 = &payload.Days[i]
			break
		}
	}
	require.NotNil(t, june15)
	assert.False(t, june15.IsToday)
	require.Len(t, june15.Events, 2)
	assert.Equal(t, "srv-2", june15.Events[0].ID)
	assert.Equal(t, "09:00", june15.Events[0].Time)
	assert.Equal(t, "srv-1", june15.Events[1].ID)
}

func TestAPIHandlerCalendarJSONWeekView(t *testing.T) {
	handler := NewAPIHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?view=week&date=2025-06-15", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendarJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload CalendarJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Days, 7)
	// 2025-06-15 is a Sunday, so the week starts on it
	assert.Equal(t, "2025-06-15", payload.Days[0].Date)
}

func TestAPIHandlerCalendarJSONRejectsPost(t *testing.T) {
	handler := NewAPIHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodPost, "/api/calendar", nil)
	rec := httptest.NewRecorder()
	handler.handleCalendarJSON(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPIHandlerTechnicians(t *testing.T) {
	handler := NewAPIHandler(newTestBaseHandler(t, fixtureProvider()))

	req := httptest.NewRequest(http.MethodGet, "/technicians", nil)
	rec := httptest.NewRecorder()
	handler.handleTechnicians(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var roster []TechnicianJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	require.Len(t, roster, 2)
	assert.Equal(t, "Carlos Quispe", roster[0].Name)
	assert.Equal(t, "María Torres", roster[1].Name)
}

func TestAPIHandlerRefresh(t *testing.T) {
	mock := fixtureProvider()
	handler := NewAPIHandler(newTestBaseHandler(t, mock))

	t.Run("post triggers a fetch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		rec := httptest.NewRecorder()
		handler.handleRefresh(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Eventually(t, func() bool {
			return mock.FetchCount() == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("get is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
		rec := httptest.NewRecorder()
		handler.handleRefresh(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
