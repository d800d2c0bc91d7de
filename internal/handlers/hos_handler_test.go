package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulplan/eld-backend/internal/models"
)

func setupHOSRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewHOSHandler(testLogger())
	r.POST("/api/v1/hos/rolling-hours", handler.RollingHours)

	return r
}

func postRollingHours(t *testing.T, router *gin.Engine, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hos/rolling-hours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRollingHoursHandler_Success(t *testing.T) {
	router := setupHOSRouter()

	history := make([]models.DailyHoursEntry, 0, 9)
	dates := []string{
		"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05",
		"2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09",
	}
	for _, d := range dates {
		history = append(history, models.DailyHoursEntry{Date: d, OnDutyHours: 8})
	}

	w := postRollingHours(t, router, models.RollingHoursRequest{History: history})
	assert.Equal(t, http.StatusOK, w.Code)

	var summary models.RollingHoursSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, "70/8", summary.WeeklyMode)
	assert.Equal(t, 8, summary.WindowDays)
	assert.Equal(t, 64.0, summary.HoursUsed)
	assert.Equal(t, 6.0, summary.HoursAvailable)
	assert.Len(t, summary.Breakdown, 8)
	assert.Equal(t, "2025-03-02", summary.Breakdown[0].Date)
}

func TestRollingHoursHandler_SixtySevenMode(t *testing.T) {
	router := setupHOSRouter()

	history := []models.DailyHoursEntry{
		{Date: "2025-03-01", OnDutyHours: 10},
		{Date: "2025-03-02", OnDutyHours: 10},
		{Date: "2025-03-03", OnDutyHours: 10},
	}

	w := postRollingHours(t, router, models.RollingHoursRequest{History: history, WeeklyMode: "60/7"})
	assert.Equal(t, http.StatusOK, w.Code)

	var summary models.RollingHoursSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, "60/7", summary.WeeklyMode)
	assert.Equal(t, 7, summary.WindowDays)
	assert.Equal(t, 30.0, summary.HoursUsed)
	assert.Equal(t, 30.0, summary.HoursAvailable)
}

func TestRollingHoursHandler_InvalidJSON(t *testing.T) {
	router := setupHOSRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hos/rolling-hours", bytes.NewBufferString("{bad"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request format", response["message"])
}

func TestRollingHoursHandler_ValidationErrors(t *testing.T) {
	router := setupHOSRouter()

	tests := []struct {
		name     string
		request  models.RollingHoursRequest
		expected string
	}{
		{
			name: "hours out of range",
			request: models.RollingHoursRequest{
				History: []models.DailyHoursEntry{{Date: "2025-03-01", OnDutyHours: 30}},
			},
			expected: "outside [0, 24]",
		},
		{
			name: "bad weekly mode",
			request: models.RollingHoursRequest{
				History:    []models.DailyHoursEntry{{Date: "2025-03-01", OnDutyHours: 8}},
				WeeklyMode: "80/9",
			},
			expected: "weekly_mode must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRollingHours(t, router, tt.request)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Contains(t, response["message"], tt.expected)
		})
	}
}

func TestRollingHoursHandler_NoParseableDates(t *testing.T) {
	router := setupHOSRouter()

	w := postRollingHours(t, router, models.RollingHoursRequest{
		History: []models.DailyHoursEntry{
			{Date: "not-a-date", OnDutyHours: 8},
			{Date: "03/01/2025", OnDutyHours: 8},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
}
