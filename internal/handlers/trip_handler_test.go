package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulplan/eld-backend/internal/database"
	"github.com/haulplan/eld-backend/internal/eld"
	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/models"
	"github.com/haulplan/eld-backend/internal/services"
	"github.com/haulplan/eld-backend/pkg/maps"
)

// testLogger returns a silenced logger for handler tests
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubRouter returns a canned route without network access
type stubRouter struct {
	route *maps.TripRoute
	err   error
}

func (s *stubRouter) MultiLegRoute(ctx context.Context, current, pickup, dropoff models.Coordinate) (*maps.TripRoute, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.route, nil
}

// setupTripTestHandler creates a trip handler backed by a mocked database
func setupTripTestHandler(t *testing.T, router maps.Router) (*TripHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := database.NewTripRepository(&mockDatabase{db: db})
	service := services.NewTripService(repo, router, hos.NewSimulator(nil), eld.NewGenerator(), "azure", testLogger())

	return NewTripHandler(service, testLogger()), mock, db
}

// setupTripRouter registers the trip routes the way the server does
func setupTripRouter(handler *TripHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/trips/plan", handler.PlanTrip)
		v1.GET("/trips", handler.ListTrips)
		v1.GET("/trips/:id", handler.GetTrip)
		v1.DELETE("/trips/:id", handler.DeleteTrip)
		v1.GET("/trips/:id/eld-pdf", handler.GetELDLogs)
	}

	return r
}

func planRequestBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(models.PlanTripRequest{
		CurrentLocation: models.Coordinate{Latitude: 41.8781, Longitude: -87.6298},
		PickupLocation:  models.Coordinate{Latitude: 39.7684, Longitude: -86.1581},
		DropoffLocation: models.Coordinate{Latitude: 36.1627, Longitude: -86.7816},
		Legs: []models.LegFigures{
			{DistanceMiles: 100, DurationHours: 1.8},
			{DistanceMiles: 200, DurationHours: 3.6},
		},
		DriverInfo: models.DriverInfo{
			DriverName:  "J. Duncan",
			CarrierName: "Haulplan Freight LLC",
		},
	})
	require.NoError(t, err)
	return body
}

func handlerTripColumns() []string {
	return []string{
		"id", "driver_name", "carrier_name", "main_office", "vehicle_number",
		"current_lat", "current_lon", "pickup_lat", "pickup_lon", "dropoff_lat", "dropoff_lon",
		"current_cycle_used", "weekly_mode", "status",
		"total_distance_miles", "total_duration_hours", "compliant", "plan", "created_at",
	}
}

func handlerTripRow(t *testing.T, tripID string) []driver.Value {
	t.Helper()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	plan := models.TripPlan{
		TripID: tripID,
		DailyLogs: []models.DailyLog{
			{
				Date: day,
				Events: []models.DutyEvent{
					{
						Activity:      "Driving",
						Status:        models.StatusDriving,
						StartTime:     day.Add(6 * time.Hour),
						DurationHours: 3,
						LocationName:  "Chicago, IL",
					},
				},
				TotalDrivingHours: 3,
				TotalDrivingMiles: 180,
			},
		},
	}
	planJSON, err := json.Marshal(plan)
	require.NoError(t, err)

	return []driver.Value{
		tripID, "J. Duncan", "Haulplan Freight LLC", "Chicago, IL", "TRK-4821",
		41.8781, -87.6298, 39.7684, -86.1581, 36.1627, -86.7816,
		12.5, "70/8", "planned",
		540.0, 12.3, true, planJSON, time.Now(),
	}
}

func TestPlanTripHandler_Success(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)

	mock.ExpectQuery("INSERT INTO trips").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", bytes.NewBuffer(planRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var plan models.TripPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))

	assert.NotEmpty(t, plan.TripID)
	assert.Equal(t, 300.0, plan.TotalDistanceMiles)
	assert.Equal(t, 5.4, plan.TotalDrivingHours)
	assert.NotEmpty(t, plan.Schedule)
	assert.NotEmpty(t, plan.DailyLogs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanTripHandler_InvalidJSON(t *testing.T) {
	handler, _, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, "Invalid request format", response["message"])
}

func TestPlanTripHandler_ValidationError(t *testing.T) {
	handler, _, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)

	body, err := json.Marshal(models.PlanTripRequest{
		CurrentLocation: models.Coordinate{Latitude: 99, Longitude: -87.6298},
		PickupLocation:  models.Coordinate{Latitude: 39.7684, Longitude: -86.1581},
		DropoffLocation: models.Coordinate{Latitude: 36.1627, Longitude: -86.7816},
		Legs: []models.LegFigures{
			{DistanceMiles: 100, DurationHours: 1.8},
			{DistanceMiles: 200, DurationHours: 3.6},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
	assert.Contains(t, response["message"], "latitude")
}

func TestPlanTripHandler_StoreError(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)

	mock.ExpectQuery("INSERT INTO trips").
		WillReturnError(fmt.Errorf("connection lost"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", bytes.NewBuffer(planRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Failed to plan trip. Please try again later.", response["message"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripHandler(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)
	tripID := "11111111-2222-3333-4444-555555555555"

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(handlerTripColumns()).AddRow(handlerTripRow(t, tripID)...)
		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnRows(rows)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+tripID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var trip models.Trip
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
		assert.Equal(t, tripID, trip.ID)
		assert.Equal(t, "J. Duncan", trip.DriverName)
		assert.Len(t, trip.Plan.DailyLogs, 1)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+tripID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Trip not found", response["message"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTripsHandler(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)

	listColumns := []string{"id", "driver_name", "carrier_name", "total_distance_miles", "total_duration_hours", "compliant", "created_at"}
	rows := sqlmock.NewRows(listColumns).
		AddRow("trip-1", "J. Duncan", "Haulplan Freight LLC", 540.0, 12.3, true, time.Now()).
		AddRow("trip-2", "M. Okafor", "Haulplan Freight LLC", 220.5, 5.1, true, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs(20, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status string                `json:"status"`
		Trips  []models.TripListItem `json:"trips"`
		Count  int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.Trips, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTripHandler(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)
	tripID := "11111111-2222-3333-4444-555555555555"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM trips").
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/trips/"+tripID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Trip deleted successfully", response["message"])
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM trips").
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/trips/"+tripID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetELDLogsHandler(t *testing.T) {
	handler, mock, db := setupTripTestHandler(t, &stubRouter{})
	defer db.Close()

	router := setupTripRouter(handler)
	tripID := "11111111-2222-3333-4444-555555555555"

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(handlerTripColumns()).AddRow(handlerTripRow(t, tripID)...)
		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnRows(rows)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+tripID+"/eld-pdf", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), fmt.Sprintf("eld-logs-%s.pdf", tripID))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+tripID+"/eld-pdf", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

// mockDatabase implements the database.DB interface for testing
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
