package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTripRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	handler := NewTripHandler(database.NewTripLogRepository(db), testLogger())
	deviceID := uuid.New()

	router := gin.New()
	router.Use(deviceContextInjector(deviceID))
	router.GET("/trips", handler.List)
	router.GET("/trips/stats", handler.Stats)

	return router, mock, deviceID
}

func TestTripList(t *testing.T) {
	router, mock, deviceID := setupTripRouter(t)

	rows := sqlmock.NewRows([]string{
		"id", "device_id", "status",
		"origin_lat", "origin_lon", "destination_lat", "destination_lon",
		"distance_m", "duration_s", "step_count", "started_at", "ended_at",
	}).AddRow(uuid.New(), deviceID, models.TripStatusCompleted,
		52.52, 13.405, 52.5163, 13.3777, 2450.3, 312.7, 8,
		time.Now().Add(-10*time.Minute), time.Now())

	mock.ExpectQuery("SELECT id, device_id, status").
		WithArgs(deviceID, 20).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Trips []models.TripLog `json:"trips"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Trips, 1)
	assert.Equal(t, models.TripStatusCompleted, resp.Trips[0].Status)
}

func TestTripStats(t *testing.T) {
	router, mock, deviceID := setupTripRouter(t)

	rows := sqlmock.NewRows([]string{
		"trips", "completed", "cancelled", "total_distance_m", "total_duration_s",
	}).AddRow(12, 9, 2, 45230.5, 8120.0)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(deviceID).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/trips/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.TripStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 12, stats.Trips)
	assert.Equal(t, 9, stats.Completed)
}
