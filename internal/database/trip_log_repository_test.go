package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertTripAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripLogRepository(db)

	mock.ExpectExec("INSERT INTO trip_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	trip := &models.TripLog{
		DeviceID:  uuid.New(),
		Status:    models.TripStatusCompleted,
		StartedAt: time.Now().Add(-10 * time.Minute),
		EndedAt:   time.Now(),
	}

	require.NoError(t, repo.InsertTrip(trip))
	assert.NotEqual(t, uuid.Nil, trip.ID)
}

func TestGetStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripLogRepository(db)

	deviceID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"trips", "completed", "cancelled", "total_distance_m", "total_duration_s",
	}).AddRow(12, 9, 2, 45230.5, 8120.0)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(deviceID).
		WillReturnRows(rows)

	stats, err := repo.GetStats(deviceID)

	require.NoError(t, err)
	assert.Equal(t, 12, stats.Trips)
	assert.Equal(t, 9, stats.Completed)
	assert.Equal(t, 2, stats.Cancelled)
	assert.Equal(t, 45230.5, stats.TotalDistanceM)
}

func TestDeleteOlderThan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripLogRepository(db)

	mock.ExpectExec("DELETE FROM trip_logs").
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteOlderThan(180)

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
