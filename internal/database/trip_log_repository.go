package database

import (
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
)

// TripLogRepository handles trip log database operations
type TripLogRepository struct {
	db DB
}

// NewTripLogRepository creates a new trip log repository
func NewTripLogRepository(db DB) *TripLogRepository {
	return &TripLogRepository{
		db: db,
	}
}

// InsertTrip records one finished navigation session
func (r *TripLogRepository) InsertTrip(trip *models.TripLog) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	query := `
		INSERT INTO trip_logs (
			id, device_id, status,
			origin_lat, origin_lon, destination_lat, destination_lon,
			distance_m, duration_s, step_count, started_at, ended_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		trip.ID,
		trip.DeviceID,
		trip.Status,
		trip.OriginLat,
		trip.OriginLon,
		trip.DestinationLat,
		trip.DestinationLon,
		trip.DistanceM,
		trip.DurationS,
		trip.StepCount,
		trip.StartedAt,
		trip.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip log: %w", err)
	}

	return nil
}

// ListRecent returns a device's most recent trips
func (r *TripLogRepository) ListRecent(deviceID uuid.UUID, limit int) ([]*models.TripLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var trips []*models.TripLog

	query := `
		SELECT id, device_id, status,
		       origin_lat, origin_lon, destination_lat, destination_lon,
		       distance_m, duration_s, step_count, started_at, ended_at
		FROM trip_logs
		WHERE device_id = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`

	err := r.db.Select(&trips, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip logs: %w", err)
	}

	return trips, nil
}

// GetStats aggregates a device's trip history
func (r *TripLogRepository) GetStats(deviceID uuid.UUID) (*models.TripStats, error) {
	stats := &models.TripStats{}

	query := `
		SELECT COUNT(*) AS trips,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
		       COALESCE(SUM(distance_m), 0) AS total_distance_m,
		       COALESCE(SUM(duration_s), 0) AS total_duration_s
		FROM trip_logs
		WHERE device_id = $1
	`

	err := r.db.Get(stats, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip stats: %w", err)
	}

	return stats, nil
}

// DeleteOlderThan removes trip logs past the retention window
func (r *TripLogRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query := `
		DELETE FROM trip_logs
		WHERE ended_at < $1
	`

	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup trip logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
