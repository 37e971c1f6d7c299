package database

import (
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
)

// SearchHistoryRepository handles geocoding search history operations
type SearchHistoryRepository struct {
	db DB
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(db DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{
		db: db,
	}
}

// InsertSearch logs one geocoding search for a device
func (r *SearchHistoryRepository) InsertSearch(deviceID uuid.UUID, query string, resultCount int) error {
	insert := `
		INSERT INTO search_history (device_id, query, result_count, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.db.Exec(insert, deviceID, query, resultCount)
	if err != nil {
		return fmt.Errorf("failed to insert search history: %w", err)
	}

	return nil
}

// ListRecent returns a device's most recent searches
func (r *SearchHistoryRepository) ListRecent(deviceID uuid.UUID, limit int) ([]*models.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var entries []*models.SearchHistoryEntry

	query := `
		SELECT id, device_id, query, result_count, created_at
		FROM search_history
		WHERE device_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	err := r.db.Select(&entries, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}

	return entries, nil
}

// DeleteForDevice clears all search history for a device
func (r *SearchHistoryRepository) DeleteForDevice(deviceID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM search_history
		WHERE device_id = $1
	`

	result, err := r.db.Exec(query, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete search history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteOlderThan removes history entries past the retention window
func (r *SearchHistoryRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query := `
		DELETE FROM search_history
		WHERE created_at < $1
	`

	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup search history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
