package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/google/uuid"
)

// RateLimitService handles geocoding search rate limiting per device
type RateLimitService struct {
	db          database.DB
	maxRequests int
	window      time.Duration
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB, maxRequests int, window time.Duration) *RateLimitService {
	if maxRequests <= 0 {
		maxRequests = 30
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &RateLimitService{
		db:          db,
		maxRequests: maxRequests,
		window:      window,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "search"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckSearchRateLimit checks whether a device has exceeded the search
// rate limit. Returns a *RateLimitError when the limit is hit.
func (s *RateLimitService) CheckSearchRateLimit(deviceID uuid.UUID) error {
	count, lastRequest, err := s.getRequestCount(deviceID)
	if err != nil {
		return fmt.Errorf("failed to check search rate limit: %w", err)
	}

	if count >= s.maxRequests {
		retryAfter := lastRequest.Add(s.window)
		return &RateLimitError{
			Message:    fmt.Sprintf("Too many searches from this device. Please try again after %s", retryAfter.Format("15:04:05")),
			RetryAfter: retryAfter,
			Type:       "search",
		}
	}

	return nil
}

// RecordSearchRequest records a search for rate limiting
func (s *RateLimitService) RecordSearchRequest(deviceID uuid.UUID) error {
	query := `
		INSERT INTO search_rate_limits (device_id, created_at)
		VALUES ($1, NOW())
	`

	if _, err := s.db.Exec(query, deviceID); err != nil {
		return fmt.Errorf("failed to record search request: %w", err)
	}

	return nil
}

// getRequestCount counts a device's searches inside the window
func (s *RateLimitService) getRequestCount(deviceID uuid.UUID) (int, time.Time, error) {
	windowStart := time.Now().Add(-s.window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM search_rate_limits
		WHERE device_id = $1
		  AND created_at > $2
	`

	var count int
	var lastRequest time.Time

	err := s.db.QueryRow(query, deviceID, windowStart).Scan(&count, &lastRequest)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}

	return count, lastRequest, nil
}

// CleanupExpiredRateLimits removes rate limit records outside the window
func (s *RateLimitService) CleanupExpiredRateLimits() (int64, error) {
	cutoff := time.Now().Add(-s.window)

	query := `
		DELETE FROM search_rate_limits
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup rate limits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
