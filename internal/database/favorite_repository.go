package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
)

// ErrFavoriteNotFound indicates no matching favorite exists for the device
var ErrFavoriteNotFound = errors.New("favorite place not found")

// FavoriteRepository handles favorite place database operations
type FavoriteRepository struct {
	db DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db DB) *FavoriteRepository {
	return &FavoriteRepository{
		db: db,
	}
}

// CreateFavorite saves a new favorite place for a device
func (r *FavoriteRepository) CreateFavorite(deviceID uuid.UUID, req *models.FavoriteRequest) (*models.FavoritePlace, error) {
	favorite := &models.FavoritePlace{}
	now := time.Now()

	query := `
		INSERT INTO favorite_places (id, device_id, name, label, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, device_id, name, label, latitude, longitude, created_at, updated_at
	`

	err := r.db.Get(favorite, query, uuid.New(), deviceID, req.Name, req.Label, req.Latitude, req.Longitude, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	return favorite, nil
}

// ListFavorites returns a device's favorites, home and work first
func (r *FavoriteRepository) ListFavorites(deviceID uuid.UUID) ([]*models.FavoritePlace, error) {
	var favorites []*models.FavoritePlace

	query := `
		SELECT id, device_id, name, label, latitude, longitude, created_at, updated_at
		FROM favorite_places
		WHERE device_id = $1
		ORDER BY CASE label WHEN 'home' THEN 0 WHEN 'work' THEN 1 ELSE 2 END, created_at DESC
	`

	err := r.db.Select(&favorites, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, nil
}

// GetFavoriteByID fetches one favorite owned by the device
func (r *FavoriteRepository) GetFavoriteByID(id, deviceID uuid.UUID) (*models.FavoritePlace, error) {
	favorite := &models.FavoritePlace{}

	query := `
		SELECT id, device_id, name, label, latitude, longitude, created_at, updated_at
		FROM favorite_places
		WHERE id = $1 AND device_id = $2
	`

	err := r.db.Get(favorite, query, id, deviceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}

	return favorite, nil
}

// UpdateFavorite updates a favorite owned by the device
func (r *FavoriteRepository) UpdateFavorite(id, deviceID uuid.UUID, req *models.FavoriteRequest) error {
	query := `
		UPDATE favorite_places
		SET name = $1,
		    label = $2,
		    latitude = $3,
		    longitude = $4,
		    updated_at = $5
		WHERE id = $6 AND device_id = $7
	`

	result, err := r.db.Exec(query, req.Name, req.Label, req.Latitude, req.Longitude, time.Now(), id, deviceID)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

// DeleteFavorite removes a favorite owned by the device
func (r *FavoriteRepository) DeleteFavorite(id, deviceID uuid.UUID) error {
	query := `
		DELETE FROM favorite_places
		WHERE id = $1 AND device_id = $2
	`

	result, err := r.db.Exec(query, id, deviceID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}
