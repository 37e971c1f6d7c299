package models

import (
	"time"

	"github.com/google/uuid"
)

// Valid favorite labels
const (
	LabelHome  = "home"
	LabelWork  = "work"
	LabelOther = "other"
)

// Place is one geocoding search result
type Place struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Type        string  `json:"type,omitempty"`
	Importance  float64 `json:"importance,omitempty"`
}

// FavoritePlace is a saved destination for a device
type FavoritePlace struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DeviceID  uuid.UUID `json:"-" db:"device_id"`
	Name      string    `json:"name" db:"name"`
	Label     string    `json:"label" db:"label"`
	Latitude  float64   `json:"lat" db:"latitude"`
	Longitude float64   `json:"lon" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FavoriteRequest is the body for creating or updating a favorite
type FavoriteRequest struct {
	Name      string  `json:"name" binding:"required"`
	Label     string  `json:"label,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate checks the favorite request, defaulting the label to "other"
func (r *FavoriteRequest) Validate() error {
	if r.Name == "" {
		return NewValidationError("name", "name is required")
	}

	if r.Label == "" {
		r.Label = LabelOther
	}
	switch r.Label {
	case LabelHome, LabelWork, LabelOther:
	default:
		return NewValidationError("label", "label must be one of home, work, other")
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		return NewValidationError("lat", "latitude must be between -90 and 90")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return NewValidationError("lon", "longitude must be between -180 and 180")
	}

	return nil
}

// SearchHistoryEntry is one logged geocoding search
type SearchHistoryEntry struct {
	ID          int64     `json:"id" db:"id"`
	DeviceID    uuid.UUID `json:"-" db:"device_id"`
	Query       string    `json:"query" db:"query"`
	ResultCount int       `json:"result_count" db:"result_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
