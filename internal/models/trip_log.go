package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip log statuses
const (
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"
	TripStatusAbandoned = "abandoned"
)

// TripLog records one finished navigation session
type TripLog struct {
	ID             uuid.UUID `json:"id" db:"id"`
	DeviceID       uuid.UUID `json:"-" db:"device_id"`
	Status         string    `json:"status" db:"status"`
	OriginLat      float64   `json:"origin_lat" db:"origin_lat"`
	OriginLon      float64   `json:"origin_lon" db:"origin_lon"`
	DestinationLat float64   `json:"destination_lat" db:"destination_lat"`
	DestinationLon float64   `json:"destination_lon" db:"destination_lon"`
	DistanceM      float64   `json:"distance_m" db:"distance_m"`
	DurationS      float64   `json:"duration_s" db:"duration_s"`
	StepCount      int       `json:"step_count" db:"step_count"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`
	EndedAt        time.Time `json:"ended_at" db:"ended_at"`
}

// TripStats aggregates a device's trip history
type TripStats struct {
	Trips          int     `json:"trips" db:"trips"`
	Completed      int     `json:"completed" db:"completed"`
	Cancelled      int     `json:"cancelled" db:"cancelled"`
	TotalDistanceM float64 `json:"total_distance_m" db:"total_distance_m"`
	TotalDurationS float64 `json:"total_duration_s" db:"total_duration_s"`
}
