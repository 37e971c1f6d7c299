package models

import "github.com/google/uuid"

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate checks that the coordinate is on the globe
func (c *Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return NewValidationError("lat", "latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return NewValidationError("lon", "longitude must be between -180 and 180")
	}
	return nil
}

// StartNavigationRequest is the body of POST /navigation/start.
// A missing "from" falls back to the device's last known position.
type StartNavigationRequest struct {
	From    *Coordinate `json:"from,omitempty"`
	To      *Coordinate `json:"to" binding:"required"`
	Profile string      `json:"profile,omitempty"`
}

// PositionUpdateRequest is the body of POST /navigation/position
type PositionUpdateRequest struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// VoiceRequest is the body of PUT /navigation/voice
type VoiceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// RouteSummary is the route-level totals included in navigation state
type RouteSummary struct {
	DistanceM float64 `json:"distance_m"`
	DurationS float64 `json:"duration_s"`
}

// NavigationState is the session state returned to the shell
type NavigationState struct {
	Active              bool          `json:"active"`
	SessionID           *uuid.UUID    `json:"session_id,omitempty"`
	StepIndex           int           `json:"step_index"`
	StepCount           int           `json:"step_count"`
	Instruction         string        `json:"instruction,omitempty"`
	ShortLabel          string        `json:"short_label,omitempty"`
	DistanceToManeuverM float64       `json:"distance_to_maneuver_m"`
	Route               *RouteSummary `json:"route,omitempty"`
	VoiceEnabled        bool          `json:"voice_enabled"`
}

// PositionUpdateResponse is the result of one tracker tick
type PositionUpdateResponse struct {
	State     NavigationState `json:"state"`
	Announced string          `json:"announced,omitempty"`
	Arrived   bool            `json:"arrived"`
}

// RoutePreviewStep is one step in a route preview
type RoutePreviewStep struct {
	Instruction string     `json:"instruction"`
	ShortLabel  string     `json:"short_label"`
	Road        string     `json:"road,omitempty"`
	DistanceM   float64    `json:"distance_m"`
	Maneuver    string     `json:"maneuver"`
	Location    Coordinate `json:"location"`
}

// RoutePreviewResponse is the body of GET /routes/preview
type RoutePreviewResponse struct {
	Provider string             `json:"provider"`
	Profile  string             `json:"profile"`
	Route    RouteSummary       `json:"route"`
	Steps    []RoutePreviewStep `json:"steps"`
}
