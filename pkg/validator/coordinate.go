package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyCoordinate indicates the coordinate string is empty
	ErrEmptyCoordinate = errors.New("coordinate cannot be empty")

	// ErrInvalidFormat indicates the coordinate is not "lat,lon"
	ErrInvalidFormat = errors.New("coordinate must be in the form lat,lon")

	// ErrLatitudeRange indicates latitude is outside [-90, 90]
	ErrLatitudeRange = errors.New("latitude must be between -90 and 90")

	// ErrLongitudeRange indicates longitude is outside [-180, 180]
	ErrLongitudeRange = errors.New("longitude must be between -180 and 180")
)

// CoordinateValidator handles geographic coordinate validation
type CoordinateValidator struct{}

// NewCoordinateValidator creates a new coordinate validator instance
func NewCoordinateValidator() *CoordinateValidator {
	return &CoordinateValidator{}
}

// Validate parses and validates a "lat,lon" coordinate string.
// Accepts optional whitespace around either component.
func (v *CoordinateValidator) Validate(coord string) (lat, lon float64, err error) {
	if coord == "" {
		return 0, 0, ErrEmptyCoordinate
	}

	sanitized := v.Sanitize(coord)

	parts := strings.Split(sanitized, ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidFormat
	}

	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	if err := v.ValidatePair(lat, lon); err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}

// ValidatePair checks that a latitude/longitude pair is on the globe
func (v *CoordinateValidator) ValidatePair(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return ErrLatitudeRange
	}
	if lon < -180 || lon > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// Sanitize strips whitespace from a coordinate string
func (v *CoordinateValidator) Sanitize(coord string) string {
	coord = strings.TrimSpace(coord)
	coord = strings.ReplaceAll(coord, " ", "")
	coord = strings.ReplaceAll(coord, "\t", "")
	return coord
}

// Format renders a validated coordinate in the standard display format
func (v *CoordinateValidator) Format(coord string) (string, error) {
	lat, lon, err := v.Validate(coord)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.6f,%.6f", lat, lon), nil
}

// IsValid is a convenience method that returns true if the coordinate parses
func (v *CoordinateValidator) IsValid(coord string) bool {
	_, _, err := v.Validate(coord)
	return err == nil
}

// MustValidate validates and panics if invalid (use for testing only)
func (v *CoordinateValidator) MustValidate(coord string) (float64, float64) {
	lat, lon, err := v.Validate(coord)
	if err != nil {
		panic(fmt.Sprintf("invalid coordinate %s: %v", coord, err))
	}
	return lat, lon
}
