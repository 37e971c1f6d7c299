package routing

import (
	"context"
	"errors"
)

var (
	// ErrNoRoute indicates the routing service could not find a route
	ErrNoRoute = errors.New("no route found between the given points")

	// ErrEmptyRoute indicates the routing service returned a route with no steps
	ErrEmptyRoute = errors.New("route contains no steps")
)

// Point is a geographic coordinate in degrees
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ManeuverType identifies the kind of maneuver a step describes.
// Raw values from the routing service are decoded exactly once; anything
// unrecognized becomes ManeuverOther with the raw string preserved on the step.
type ManeuverType string

const (
	ManeuverDepart       ManeuverType = "depart"
	ManeuverArrive       ManeuverType = "arrive"
	ManeuverTurn         ManeuverType = "turn"
	ManeuverMerge        ManeuverType = "merge"
	ManeuverOnRamp       ManeuverType = "on ramp"
	ManeuverOffRamp      ManeuverType = "off ramp"
	ManeuverFork         ManeuverType = "fork"
	ManeuverEndOfRoad    ManeuverType = "end of road"
	ManeuverContinue     ManeuverType = "continue"
	ManeuverRoundabout   ManeuverType = "roundabout"
	ManeuverRotary       ManeuverType = "rotary"
	ManeuverNewName      ManeuverType = "new name"
	ManeuverNotification ManeuverType = "notification"
	ManeuverOther        ManeuverType = "other"
)

var knownManeuvers = map[string]ManeuverType{
	"depart":       ManeuverDepart,
	"arrive":       ManeuverArrive,
	"turn":         ManeuverTurn,
	"merge":        ManeuverMerge,
	"on ramp":      ManeuverOnRamp,
	"off ramp":     ManeuverOffRamp,
	"fork":         ManeuverFork,
	"end of road":  ManeuverEndOfRoad,
	"continue":     ManeuverContinue,
	"roundabout":   ManeuverRoundabout,
	"rotary":       ManeuverRotary,
	"new name":     ManeuverNewName,
	"notification": ManeuverNotification,
}

// ParseManeuverType maps a raw maneuver string to its ManeuverType.
// Unknown values return ManeuverOther; callers keep the raw string on the step.
func ParseManeuverType(raw string) ManeuverType {
	if m, ok := knownManeuvers[raw]; ok {
		return m
	}
	return ManeuverOther
}

// Step is a single maneuver on a route
type Step struct {
	Maneuver    ManeuverType `json:"maneuver"`
	RawManeuver string       `json:"raw_maneuver,omitempty"` // original value when Maneuver is "other"
	Modifier    string       `json:"modifier,omitempty"`      // direction qualifier: left, right, slight left, ...
	RoadName    string       `json:"road,omitempty"`
	Exit        int          `json:"exit,omitempty"` // roundabout exit number, defaults to 1
	Text        string       `json:"text,omitempty"` // raw text for notification steps
	Location    Point        `json:"location"`       // where the maneuver happens
	DistanceM   float64      `json:"distance_m"`     // distance covered by this step
}

// Leg is the travel between two consecutive waypoints
type Leg struct {
	Steps     []Step  `json:"steps"`
	DistanceM float64 `json:"distance_m"`
	DurationS float64 `json:"duration_s"`
}

// Route is an ordered sequence of legs returned by a routing provider
type Route struct {
	Legs      []Leg   `json:"legs"`
	DistanceM float64 `json:"distance_m"`
	DurationS float64 `json:"duration_s"`
}

// Steps returns the route's steps flattened across all legs
func (r *Route) Steps() []Step {
	var steps []Step
	for _, leg := range r.Legs {
		steps = append(steps, leg.Steps...)
	}
	return steps
}

// Provider fetches routes from an external routing service
type Provider interface {
	// Name identifies the provider for logging and health checks
	Name() string

	// GetRoute fetches a route between two points for the given travel profile
	GetRoute(ctx context.Context, from, to Point, profile string) (*Route, error)
}
