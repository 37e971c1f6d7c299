package routing

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"googlemaps.github.io/maps"
)

// GoogleProvider fetches routes from the Google Directions API
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider creates a Google Directions routing provider
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// Name returns the provider identifier
func (p *GoogleProvider) Name() string {
	return "google"
}

// GetRoute fetches a route via the Directions API
func (p *GoogleProvider) GetRoute(ctx context.Context, from, to Point, profile string) (*Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Latitude, from.Longitude),
		Destination: fmt.Sprintf("%f,%f", to.Latitude, to.Longitude),
		Mode:        travelMode(profile),
	}

	routes, _, err := p.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	return decodeGoogleRoute(routes[0]), nil
}

func travelMode(profile string) maps.Mode {
	switch profile {
	case "walking", "foot":
		return maps.TravelModeWalking
	case "cycling", "bike":
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}

// decodeGoogleRoute converts a Directions route into the provider-neutral Route.
// Google legs carry no explicit arrive step, so one is appended at each leg end.
func decodeGoogleRoute(raw maps.Route) *Route {
	route := &Route{
		Legs: make([]Leg, 0, len(raw.Legs)),
	}

	for _, rawLeg := range raw.Legs {
		leg := Leg{
			DistanceM: float64(rawLeg.Distance.Meters),
			DurationS: rawLeg.Duration.Seconds(),
			Steps:     make([]Step, 0, len(rawLeg.Steps)+1),
		}

		for i, rawStep := range rawLeg.Steps {
			leg.Steps = append(leg.Steps, decodeGoogleStep(rawStep, i == 0))
		}

		leg.Steps = append(leg.Steps, Step{
			Maneuver: ManeuverArrive,
			Location: Point{
				Latitude:  rawLeg.EndLocation.Lat,
				Longitude: rawLeg.EndLocation.Lng,
			},
		})

		route.Legs = append(route.Legs, leg)
		route.DistanceM += leg.DistanceM
		route.DurationS += leg.DurationS
	}

	return route
}

func decodeGoogleStep(raw *maps.Step, first bool) Step {
	maneuver, modifier := parseGoogleManeuver(raw.Maneuver, first)

	step := Step{
		Maneuver:  maneuver,
		Modifier:  modifier,
		RoadName:  roadNameFromInstructions(raw.HTMLInstructions),
		Exit:      1,
		DistanceM: float64(raw.Distance.Meters),
		Location: Point{
			Latitude:  raw.StartLocation.Lat,
			Longitude: raw.StartLocation.Lng,
		},
	}

	if maneuver == ManeuverOther {
		step.RawManeuver = raw.Maneuver
	}

	return step
}

// parseGoogleManeuver maps Google's hyphenated maneuver strings onto the
// shared maneuver enum plus a direction modifier
func parseGoogleManeuver(raw string, first bool) (ManeuverType, string) {
	if raw == "" {
		// Google leaves the first step of a leg without a maneuver
		if first {
			return ManeuverDepart, ""
		}
		return ManeuverContinue, ""
	}

	switch raw {
	case "merge":
		return ManeuverMerge, ""
	case "straight":
		return ManeuverContinue, "straight"
	case "keep-left":
		return ManeuverFork, "left"
	case "keep-right":
		return ManeuverFork, "right"
	}

	side := ""
	switch {
	case strings.HasSuffix(raw, "-left"):
		side = "left"
	case strings.HasSuffix(raw, "-right"):
		side = "right"
	}

	switch {
	case strings.HasPrefix(raw, "turn-slight-"):
		return ManeuverTurn, "slight " + side
	case strings.HasPrefix(raw, "turn-sharp-"):
		return ManeuverTurn, "sharp " + side
	case strings.HasPrefix(raw, "turn-"):
		return ManeuverTurn, side
	case strings.HasPrefix(raw, "uturn-"):
		return ManeuverTurn, "uturn"
	case strings.HasPrefix(raw, "ramp-"):
		return ManeuverOnRamp, side
	case strings.HasPrefix(raw, "fork-"):
		return ManeuverFork, side
	case strings.HasPrefix(raw, "roundabout-"):
		return ManeuverRoundabout, side
	case strings.HasPrefix(raw, "merge-"):
		return ManeuverMerge, side
	}

	return ManeuverOther, side
}

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
	ontoRoadPattern = regexp.MustCompile(`(?:onto|on|toward)\s+(.+?)(?:\s+toward\b.*)?$`)
)

// roadNameFromInstructions pulls a road name out of the HTML turn
// instructions, since the Directions API has no dedicated field for it
func roadNameFromInstructions(html string) string {
	if html == "" {
		return ""
	}

	text := htmlTagPattern.ReplaceAllString(html, " ")
	text = strings.Join(strings.Fields(text), " ")

	if m := ontoRoadPattern.FindStringSubmatch(text); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}

	return ""
}
