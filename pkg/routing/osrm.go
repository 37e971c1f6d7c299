package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// OSRMProvider fetches routes from an OSRM HTTP server
type OSRMProvider struct {
	baseURL string
	client  *http.Client
}

// NewOSRMProvider creates an OSRM routing provider.
// baseURL is the server root, e.g. "https://router.project-osrm.org".
func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OSRMProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider identifier
func (p *OSRMProvider) Name() string {
	return "osrm"
}

// osrmResponse mirrors the OSRM route service response
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Distance float64    `json:"distance"`
	Duration float64    `json:"duration"`
	Steps    []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Distance float64      `json:"distance"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type     string    `json:"type"`
	Modifier string    `json:"modifier"`
	Exit     int       `json:"exit"`
	Location []float64 `json:"location"` // GeoJSON order: [lon, lat]
}

// GetRoute fetches a route from the OSRM server
func (p *OSRMProvider) GetRoute(ctx context.Context, from, to Point, profile string) (*Route, error) {
	if profile == "" {
		profile = "driving"
	}

	// OSRM takes coordinates in lon,lat order
	requestURL := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?%s",
		p.baseURL,
		url.PathEscape(profile),
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude,
		url.Values{
			"overview":   {"full"},
			"geometries": {"geojson"},
			"steps":      {"true"},
		}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build OSRM request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSRM request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OSRM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse OSRM response: %w", err)
	}

	if parsed.Code != "Ok" {
		return nil, fmt.Errorf("OSRM error %s: %s", parsed.Code, parsed.Message)
	}

	if len(parsed.Routes) == 0 {
		return nil, ErrNoRoute
	}

	return decodeOSRMRoute(parsed.Routes[0]), nil
}

// decodeOSRMRoute converts the raw OSRM payload into a Route,
// defaulting missing fields rather than failing
func decodeOSRMRoute(raw osrmRoute) *Route {
	route := &Route{
		DistanceM: raw.Distance,
		DurationS: raw.Duration,
		Legs:      make([]Leg, 0, len(raw.Legs)),
	}

	for _, rawLeg := range raw.Legs {
		leg := Leg{
			DistanceM: rawLeg.Distance,
			DurationS: rawLeg.Duration,
			Steps:     make([]Step, 0, len(rawLeg.Steps)),
		}
		for _, rawStep := range rawLeg.Steps {
			leg.Steps = append(leg.Steps, decodeOSRMStep(rawStep))
		}
		route.Legs = append(route.Legs, leg)
	}

	return route
}

func decodeOSRMStep(raw osrmStep) Step {
	step := Step{
		Maneuver:  ParseManeuverType(raw.Maneuver.Type),
		Modifier:  raw.Maneuver.Modifier,
		RoadName:  raw.Name,
		Exit:      raw.Maneuver.Exit,
		DistanceM: raw.Distance,
	}

	if step.Maneuver == ManeuverOther {
		step.RawManeuver = raw.Maneuver.Type
	}
	if step.Exit <= 0 {
		step.Exit = 1
	}
	if len(raw.Maneuver.Location) >= 2 {
		step.Location = Point{
			Latitude:  raw.Maneuver.Location[1],
			Longitude: raw.Maneuver.Location[0],
		}
	}

	return step
}
