package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmRouteResponse = `{
	"code": "Ok",
	"routes": [{
		"distance": 2450.3,
		"duration": 312.7,
		"legs": [{
			"distance": 2450.3,
			"duration": 312.7,
			"steps": [
				{
					"name": "Unter den Linden",
					"distance": 1200,
					"maneuver": {"type": "depart", "modifier": "", "location": [13.405, 52.52]}
				},
				{
					"name": "Friedrichstraße",
					"distance": 800,
					"maneuver": {"type": "turn", "modifier": "left", "location": [13.3889, 52.5186]}
				},
				{
					"name": "",
					"distance": 450.3,
					"maneuver": {"type": "roundabout", "modifier": "right", "exit": 2, "location": [13.3833, 52.5195]}
				},
				{
					"name": "",
					"distance": 0,
					"maneuver": {"type": "arrive", "modifier": "right", "location": [13.3777, 52.5163]}
				}
			]
		}]
	}]
}`

func TestOSRMGetRoute(t *testing.T) {
	var requestedPath string
	var requestedQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		requestedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(osrmRouteResponse))
	}))
	defer server.Close()

	provider := NewOSRMProvider(server.URL, 5*time.Second)

	route, err := provider.GetRoute(
		context.Background(),
		Point{Latitude: 52.52, Longitude: 13.405},
		Point{Latitude: 52.5163, Longitude: 13.3777},
		"driving",
	)
	require.NoError(t, err)

	// OSRM expects lon,lat order in the path
	assert.Contains(t, requestedPath, "/route/v1/driving/13.405000,52.520000;13.377700,52.516300")
	assert.Contains(t, requestedQuery, "steps=true")
	assert.Contains(t, requestedQuery, "geometries=geojson")

	assert.Equal(t, 2450.3, route.DistanceM)
	assert.Equal(t, 312.7, route.DurationS)

	steps := route.Steps()
	require.Len(t, steps, 4)

	assert.Equal(t, ManeuverDepart, steps[0].Maneuver)
	assert.Equal(t, "Unter den Linden", steps[0].RoadName)
	// Location decodes from GeoJSON [lon, lat] order
	assert.Equal(t, 52.52, steps[0].Location.Latitude)
	assert.Equal(t, 13.405, steps[0].Location.Longitude)

	assert.Equal(t, ManeuverTurn, steps[1].Maneuver)
	assert.Equal(t, "left", steps[1].Modifier)

	assert.Equal(t, ManeuverRoundabout, steps[2].Maneuver)
	assert.Equal(t, 2, steps[2].Exit)

	assert.Equal(t, ManeuverArrive, steps[3].Maneuver)
	assert.Equal(t, "right", steps[3].Modifier)
}

func TestOSRMGetRouteDefaultsProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		w.Write([]byte(osrmRouteResponse))
	}))
	defer server.Close()

	provider := NewOSRMProvider(server.URL, 5*time.Second)

	_, err := provider.GetRoute(context.Background(), Point{Latitude: 1, Longitude: 1}, Point{Latitude: 2, Longitude: 2}, "")
	assert.NoError(t, err)
}

func TestOSRMGetRouteNoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": []}`))
	}))
	defer server.Close()

	provider := NewOSRMProvider(server.URL, 5*time.Second)

	_, err := provider.GetRoute(context.Background(), Point{}, Point{}, "driving")
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestOSRMGetRouteErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "message": "Impossible route between points"}`))
	}))
	defer server.Close()

	provider := NewOSRMProvider(server.URL, 5*time.Second)

	_, err := provider.GetRoute(context.Background(), Point{}, Point{}, "driving")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestOSRMGetRouteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOSRMProvider(server.URL, 5*time.Second)

	_, err := provider.GetRoute(context.Background(), Point{}, Point{}, "driving")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOSRMStepUnknownManeuverPreserved(t *testing.T) {
	step := decodeOSRMStep(osrmStep{
		Name:     "Somewhere",
		Distance: 100,
		Maneuver: osrmManeuver{Type: "exit rotary", Modifier: "left", Location: []float64{13.4, 52.5}},
	})

	assert.Equal(t, ManeuverOther, step.Maneuver)
	assert.Equal(t, "exit rotary", step.RawManeuver)
	assert.Equal(t, "left", step.Modifier)
}
