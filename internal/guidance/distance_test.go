package guidance

import (
	"testing"

	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/stretchr/testify/assert"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	p := routing.Point{Latitude: 52.52, Longitude: 13.405}

	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceSymmetry(t *testing.T) {
	a := routing.Point{Latitude: 52.52, Longitude: 13.405}
	b := routing.Point{Latitude: 48.8566, Longitude: 2.3522}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name       string
		a, b       routing.Point
		expectedM  float64
		toleranceM float64
	}{
		{
			name:       "berlin to paris",
			a:          routing.Point{Latitude: 52.52, Longitude: 13.405},
			b:          routing.Point{Latitude: 48.8566, Longitude: 2.3522},
			expectedM:  877460,
			toleranceM: 5000,
		},
		{
			name:       "one degree of latitude",
			a:          routing.Point{Latitude: 0, Longitude: 0},
			b:          routing.Point{Latitude: 1, Longitude: 0},
			expectedM:  111195,
			toleranceM: 10,
		},
		{
			name:       "city block",
			a:          routing.Point{Latitude: 52.5200, Longitude: 13.4050},
			b:          routing.Point{Latitude: 52.5209, Longitude: 13.4050},
			expectedM:  100,
			toleranceM: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expectedM, Distance(tt.a, tt.b), tt.toleranceM)
		})
	}
}

func TestDistanceNeverNegative(t *testing.T) {
	points := []routing.Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 0},
		{Latitude: 45, Longitude: 180},
		{Latitude: 45, Longitude: -180},
	}

	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, Distance(a, b), 0.0)
		}
	}
}
