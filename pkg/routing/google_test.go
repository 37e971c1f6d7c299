package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGoogleManeuver(t *testing.T) {
	tests := []struct {
		raw              string
		first            bool
		expectedManeuver ManeuverType
		expectedModifier string
	}{
		{"", true, ManeuverDepart, ""},
		{"", false, ManeuverContinue, ""},
		{"turn-left", false, ManeuverTurn, "left"},
		{"turn-right", false, ManeuverTurn, "right"},
		{"turn-slight-left", false, ManeuverTurn, "slight left"},
		{"turn-sharp-right", false, ManeuverTurn, "sharp right"},
		{"uturn-left", false, ManeuverTurn, "uturn"},
		{"merge", false, ManeuverMerge, ""},
		{"merge-right", false, ManeuverMerge, "right"},
		{"ramp-left", false, ManeuverOnRamp, "left"},
		{"fork-right", false, ManeuverFork, "right"},
		{"keep-left", false, ManeuverFork, "left"},
		{"keep-right", false, ManeuverFork, "right"},
		{"roundabout-right", false, ManeuverRoundabout, "right"},
		{"straight", false, ManeuverContinue, "straight"},
		{"ferry", false, ManeuverOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			maneuver, modifier := parseGoogleManeuver(tt.raw, tt.first)

			assert.Equal(t, tt.expectedManeuver, maneuver)
			assert.Equal(t, tt.expectedModifier, modifier)
		})
	}
}

func TestRoadNameFromInstructions(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "onto road",
			html:     `Turn <b>left</b> onto <b>Friedrichstraße</b>`,
			expected: "Friedrichstraße",
		},
		{
			name:     "toward clause stripped",
			html:     `Merge onto <b>A100</b> toward <b>Hamburg</b>`,
			expected: "A100",
		},
		{
			name:     "no road mentioned",
			html:     `Make a <b>U-turn</b>`,
			expected: "",
		},
		{
			name:     "empty",
			html:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, roadNameFromInstructions(tt.html))
		})
	}
}
