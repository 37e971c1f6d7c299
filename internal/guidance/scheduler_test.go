package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleAnnouncementLadder(t *testing.T) {
	// Approach sequence from far out: only the 500 rung and the 200 rung fire
	marker := float64(MarkerNone)

	// Far outside the ladder: nothing fires
	prefix, fired := ScheduleAnnouncement(800, marker)
	assert.False(t, fired)
	assert.Empty(t, prefix)

	// Crosses the 500 rung
	prefix, fired = ScheduleAnnouncement(480, marker)
	assert.True(t, fired)
	assert.Equal(t, "In 0.5 kilometers, ", prefix)
	marker = 480

	// Still above the 200 rung, 500 already consumed
	_, fired = ScheduleAnnouncement(450, marker)
	assert.False(t, fired)

	// Crosses the 200 rung
	prefix, fired = ScheduleAnnouncement(190, marker)
	assert.True(t, fired)
	assert.Equal(t, "In 190 meters, ", prefix)
	marker = 190

	// Crosses the 100 rung
	prefix, fired = ScheduleAnnouncement(95, marker)
	assert.True(t, fired)
	assert.Equal(t, "In 95 meters, ", prefix)
	marker = 95

	// Crosses the 50 rung
	prefix, fired = ScheduleAnnouncement(40, marker)
	assert.True(t, fired)
	assert.Equal(t, "In 40 meters, ", prefix)
	marker = 40

	// Nothing left to fire
	_, fired = ScheduleAnnouncement(35, marker)
	assert.False(t, fired)
}

func TestScheduleAnnouncementSkipsToLowestCrossedRung(t *testing.T) {
	// A position jump from far out to 80 m fires exactly one announcement,
	// for the largest rung the distance is below
	prefix, fired := ScheduleAnnouncement(80, MarkerNone)

	assert.True(t, fired)
	assert.Equal(t, "In 0.1 kilometers, ", prefix)
}

func TestScheduleAnnouncementRungFiresOnce(t *testing.T) {
	// Once a rung fired, hovering just below it never re-fires
	marker := 480.0

	for _, d := range []float64{479, 470, 460, 455} {
		_, fired := ScheduleAnnouncement(d, marker)
		assert.False(t, fired, "distance %.0f should not re-fire the 500 rung", d)
	}
}

func TestScheduleAnnouncementKilometerUnit(t *testing.T) {
	tests := []struct {
		distanceM float64
		marker    float64
		expected  string
	}{
		{499, MarkerNone, "In 0.5 kilometers, "},
		{260, MarkerNone, "In 0.3 kilometers, "},
		{199, 480, "In 199 meters, "},
		{49, 60, "In 49 meters, "},
	}

	for _, tt := range tests {
		prefix, fired := ScheduleAnnouncement(tt.distanceM, tt.marker)
		assert.True(t, fired)
		assert.Equal(t, tt.expected, prefix)
	}
}
