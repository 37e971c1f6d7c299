package guidance

import "fmt"

// MarkerNone is the last-spoken marker value meaning nothing has been
// announced for the current step yet.
const MarkerNone = -1

// announceThresholds is the distance ladder, largest first. A rung fires
// exactly once as the distance crosses below it; at most one rung fires per
// position update even when a jump skips several rungs at once.
var announceThresholds = []float64{500, 200, 100, 50}

// ScheduleAnnouncement decides whether a distance announcement fires for the
// current distance to the next maneuver. marker is the distance at which the
// previous announcement fired, or MarkerNone.
//
// Returns the spoken prefix ("In 190 meters, ") and whether a rung fired.
// After a fire the caller stores the current distance as the new marker, not
// the rung value, so re-arming follows the actual approach.
func ScheduleAnnouncement(distanceM, marker float64) (prefix string, fired bool) {
	for _, threshold := range announceThresholds {
		if distanceM < threshold && (marker == MarkerNone || marker >= threshold) {
			return announcementPrefix(distanceM, threshold), true
		}
	}
	return "", false
}

// announcementPrefix picks the unit from the fired rung: rungs of 500 m and
// above speak kilometers with one decimal, smaller rungs whole meters.
func announcementPrefix(distanceM, threshold float64) string {
	if threshold >= 500 {
		return fmt.Sprintf("In %.1f kilometers, ", distanceM/1000)
	}
	return fmt.Sprintf("In %d meters, ", int(distanceM))
}
