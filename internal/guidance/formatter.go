package guidance

import (
	"fmt"
	"strings"

	"github.com/flickmobile/navigation-backend/pkg/routing"
)

// SpokenInstruction builds the full spoken instruction for a step.
// Missing fields degrade to sensible defaults; the result never contains
// placeholder text like "undefined".
func SpokenInstruction(step routing.Step) string {
	road := strings.TrimSpace(step.RoadName)
	modifier := strings.TrimSpace(step.Modifier)

	switch step.Maneuver {
	case routing.ManeuverDepart:
		direction := modifier
		if direction == "" {
			direction = "forward"
		}
		return "Start by heading " + direction + onRoad(road)

	case routing.ManeuverArrive:
		side := strings.ToLower(modifier)
		switch {
		case strings.Contains(side, "left"):
			return "Your destination is on the left"
		case strings.Contains(side, "right"):
			return "Your destination is on the right"
		default:
			return "You have arrived at your destination"
		}

	case routing.ManeuverTurn:
		return "Turn " + orAhead(modifier) + ontoRoad(road)

	case routing.ManeuverMerge:
		return "Merge " + orAhead(modifier) + ontoRoad(road)

	case routing.ManeuverOnRamp, routing.ManeuverOffRamp:
		return "Take the ramp " + orAhead(modifier)

	case routing.ManeuverFork:
		return "Keep " + orAhead(modifier) + " at the fork"

	case routing.ManeuverEndOfRoad:
		return "At the end of the road, turn " + orAhead(modifier)

	case routing.ManeuverContinue:
		direction := modifier
		if direction == "" {
			direction = "straight"
		}
		return "Continue " + direction + onRoad(road)

	case routing.ManeuverRoundabout:
		return fmt.Sprintf("At the roundabout, take exit %d", exitNumber(step))

	case routing.ManeuverRotary:
		return fmt.Sprintf("At the rotary, take exit %d", exitNumber(step))

	case routing.ManeuverNewName:
		if road == "" {
			road = "the road"
		}
		return "Continue onto " + road

	case routing.ManeuverNotification:
		return strings.TrimSpace(step.Text)

	default:
		if modifier == "" {
			return "Continue"
		}
		return capitalize(modifier) + ontoRoad(road)
	}
}

// ShortLabel builds the compact glyph+word label shown as the next-maneuver
// preview. Substring matching on the modifier keeps compound modifiers like
// "slight left" resolving to the base direction.
func ShortLabel(step routing.Step) string {
	switch step.Maneuver {
	case routing.ManeuverArrive:
		return "⚑ Arrive"
	case routing.ManeuverRoundabout, routing.ManeuverRotary:
		return "↻ Roundabout"
	}

	modifier := strings.ToLower(step.Modifier)
	switch {
	case strings.Contains(modifier, "left"):
		return "← Turn left"
	case strings.Contains(modifier, "right"):
		return "→ Turn right"
	default:
		return "↑ Continue"
	}
}

// onRoad renders " on {road}" or nothing
func onRoad(road string) string {
	if road == "" {
		return ""
	}
	return " on " + road
}

// ontoRoad renders " onto {road}" or nothing
func ontoRoad(road string) string {
	if road == "" {
		return ""
	}
	return " onto " + road
}

// orAhead substitutes "ahead" for a missing direction modifier
func orAhead(modifier string) string {
	if modifier == "" {
		return "ahead"
	}
	return modifier
}

func exitNumber(step routing.Step) int {
	if step.Exit <= 0 {
		return 1
	}
	return step.Exit
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
