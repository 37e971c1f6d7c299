package guidance

import (
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/flickmobile/navigation-backend/pkg/speech"
)

// DefaultAdvanceRadiusM is the distance to a maneuver below which the
// tracker advances to the next step
const DefaultAdvanceRadiusM = 30.0

// Update describes the outcome of one position tick
type Update struct {
	Active             bool    `json:"active"`
	StepIndex          int     `json:"step_index"`
	Instruction        string  `json:"instruction"`
	ShortLabel         string  `json:"short_label"`
	DistanceM          float64 `json:"distance_to_maneuver_m"`
	Announced          string  `json:"announced,omitempty"`
	InstructionChanged bool    `json:"instruction_changed"`
	Arrived            bool    `json:"arrived"`
}

// Tracker owns the guidance state of one active route: the flattened step
// list, the current step index, and the last-spoken distance marker. It is
// not safe for concurrent use; the owning session serializes access.
type Tracker struct {
	steps          []routing.Step
	index          int
	active         bool
	marker         float64
	voice          bool
	advanceRadiusM float64
	announcer      speech.Announcer
	instruction    string
	shortLabel     string
}

// NewTracker starts guidance for a route. The first instruction is announced
// immediately as the "starting navigation" announcement, regardless of
// distance. A route with no steps returns routing.ErrEmptyRoute.
func NewTracker(route *routing.Route, announcer speech.Announcer, voiceEnabled bool, advanceRadiusM float64) (*Tracker, error) {
	steps := route.Steps()
	if len(steps) == 0 {
		return nil, routing.ErrEmptyRoute
	}

	if advanceRadiusM <= 0 {
		advanceRadiusM = DefaultAdvanceRadiusM
	}

	t := &Tracker{
		steps:          steps,
		index:          0,
		active:         true,
		marker:         MarkerNone,
		voice:          voiceEnabled,
		advanceRadiusM: advanceRadiusM,
		announcer:      announcer,
		instruction:    SpokenInstruction(steps[0]),
		shortLabel:     ShortLabel(steps[0]),
	}

	t.announce(t.instruction)

	return t, nil
}

// UpdatePosition runs one guidance tick for a new position. Step advancement
// preempts the threshold ladder: at most one announcement happens per tick.
func (t *Tracker) UpdatePosition(pos routing.Point) Update {
	if !t.active {
		return Update{Active: false}
	}

	distance := Distance(pos, t.steps[t.index].Location)

	if distance < t.advanceRadiusM {
		if t.index+1 < len(t.steps) {
			return t.advanceStep(pos)
		}
		return t.finish()
	}

	update := t.currentUpdate(distance)

	if prefix, fired := ScheduleAnnouncement(distance, t.marker); fired {
		// Marker takes the exact current distance, not the rung value,
		// so the ladder re-arms against the actual approach
		t.marker = distance
		update.Announced = t.announce(prefix + t.instruction)
	}

	return update
}

// advanceStep moves to the next step and announces its instruction
// immediately, bypassing the threshold ladder for this tick
func (t *Tracker) advanceStep(pos routing.Point) Update {
	t.index++
	t.marker = MarkerNone
	t.instruction = SpokenInstruction(t.steps[t.index])
	t.shortLabel = ShortLabel(t.steps[t.index])

	update := t.currentUpdate(Distance(pos, t.steps[t.index].Location))
	update.InstructionChanged = true
	update.Announced = t.announce(t.instruction)

	return update
}

// finish ends guidance at the last step: one final arrival announcement,
// then the tracker goes inactive and further updates are no-ops
func (t *Tracker) finish() Update {
	t.active = false

	return Update{
		Active:    false,
		StepIndex: t.index,
		Arrived:   true,
		Announced: t.announce(t.instruction),
	}
}

// Stop deactivates guidance without an arrival announcement
func (t *Tracker) Stop() {
	t.active = false
}

// SetVoiceEnabled toggles voice output. Scheduler state keeps updating while
// voice is off; only the speak calls are suppressed.
func (t *Tracker) SetVoiceEnabled(enabled bool) {
	t.voice = enabled
}

// VoiceEnabled reports whether voice output is on
func (t *Tracker) VoiceEnabled() bool {
	return t.voice
}

// Active reports whether guidance is running
func (t *Tracker) Active() bool {
	return t.active
}

// StepIndex returns the current 0-based step index
func (t *Tracker) StepIndex() int {
	return t.index
}

// StepCount returns the number of steps on the route
func (t *Tracker) StepCount() int {
	return len(t.steps)
}

// Instruction returns the current full spoken instruction
func (t *Tracker) Instruction() string {
	return t.instruction
}

// ShortLabel returns the current short preview label
func (t *Tracker) ShortLabel() string {
	return t.shortLabel
}

// DistanceTo returns the distance from pos to the current maneuver location
func (t *Tracker) DistanceTo(pos routing.Point) float64 {
	if !t.active {
		return 0
	}
	return Distance(pos, t.steps[t.index].Location)
}

func (t *Tracker) currentUpdate(distance float64) Update {
	return Update{
		Active:      true,
		StepIndex:   t.index,
		Instruction: t.instruction,
		ShortLabel:  t.shortLabel,
		DistanceM:   distance,
	}
}

// announce speaks the text when voice is enabled and returns what was spoken
func (t *Tracker) announce(text string) string {
	if !t.voice || text == "" {
		return ""
	}
	t.announcer.Speak(text)
	return text
}
