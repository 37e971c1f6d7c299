package speech

// Announcer delivers a spoken announcement to whatever speech output is
// available. Delivery is fire-and-forget: there is no confirmation and no
// error surface, callers must not depend on the text being spoken.
type Announcer interface {
	Speak(text string)
}

// NoopAnnouncer discards all announcements. Used in tests and when speech
// output is disabled entirely.
type NoopAnnouncer struct{}

// NewNoopAnnouncer creates an announcer that does nothing
func NewNoopAnnouncer() *NoopAnnouncer {
	return &NoopAnnouncer{}
}

// Speak discards the text
func (a *NoopAnnouncer) Speak(text string) {}
