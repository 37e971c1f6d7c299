package speech

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMaxEntries bounds the queue file when no limit is configured
const DefaultMaxEntries = 20

// QueueEntry is one pending announcement in the speech queue file
type QueueEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// QueueAnnouncer appends announcements to a JSON queue file that the shell's
// speech daemon polls, speaks, and truncates. The file is guarded by an
// advisory lock so the daemon and this process never interleave writes.
type QueueAnnouncer struct {
	queuePath  string
	maxEntries int
	lock       *flock.Flock
	logger     *logrus.Logger
}

// NewQueueAnnouncer creates a file-queue announcer writing to queuePath.
// The parent directory is created on first use.
func NewQueueAnnouncer(queuePath string, maxEntries int, logger *logrus.Logger) *QueueAnnouncer {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &QueueAnnouncer{
		queuePath:  queuePath,
		maxEntries: maxEntries,
		lock:       flock.New(queuePath + ".lock"),
		logger:     logger,
	}
}

// Speak appends the text to the queue file. Failures are logged and
// swallowed: speech delivery is best-effort and must never fail navigation.
func (a *QueueAnnouncer) Speak(text string) {
	if text == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(a.queuePath), 0o755); err != nil {
		a.logger.WithError(err).Warn("Failed to create speech queue directory")
		return
	}

	if err := a.lock.Lock(); err != nil {
		a.logger.WithError(err).Warn("Failed to lock speech queue")
		return
	}
	defer a.lock.Unlock()

	entries := a.readQueue()
	entries = append(entries, QueueEntry{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})

	// Drop oldest entries when the daemon falls behind
	if len(entries) > a.maxEntries {
		entries = entries[len(entries)-a.maxEntries:]
	}

	if err := a.writeQueue(entries); err != nil {
		a.logger.WithError(err).Warn("Failed to write speech queue")
		return
	}

	a.logger.WithFields(logrus.Fields{
		"text":    text,
		"pending": len(entries),
	}).Debug("Queued speech announcement")
}

// readQueue loads the current queue, treating a missing or corrupt file as empty
func (a *QueueAnnouncer) readQueue() []QueueEntry {
	data, err := os.ReadFile(a.queuePath)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.WithError(err).Warn("Failed to read speech queue")
		}
		return nil
	}

	var entries []QueueEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		a.logger.WithError(err).Warn("Speech queue file is corrupt, starting fresh")
		return nil
	}

	return entries
}

// writeQueue replaces the queue file atomically via a temp file rename
func (a *QueueAnnouncer) writeQueue(entries []QueueEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := a.queuePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpPath, a.queuePath)
}
