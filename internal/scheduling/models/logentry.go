package models

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is one human-readable change record for an event. Entries are
// written only as a side effect of an update that produced detected changes,
// and are never mutated afterwards. Deleting an event orphans its entries
// rather than cascading; log reads for unknown events simply come back empty.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
