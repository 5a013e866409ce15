// Package auditlog is the append-only ledger of human-readable event change
// records.
package auditlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chronoplan/internal/scheduling/models"
)

type stored struct {
	entry models.LogEntry
	seq   uint64
}

type InMemory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]stored
	seq     uint64
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		entries: make(map[uuid.UUID][]stored),
		now:     time.Now,
	}
}

// Append records one change message. The id and timestamp are assigned here,
// at append time; entries are never reordered or mutated afterwards.
func (s *InMemory) Append(_ context.Context, eventID uuid.UUID, message string) (*models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	entry := models.LogEntry{
		ID:        uuid.New(),
		EventID:   eventID,
		Message:   message,
		Timestamp: s.now(),
	}
	s.entries[eventID] = append(s.entries[eventID], stored{entry: entry, seq: s.seq})
	return &entry, nil
}

// ListByEvent returns entries newest first. Ties on the timestamp fall back to
// append order so the result is deterministic. Unknown event ids return an
// empty slice, not an error; deleted events leave their entries readable.
func (s *InMemory) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.entries[eventID]
	ordered := append([]stored(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].entry.Timestamp.Equal(ordered[j].entry.Timestamp) {
			return ordered[i].entry.Timestamp.After(ordered[j].entry.Timestamp)
		}
		return ordered[i].seq > ordered[j].seq
	})

	out := make([]*models.LogEntry, len(ordered))
	for i := range ordered {
		e := ordered[i].entry
		out[i] = &e
	}
	return out, nil
}
