package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "chronoplan/pkg/domain-errors"
)

// Event is the aggregate root for a scheduled event.
//
// Invariants:
//   - Title is non-empty after trimming
//   - StartTime and EndTime are absolute UTC instants; the original wall-clock
//     entry is only recoverable through OriginalTimezone
//   - Profiles is non-empty and every entry is a resolved Profile, never a raw
//     id (mixed representations are not allowed anywhere in the core)
//   - Profiles keeps insertion order for stable display
//   - CreatedAt is immutable after construction; UpdatedAt refreshes on every
//     mutation
//
// StartTime <= EndTime is NOT enforced: inverted ranges are stored as-is and
// callers must not assume ordering.
type Event struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	OriginalTimezone string    `json:"original_timezone"`
	Profiles         []Profile `json:"profiles"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent validates invariants and stamps store-owned fields.
func NewEvent(id uuid.UUID, title, description string, start, end time.Time, zone string, profiles []Profile, now time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "event title cannot be empty")
	}
	if len(profiles) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "event requires at least one profile")
	}
	if zone == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "event requires its original timezone")
	}
	return &Event{
		ID:               id,
		Title:            title,
		Description:      description,
		StartTime:        start.UTC(),
		EndTime:          end.UTC(),
		OriginalTimezone: zone,
		Profiles:         profiles,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ProfileIDs returns the ids of the associated profiles in display order.
func (e *Event) ProfileIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(e.Profiles))
	for i, p := range e.Profiles {
		ids[i] = p.ID
	}
	return ids
}

// ApplyUpdate replaces all caller-mutable fields atomically and refreshes
// UpdatedAt. Validation mirrors NewEvent.
func (e *Event) ApplyUpdate(title, description string, start, end time.Time, zone string, profiles []Profile, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "event title cannot be empty")
	}
	if len(profiles) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "event requires at least one profile")
	}
	if zone == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "event requires its original timezone")
	}
	e.Title = title
	e.Description = description
	e.StartTime = start.UTC()
	e.EndTime = end.UTC()
	e.OriginalTimezone = zone
	e.Profiles = profiles
	e.UpdatedAt = now
	return nil
}
