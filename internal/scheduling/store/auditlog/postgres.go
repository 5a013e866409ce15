package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chronoplan/internal/scheduling/models"
)

// Postgres persists audit entries. The seq column breaks timestamp ties so
// reads are deterministic even when two appends land in the same microsecond.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, eventID uuid.UUID, message string) (*models.LogEntry, error) {
	entry := models.LogEntry{
		ID:        uuid.New(),
		EventID:   eventID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_logs (id, event_id, message, created_at) VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.EventID, entry.Message, entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert event log: %w", err)
	}
	return &entry, nil
}

// ListByEvent returns entries newest first. Unknown event ids yield an empty
// slice; there is no existence check against the events table on purpose, so
// entries survive their event's deletion.
func (s *Postgres) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, message, created_at
		FROM event_logs
		WHERE event_id = $1
		ORDER BY created_at DESC, seq DESC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}
	defer rows.Close()

	entries := []*models.LogEntry{}
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.EventID, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event log: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}
	return entries, nil
}
