package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"chronoplan/internal/scheduling/models"
	"chronoplan/pkg/platform/sentinel"
)

// Postgres persists events in PostgreSQL. Profile associations live in a join
// table keyed by position so display order survives the round trip.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, e *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, title, description, start_time, end_time, original_timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Title, e.Description, e.StartTime, e.EndTime, e.OriginalTimezone, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if err := insertProfileLinks(ctx, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create event: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]*models.Event, error) {
	query := `
		SELECT id, title, description, start_time, end_time, original_timezone, created_at, updated_at
		FROM events
	`
	args := []any{}
	if filter.ProfileID != uuid.Nil {
		query += ` WHERE id IN (SELECT event_id FROM event_profiles WHERE profile_id = $1)`
		args = append(args, filter.ProfileID)
	}
	query += ` ORDER BY start_time ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if err := s.attachProfiles(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, original_timezone, created_at, updated_at
		FROM events WHERE id = $1
	`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	if err := s.attachProfiles(ctx, []*models.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces all mutable fields and the profile set in one transaction so
// a half-swapped profile list is never observable. There is no version check;
// last write wins.
func (s *Postgres) Update(ctx context.Context, e *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, start_time = $4, end_time = $5, original_timezone = $6, updated_at = $7
		WHERE id = $1
	`, e.ID, e.Title, e.Description, e.StartTime, e.EndTime, e.OriginalTimezone, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_profiles WHERE event_id = $1`, e.ID); err != nil {
		return fmt.Errorf("clear event profiles: %w", err)
	}
	if err := insertProfileLinks(ctx, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update event: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func insertProfileLinks(ctx context.Context, tx *sql.Tx, e *models.Event) error {
	for i, p := range e.Profiles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event_profiles (event_id, profile_id, position) VALUES ($1, $2, $3)
		`, e.ID, p.ID, i)
		if err != nil {
			return fmt.Errorf("link event profile: %w", err)
		}
	}
	return nil
}

// attachProfiles resolves profile names for a batch of events in one query,
// ordered by stored position.
func (s *Postgres) attachProfiles(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(events))
	byID := make(map[uuid.UUID]*models.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
		e.Profiles = nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ep.event_id, p.id, p.name
		FROM event_profiles ep
		JOIN profiles p ON p.id = ep.profile_id
		WHERE ep.event_id = ANY($1)
		ORDER BY ep.event_id, ep.position
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load event profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID uuid.UUID
		var p models.Profile
		if err := rows.Scan(&eventID, &p.ID, &p.Name); err != nil {
			return fmt.Errorf("scan event profile: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.Profiles = append(e.Profiles, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load event profiles: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.OriginalTimezone, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	return &e, nil
}
