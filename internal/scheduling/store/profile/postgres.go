package profile

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

// Postgres persists profiles in PostgreSQL. Name uniqueness is enforced by the
// unique constraint so concurrent creates race safely.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func (s *Postgres) Create(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name) VALUES ($1, $2)
	`, p.ID, p.Name)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// FindByIDs resolves ids preserving the requested order; unknown ids are
// dropped. ANY() gives no ordering guarantee, so rows are reordered in Go.
func (s *Postgres) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return []*models.Profile{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM profiles WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]*models.Profile, len(ids))
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		found[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}

	out := make([]*models.Profile, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
