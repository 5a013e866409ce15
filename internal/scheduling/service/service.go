// Package service orchestrates event scheduling: wall-clock normalization,
// persistence, change detection, and the audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chronoplan/internal/platform/metrics"
	"chronoplan/internal/scheduling/models"
	"chronoplan/internal/scheduling/store/event"
	"chronoplan/internal/timezone"
	dErrors "chronoplan/pkg/domain-errors"
	"chronoplan/pkg/platform/sentinel"
)

type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	List(ctx context.Context, filter event.ListFilter) ([]*models.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	List(ctx context.Context) ([]*models.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Profile, error)
}

type AuditLog interface {
	Append(ctx context.Context, eventID uuid.UUID, message string) (*models.LogEntry, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.LogEntry, error)
}

type Normalizer interface {
	ToInstant(local, zone string) (time.Time, error)
	ToLocal(instant time.Time, zone string) (timezone.Local, error)
}

// Service orchestrates event and profile management.
type Service struct {
	events   EventStore
	profiles ProfileStore
	logs     AuditLog
	norm     Normalizer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a Service.
func New(events EventStore, profiles ProfileStore, logs AuditLog, norm Normalizer, opts ...Option) *Service {
	s := &Service{
		events:   events,
		profiles: profiles,
		logs:     logs,
		norm:     norm,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EventInput carries the full replacement field set for create and update.
// Start and end are wall-clock values interpreted in Timezone.
type EventInput struct {
	Title       string
	Description string
	StartLocal  string
	EndLocal    string
	Timezone    string
	ProfileIDs  []uuid.UUID
}

// CreateEvent normalizes the wall-clock input to UTC instants, resolves the
// profile set, and persists the event. The original timezone label is stored
// alongside the instants: UTC alone cannot reconstruct what the user typed.
//
// start <= end is NOT validated; inverted ranges are accepted as-is.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*models.Event, error) {
	start, end, err := s.normalizeRange(in)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveProfiles(ctx, in.ProfileIDs)
	if err != nil {
		return nil, err
	}

	e, err := models.NewEvent(uuid.New(), in.Title, in.Description, start, end, in.Timezone, resolved, s.now().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event")
	}

	s.incr(func(m *metrics.Metrics) { m.EventsCreated.Inc() })
	s.logger.InfoContext(ctx, "event created", "event_id", e.ID, "timezone", e.OriginalTimezone)
	return e, nil
}

// ListEvents returns events ordered by start instant ascending, optionally
// restricted to one profile. A zero profileID means no restriction.
func (s *Service) ListEvents(ctx context.Context, profileID uuid.UUID) ([]*models.Event, error) {
	events, err := s.events.List(ctx, event.ListFilter{ProfileID: profileID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events")
	}
	return events, nil
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load event")
	}
	return e, nil
}

// UpdateEvent replaces all mutable fields, diffs the stored snapshot against
// the proposal, and appends one audit entry per detected change.
//
// The entity update and the log appends are two sequential writes with no
// rollback: if an append fails the update is still committed, the failure is
// logged, and the caller sees the updated event.
func (s *Service) UpdateEvent(ctx context.Context, id uuid.UUID, in EventInput) (*models.Event, []*models.LogEntry, error) {
	previous, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	start, end, err := s.normalizeRange(in)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := s.resolveProfiles(ctx, in.ProfileIDs)
	if err != nil {
		return nil, nil, err
	}

	messages := detectChanges(previous, start, end, resolved)

	updated := *previous
	if err := updated.ApplyUpdate(in.Title, in.Description, start, end, in.Timezone, resolved, s.now().UTC()); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, nil, err
	}

	if err := s.events.Update(ctx, &updated); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update event")
	}
	s.incr(func(m *metrics.Metrics) { m.EventsUpdated.Inc() })

	entries := make([]*models.LogEntry, 0, len(messages))
	for _, msg := range messages {
		entry, err := s.logs.Append(ctx, updated.ID, msg)
		if err != nil {
			s.incr(func(m *metrics.Metrics) { m.AuditAppendFailed.Inc() })
			s.logger.ErrorContext(ctx, "audit append failed after committed update",
				"event_id", updated.ID,
				"message", msg,
				"error", err.Error(),
			)
			continue
		}
		s.incr(func(m *metrics.Metrics) { m.AuditEntriesWritten.Inc() })
		entries = append(entries, entry)
	}

	return &updated, entries, nil
}

// DeleteEvent removes the event. Its audit entries are orphaned, not deleted;
// a second delete of the same id reports NotFound.
func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete event")
	}
	s.incr(func(m *metrics.Metrics) { m.EventsDeleted.Inc() })
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

// GetEventLogs lists audit entries newest first. Unknown or deleted events
// yield an empty slice, never an error.
func (s *Service) GetEventLogs(ctx context.Context, eventID uuid.UUID) ([]*models.LogEntry, error) {
	entries, err := s.logs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list event logs")
	}
	return entries, nil
}

func (s *Service) CreateProfile(ctx context.Context, name string) (*models.Profile, error) {
	p, err := models.NewProfile(uuid.New(), name)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "profile already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	s.incr(func(m *metrics.Metrics) { m.ProfilesCreated.Inc() })
	s.logger.InfoContext(ctx, "profile created", "profile_id", p.ID)
	return p, nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return profiles, nil
}

func (s *Service) normalizeRange(in EventInput) (start, end time.Time, err error) {
	start, err = s.norm.ToInstant(in.StartLocal, in.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, translateTimezoneErr(err)
	}
	end, err = s.norm.ToInstant(in.EndLocal, in.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, translateTimezoneErr(err)
	}
	return start, end, nil
}

// resolveProfiles turns the requested id set into resolved profiles, keeping
// request order and deduplicating repeats. Every id must resolve.
func (s *Service) resolveProfiles(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one profile is required")
	}
	resolved, err := s.profiles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve profiles")
	}
	if len(resolved) != len(ids) {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown profile id")
	}
	out := make([]models.Profile, len(resolved))
	for i, p := range resolved {
		out[i] = *p
	}
	return out, nil
}

func translateTimezoneErr(err error) error {
	switch {
	case errors.Is(err, timezone.ErrInvalidTimezone):
		return dErrors.New(dErrors.CodeValidation, "unknown timezone")
	case errors.Is(err, timezone.ErrInvalidDateTime):
		return dErrors.New(dErrors.CodeValidation, "invalid date/time")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to normalize time")
	}
}

func (s *Service) incr(fn func(m *metrics.Metrics)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
