// Package event persists scheduled events. The in-memory implementation keeps
// local development and tests free of external services; it intentionally
// favors clarity over performance.
package event

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"chronoplan/internal/scheduling/models"
	"chronoplan/pkg/platform/sentinel"
)

// ListFilter narrows List results. A zero ProfileID means no restriction.
type ListFilter struct {
	ProfileID uuid.UUID
}

type InMemory struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*models.Event
}

func NewInMemory() *InMemory {
	return &InMemory{events: make(map[uuid.UUID]*models.Event)}
}

func (s *InMemory) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = clone(e)
	return nil
}

// List returns events ordered by start instant ascending regardless of
// insertion order.
func (s *InMemory) List(_ context.Context, filter ListFilter) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.ProfileID != uuid.Nil && !references(e, filter.ProfileID) {
			continue
		}
		out = append(out, clone(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.events[id]; ok {
		return clone(e), nil
	}
	return nil, sentinel.ErrNotFound
}

// Update replaces the stored event wholesale. Last write wins; there is no
// version check.
func (s *InMemory) Update(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.events[e.ID] = clone(e)
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func references(e *models.Event, profileID uuid.UUID) bool {
	for _, p := range e.Profiles {
		if p.ID == profileID {
			return true
		}
	}
	return false
}

// clone guards the map against aliasing through returned pointers.
func clone(e *models.Event) *models.Event {
	c := *e
	c.Profiles = append([]models.Profile(nil), e.Profiles...)
	return &c
}
