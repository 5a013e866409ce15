// Package profile persists the named entities events reference.
package profile

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"chronoplan/internal/scheduling/models"
	"chronoplan/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]models.Profile
	byName   map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		profiles: make(map[uuid.UUID]models.Profile),
		byName:   make(map[string]uuid.UUID),
	}
}

// Create rejects duplicate names. The match is case-sensitive and exact:
// "Alice" and "alice" are two different profiles.
func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[p.Name]; taken {
		return sentinel.ErrConflict
	}
	s.profiles[p.ID] = *p
	s.byName[p.Name] = p.ID
	return nil
}

// List returns all profiles ordered by name ascending.
func (s *InMemory) List(_ context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		c := p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByIDs resolves ids in the order they were requested. Unknown ids are
// silently dropped rather than reported; callers that need full resolution
// compare lengths.
func (s *InMemory) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			c := p
			out = append(out, &c)
		}
	}
	return out, nil
}
