package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chronoplan/internal/scheduling/models"
	"chronoplan/pkg/platform/sentinel"
)

type EventStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestEventStoreSuite(t *testing.T) {
	suite.Run(t, new(EventStoreSuite))
}

func (s *EventStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *EventStoreSuite) newEvent(title string, start time.Time, profiles ...models.Profile) *models.Event {
	if len(profiles) == 0 {
		profiles = []models.Profile{{ID: uuid.New(), Name: "Someone"}}
	}
	e, err := models.NewEvent(uuid.New(), title, "", start, start.Add(time.Hour), "UTC", profiles, time.Now())
	s.Require().NoError(err)
	return e
}

func (s *EventStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds event by ID", func() {
		e := s.newEvent("Standup", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, e))

		found, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal(e.Title, found.Title)
		s.Equal(e.OriginalTimezone, found.OriginalTimezone)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned events do not alias the stored copy", func() {
		e := s.newEvent("Aliasing", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, e))

		found, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		found.Title = "mutated"
		found.Profiles[0].Name = "mutated"

		again, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal("Aliasing", again.Title)
		s.NotEqual("mutated", again.Profiles[0].Name)
	})
}

func (s *EventStoreSuite) TestListOrdering() {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	late := s.newEvent("Late", base.Add(48*time.Hour))
	early := s.newEvent("Early", base)
	middle := s.newEvent("Middle", base.Add(24*time.Hour))

	// Insert out of order on purpose.
	s.Require().NoError(s.store.Create(s.ctx, late))
	s.Require().NoError(s.store.Create(s.ctx, early))
	s.Require().NoError(s.store.Create(s.ctx, middle))

	events, err := s.store.List(s.ctx, ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal("Early", events[0].Title)
	s.Equal("Middle", events[1].Title)
	s.Equal("Late", events[2].Title)
}

func (s *EventStoreSuite) TestListFilterByProfile() {
	alice := models.Profile{ID: uuid.New(), Name: "Alice"}
	bob := models.Profile{ID: uuid.New(), Name: "Bob"}

	aliceOnly := s.newEvent("Alice only", time.Now(), alice)
	both := s.newEvent("Both", time.Now().Add(time.Hour), alice, bob)
	bobOnly := s.newEvent("Bob only", time.Now().Add(2*time.Hour), bob)

	for _, e := range []*models.Event{aliceOnly, both, bobOnly} {
		s.Require().NoError(s.store.Create(s.ctx, e))
	}

	events, err := s.store.List(s.ctx, ListFilter{ProfileID: alice.ID})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("Alice only", events[0].Title)
	s.Equal("Both", events[1].Title)
}

func (s *EventStoreSuite) TestUpdates() {
	s.Run("persists replacements", func() {
		e := s.newEvent("Before", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, e))

		e.Title = "After"
		s.Require().NoError(s.store.Update(s.ctx, e))

		found, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal("After", found.Title)
	})

	s.Run("returns ErrNotFound for non-existent event", func() {
		e := s.newEvent("Ghost", time.Now())
		s.Require().ErrorIs(s.store.Update(s.ctx, e), sentinel.ErrNotFound)
	})
}

func (s *EventStoreSuite) TestDelete() {
	e := s.newEvent("Doomed", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, e))

	s.Require().NoError(s.store.Delete(s.ctx, e.ID))

	// A second delete reports not found rather than silently succeeding.
	s.Require().ErrorIs(s.store.Delete(s.ctx, e.ID), sentinel.ErrNotFound)

	_, err := s.store.FindByID(s.ctx, e.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
