package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chronoplan/internal/scheduling/models"
	"chronoplan/pkg/platform/sentinel"
)

type ProfileStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestProfileStoreSuite(t *testing.T) {
	suite.Run(t, new(ProfileStoreSuite))
}

func (s *ProfileStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ProfileStoreSuite) create(name string) *models.Profile {
	p, err := models.NewProfile(uuid.New(), name)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, p))
	return p
}

func (s *ProfileStoreSuite) TestNameUniqueness() {
	s.Run("rejects exact duplicate name", func() {
		s.create("Alice")
		dup, err := models.NewProfile(uuid.New(), "Alice")
		s.Require().NoError(err)
		s.Require().ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)
	})

	s.Run("name comparison is case-sensitive", func() {
		s.create("Bob")
		lower, err := models.NewProfile(uuid.New(), "bob")
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, lower))
	})
}

func (s *ProfileStoreSuite) TestListOrdersByName() {
	s.create("Charlie")
	s.create("Alice")
	s.create("Bob")

	profiles, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 3)
	s.Equal("Alice", profiles[0].Name)
	s.Equal("Bob", profiles[1].Name)
	s.Equal("Charlie", profiles[2].Name)
}

func (s *ProfileStoreSuite) TestFindByIDs() {
	alice := s.create("Alice")
	bob := s.create("Bob")

	s.Run("preserves requested order", func() {
		profiles, err := s.store.FindByIDs(s.ctx, []uuid.UUID{bob.ID, alice.ID})
		s.Require().NoError(err)
		s.Require().Len(profiles, 2)
		s.Equal("Bob", profiles[0].Name)
		s.Equal("Alice", profiles[1].Name)
	})

	s.Run("drops unknown ids silently", func() {
		profiles, err := s.store.FindByIDs(s.ctx, []uuid.UUID{alice.ID, uuid.New()})
		s.Require().NoError(err)
		s.Require().Len(profiles, 1)
		s.Equal("Alice", profiles[0].Name)
	})

	s.Run("empty input yields empty result", func() {
		profiles, err := s.store.FindByIDs(s.ctx, nil)
		s.Require().NoError(err)
		s.Empty(profiles)
	})
}
