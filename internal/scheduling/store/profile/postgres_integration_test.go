//go:build integration

package profile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chronoplan/internal/scheduling/models"
	"chronoplan/internal/scheduling/store/profile"
	"chronoplan/pkg/platform/sentinel"
	"chronoplan/pkg/testutil/containers"
)

type PostgresProfileSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *profile.Postgres
}

func TestPostgresProfileSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresProfileSuite))
}

func (s *PostgresProfileSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = profile.NewPostgres(s.postgres.DB)
}

func (s *PostgresProfileSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"event_profiles", "event_logs", "events", "profiles")
	s.Require().NoError(err)
}

func (s *PostgresProfileSuite) create(name string) *models.Profile {
	p, err := models.NewProfile(uuid.New(), name)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), p))
	return p
}

func (s *PostgresProfileSuite) TestUniqueNameViolation() {
	ctx := context.Background()
	s.create("Alice")

	dup, err := models.NewProfile(uuid.New(), "Alice")
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(ctx, dup), sentinel.ErrConflict)

	// Different case is a different profile.
	lower, err := models.NewProfile(uuid.New(), "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, lower))
}

func (s *PostgresProfileSuite) TestListOrdersByName() {
	s.create("Charlie")
	s.create("Alice")
	s.create("Bob")

	profiles, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(profiles, 3)
	s.Equal("Alice", profiles[0].Name)
	s.Equal("Bob", profiles[1].Name)
	s.Equal("Charlie", profiles[2].Name)
}

func (s *PostgresProfileSuite) TestFindByIDsPreservesRequestOrder() {
	alice := s.create("Alice")
	bob := s.create("Bob")

	found, err := s.store.FindByIDs(context.Background(), []uuid.UUID{bob.ID, uuid.New(), alice.ID})
	s.Require().NoError(err)
	s.Require().Len(found, 2)
	s.Equal("Bob", found[0].Name)
	s.Equal("Alice", found[1].Name)
}
