//go:build integration

package auditlog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chronoplan/internal/scheduling/store/auditlog"
	"chronoplan/pkg/testutil/containers"
)

type PostgresAuditLogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditlog.Postgres
}

func TestPostgresAuditLogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditLogSuite))
}

func (s *PostgresAuditLogSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = auditlog.NewPostgres(s.postgres.DB)
}

func (s *PostgresAuditLogSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"event_profiles", "event_logs", "events", "profiles")
	s.Require().NoError(err)
}

func (s *PostgresAuditLogSuite) TestAppendAndListNewestFirst() {
	ctx := context.Background()
	eventID := uuid.New()

	for _, msg := range []string{"first", "second", "third"} {
		_, err := s.store.Append(ctx, eventID, msg)
		s.Require().NoError(err)
	}

	entries, err := s.store.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("third", entries[0].Message)
	s.Equal("second", entries[1].Message)
	s.Equal("first", entries[2].Message)
}

// Entries reference the event id only; no foreign key means they survive any
// event deletion and unknown ids read back empty.
func (s *PostgresAuditLogSuite) TestUnknownEventReadsEmpty() {
	entries, err := s.store.ListByEvent(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PostgresAuditLogSuite) TestEntriesIsolatedPerEvent() {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := s.store.Append(ctx, a, "for a")
	s.Require().NoError(err)
	_, err = s.store.Append(ctx, b, "for b")
	s.Require().NoError(err)

	entries, err := s.store.ListByEvent(ctx, a)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("for a", entries[0].Message)
}
