package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuditLogSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestAuditLogSuite(t *testing.T) {
	suite.Run(t, new(AuditLogSuite))
}

func (s *AuditLogSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *AuditLogSuite) TestAppendAssignsIdentityAndTimestamp() {
	eventID := uuid.New()
	before := time.Now()

	entry, err := s.store.Append(s.ctx, eventID, "End date/time updated")
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, entry.ID)
	s.Equal(eventID, entry.EventID)
	s.Equal("End date/time updated", entry.Message)
	s.False(entry.Timestamp.Before(before))
}

func (s *AuditLogSuite) TestListByEventNewestFirst() {
	eventID := uuid.New()
	clock := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, err := s.store.Append(s.ctx, eventID, "first")
	s.Require().NoError(err)
	_, err = s.store.Append(s.ctx, eventID, "second")
	s.Require().NoError(err)
	_, err = s.store.Append(s.ctx, eventID, "third")
	s.Require().NoError(err)

	entries, err := s.store.ListByEvent(s.ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("third", entries[0].Message)
	s.Equal("second", entries[1].Message)
	s.Equal("first", entries[2].Message)
}

func (s *AuditLogSuite) TestTimestampTiesBreakByAppendOrder() {
	eventID := uuid.New()
	frozen := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return frozen }

	_, err := s.store.Append(s.ctx, eventID, "older")
	s.Require().NoError(err)
	_, err = s.store.Append(s.ctx, eventID, "newer")
	s.Require().NoError(err)

	entries, err := s.store.ListByEvent(s.ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("newer", entries[0].Message)
	s.Equal("older", entries[1].Message)
}

func (s *AuditLogSuite) TestUnknownEventYieldsEmptySlice() {
	entries, err := s.store.ListByEvent(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *AuditLogSuite) TestEntriesIsolatedPerEvent() {
	a, b := uuid.New(), uuid.New()
	_, err := s.store.Append(s.ctx, a, "for a")
	s.Require().NoError(err)
	_, err = s.store.Append(s.ctx, b, "for b")
	s.Require().NoError(err)

	entries, err := s.store.ListByEvent(s.ctx, a)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("for a", entries[0].Message)
}
