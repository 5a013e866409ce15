package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chronoplan/internal/scheduling/models"
)

type ChangeDetectorSuite struct {
	suite.Suite
	alice models.Profile
	bob   models.Profile
	event *models.Event
}

func TestChangeDetectorSuite(t *testing.T) {
	suite.Run(t, new(ChangeDetectorSuite))
}

func (s *ChangeDetectorSuite) SetupTest() {
	s.alice = models.Profile{ID: uuid.New(), Name: "Alice"}
	s.bob = models.Profile{ID: uuid.New(), Name: "Bob"}

	start := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	e, err := models.NewEvent(uuid.New(), "Review", "quarterly", start, start.Add(time.Hour),
		"America/New_York", []models.Profile{s.alice}, time.Now())
	s.Require().NoError(err)
	s.event = e
}

func (s *ChangeDetectorSuite) TestNoChangesYieldsNothing() {
	messages := detectChanges(s.event, s.event.StartTime, s.event.EndTime, s.event.Profiles)
	s.Empty(messages)
}

func (s *ChangeDetectorSuite) TestStartChangeEmitsFixedNotice() {
	messages := detectChanges(s.event, s.event.StartTime.Add(time.Hour), s.event.EndTime, s.event.Profiles)
	s.Equal([]string{"End date/time updated"}, messages)
}

func (s *ChangeDetectorSuite) TestEndChangeEmitsFixedNotice() {
	messages := detectChanges(s.event, s.event.StartTime, s.event.EndTime.Add(30*time.Minute), s.event.Profiles)
	s.Equal([]string{"End date/time updated"}, messages)
}

func (s *ChangeDetectorSuite) TestProfileChangeNamesNewSet() {
	messages := detectChanges(s.event, s.event.StartTime, s.event.EndTime,
		[]models.Profile{s.alice, s.bob})
	s.Equal([]string{"Profiles changed to: Alice, Bob"}, messages)
}

func (s *ChangeDetectorSuite) TestProfileNamesFollowResolutionOrder() {
	messages := detectChanges(s.event, s.event.StartTime, s.event.EndTime,
		[]models.Profile{s.bob, s.alice})
	s.Equal([]string{"Profiles changed to: Bob, Alice"}, messages)
}

func (s *ChangeDetectorSuite) TestProfileReorderIsNotAChange() {
	s.event.Profiles = []models.Profile{s.alice, s.bob}
	messages := detectChanges(s.event, s.event.StartTime, s.event.EndTime,
		[]models.Profile{s.bob, s.alice})
	s.Empty(messages)
}

func (s *ChangeDetectorSuite) TestBothChangesKeepRuleOrder() {
	messages := detectChanges(s.event, s.event.StartTime.Add(time.Hour), s.event.EndTime,
		[]models.Profile{s.bob})
	s.Require().Len(messages, 2)
	s.Equal("End date/time updated", messages[0])
	s.Equal("Profiles changed to: Bob", messages[1])
}

// Instants are compared as absolute points in time, not as formatted strings:
// the same instant expressed with a different location is no change.
func (s *ChangeDetectorSuite) TestInstantComparisonIgnoresLocation() {
	paris, err := time.LoadLocation("Europe/Paris")
	s.Require().NoError(err)
	sameStart := s.event.StartTime.In(paris)
	sameEnd := s.event.EndTime.In(paris)

	messages := detectChanges(s.event, sameStart, sameEnd, s.event.Profiles)
	s.Empty(messages)
}
