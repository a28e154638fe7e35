package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campushub/internal/registration/models"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreateEvent() {
	event, err := s.service.CreateEvent(context.Background(), &models.CreateEventRequest{
		Title:    "Photography Walk",
		Club:     "Photography Club",
		Category: "Arts",
		Date:     s.clock.Add(48 * time.Hour).Format(time.RFC3339),
		Venue:    "Campus Lake",
		Capacity: 25,
	})
	s.Require().NoError(err)
	s.False(event.ID.IsNil())
	s.Equal(0, event.Registered)
	s.Equal(models.EventUpcoming, event.Status(s.clock))

	found, err := s.service.GetEvent(context.Background(), event.ID)
	s.Require().NoError(err)
	s.Equal(event.Title, found.Title)
}

func (s *ServiceSuite) TestCreateEvent_BadDate() {
	_, err := s.service.CreateEvent(context.Background(), &models.CreateEventRequest{
		Title:    "Photography Walk",
		Club:     "Photography Club",
		Category: "Arts",
		Date:     "next tuesday",
		Venue:    "Campus Lake",
		Capacity: 25,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestListEvents_OrderedByDate() {
	late := s.seedEvent(10)
	earlyID := id.EventID(uuid.New())
	err := s.events.Save(context.Background(), &models.Event{
		ID:       earlyID,
		Title:    "Debate Night",
		Club:     "Debate Society",
		Category: "Literary",
		Date:     s.clock.Add(24 * time.Hour),
		Venue:    "Seminar Hall",
		Capacity: 30,
	})
	s.Require().NoError(err)

	events, err := s.service.ListEvents(context.Background())
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(earlyID, events[0].ID)
	s.Equal(late, events[1].ID)
}

func (s *ServiceSuite) TestGetEvent_NotFound() {
	_, err := s.service.GetEvent(context.Background(), id.EventID(uuid.New()))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListClubs() {
	err := s.events.SaveClub(context.Background(), &models.Club{
		ID: id.ClubID(uuid.New()), Name: "Robotics Club", Category: "Technical", Members: 120,
	})
	s.Require().NoError(err)

	clubs, err := s.service.ListClubs(context.Background())
	s.Require().NoError(err)
	s.Require().Len(clubs, 1)
	s.Equal("Robotics Club", clubs[0].Name)
}

func (s *ServiceSuite) TestListByEvent_RequiresEvent() {
	_, err := s.service.ListByEvent(context.Background(), id.EventID(uuid.New()))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListByEvent_ArrivalOrder() {
	eventID := s.seedEvent(5)
	first := s.register(eventID, "alex.morgan")
	s.clock = s.clock.Add(time.Minute)
	second := s.register(eventID, "priya.patel")

	regs, err := s.service.ListByEvent(context.Background(), eventID)
	s.Require().NoError(err)
	s.Require().Len(regs, 2)
	s.Equal(first.ID, regs[0].ID)
	s.Equal(second.ID, regs[1].ID)
}

func (s *ServiceSuite) TestListByStudent() {
	eventA := s.seedEvent(5)
	eventB := s.seedEvent(5)
	studentID := id.StudentID(uuid.New())

	_, err := s.service.Register(context.Background(), eventA, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().NoError(err)
	s.clock = s.clock.Add(time.Minute)
	_, err = s.service.Register(context.Background(), eventB, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().NoError(err)

	regs, err := s.service.ListByStudent(context.Background(), studentID)
	s.Require().NoError(err)
	s.Require().Len(regs, 2)
	s.Equal(eventA, regs[0].EventID)
	s.Equal(eventB, regs[1].EventID)
}

func (s *ServiceSuite) TestPendingRegistrations_OldestFirst() {
	s.expectDelivery()
	eventID := s.seedEvent(5)
	first := s.register(eventID, "alex.morgan")
	s.clock = s.clock.Add(time.Minute)
	second := s.register(eventID, "priya.patel")

	_, err := s.service.Approve(context.Background(), first.ID)
	s.Require().NoError(err)

	pending, err := s.service.PendingRegistrations(context.Background())
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ID, pending[0].ID)
}
