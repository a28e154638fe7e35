package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campushub/internal/registration/models"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

func (s *ServiceSuite) TestRegister_SeatFree() {
	eventID := s.seedEvent(2)

	reg := s.register(eventID, "alex.morgan")

	s.Equal(models.StatusPending, reg.Status)
	s.Equal(1, s.eventState(eventID).Registered)
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestRegister_FullEventWaitlists() {
	eventID := s.seedEvent(1)

	first := s.register(eventID, "alex.morgan")
	second := s.register(eventID, "priya.patel")

	s.Equal(models.StatusPending, first.Status)
	s.Equal(models.StatusWaitlist, second.Status)
	s.Equal(1, s.eventState(eventID).Registered, "waitlist entries hold no seat")
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestRegister_DuplicateRejected() {
	eventID := s.seedEvent(5)
	studentID := id.StudentID(uuid.New())

	_, err := s.service.Register(context.Background(), eventID, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().NoError(err)

	_, err = s.service.Register(context.Background(), eventID, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(1, s.eventState(eventID).Registered)
}

func (s *ServiceSuite) TestRegister_DuplicateAppliesToWaitlist() {
	eventID := s.seedEvent(1)
	s.register(eventID, "alex.morgan")

	studentID := id.StudentID(uuid.New())
	reg, err := s.service.Register(context.Background(), eventID, studentID, "Priya Patel", "priya.patel@campus.edu")
	s.Require().NoError(err)
	s.Equal(models.StatusWaitlist, reg.Status)

	_, err = s.service.Register(context.Background(), eventID, studentID, "Priya Patel", "priya.patel@campus.edu")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRegister_CancelledPairMayRegisterAgain() {
	s.expectDelivery()
	eventID := s.seedEvent(5)
	studentID := id.StudentID(uuid.New())

	reg, err := s.service.Register(context.Background(), eventID, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().NoError(err)
	_, err = s.service.Approve(context.Background(), reg.ID)
	s.Require().NoError(err)
	_, err = s.service.Cancel(context.Background(), reg.ID)
	s.Require().NoError(err)

	again, err := s.service.Register(context.Background(), eventID, studentID, "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, again.Status)
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestRegister_UnknownEvent() {
	_, err := s.service.Register(context.Background(), id.EventID(uuid.New()), id.StudentID(uuid.New()), "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestRegister_PastEventRejected() {
	eventID := s.seedEvent(5)
	s.clock = s.clock.Add(8 * 24 * time.Hour)

	_, err := s.service.Register(context.Background(), eventID, id.StudentID(uuid.New()), "Alex Morgan", "alex.morgan@campus.edu")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Equal(0, s.eventState(eventID).Registered)
}
