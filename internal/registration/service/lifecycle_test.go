package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campushub/internal/notify"
	"campushub/internal/registration/models"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

func (s *ServiceSuite) TestApprove_PendingOnly() {
	s.expectDelivery()
	eventID := s.seedEvent(2)
	reg := s.register(eventID, "alex.morgan")

	approved, err := s.service.Approve(context.Background(), reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)
	s.Equal(1, s.eventState(eventID).Registered, "approve does not move the seat count")
	s.assertSeatInvariant(eventID)

	_, err = s.service.Approve(context.Background(), reg.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestApprove_NotifiesStudent() {
	s.expectDelivery()
	eventID := s.seedEvent(2)
	reg := s.register(eventID, "alex.morgan")

	_, err := s.service.Approve(context.Background(), reg.ID)
	s.Require().NoError(err)

	s.Require().Len(s.delivered, 1)
	s.Equal("alex.morgan@campus.edu", s.delivered[0].Recipient)
	s.Equal(notify.KindRegistrationUpdate, s.delivered[0].Kind)
}

func (s *ServiceSuite) TestReject_ReleasesSeat() {
	s.expectDelivery()
	eventID := s.seedEvent(2)
	reg := s.register(eventID, "alex.morgan")

	rejected, err := s.service.Reject(context.Background(), reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, rejected.Status)
	s.Equal(0, s.eventState(eventID).Registered)
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestReject_SecondRejectFailsUnchanged() {
	s.expectDelivery()
	eventID := s.seedEvent(2)
	reg := s.register(eventID, "alex.morgan")

	_, err := s.service.Reject(context.Background(), reg.ID)
	s.Require().NoError(err)

	_, err = s.service.Reject(context.Background(), reg.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Equal(models.StatusRejected, s.regState(reg.ID).Status)
	s.Equal(0, s.eventState(eventID).Registered)
}

func (s *ServiceSuite) TestReject_PromotesWaitlistHead() {
	s.expectDelivery()
	eventID := s.seedEvent(1)
	first := s.register(eventID, "alex.morgan")
	waiting := s.register(eventID, "priya.patel")
	s.Require().Equal(models.StatusWaitlist, waiting.Status)

	_, err := s.service.Reject(context.Background(), first.ID)
	s.Require().NoError(err)

	s.Equal(models.StatusPending, s.regState(waiting.ID).Status)
	s.Equal(1, s.eventState(eventID).Registered, "promoted entry takes the freed seat")
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestCancel_ApprovedOnly() {
	s.expectDelivery()
	eventID := s.seedEvent(2)
	reg := s.register(eventID, "alex.morgan")

	// pending cannot be cancelled directly
	_, err := s.service.Cancel(context.Background(), reg.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	_, err = s.service.Approve(context.Background(), reg.ID)
	s.Require().NoError(err)

	cancelled, err := s.service.Cancel(context.Background(), reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCancelled, cancelled.Status)
	s.Equal(0, s.eventState(eventID).Registered)
	s.assertSeatInvariant(eventID)
}

func (s *ServiceSuite) TestCancel_PromotesEarliestWaitlisted() {
	s.expectDelivery()
	eventID := s.seedEvent(1)
	holder := s.register(eventID, "alex.morgan")

	s.clock = s.clock.Add(time.Minute)
	firstWaiting := s.register(eventID, "priya.patel")
	s.clock = s.clock.Add(time.Minute)
	secondWaiting := s.register(eventID, "jordan.lee")

	_, err := s.service.Approve(context.Background(), holder.ID)
	s.Require().NoError(err)
	s.delivered = nil

	_, err = s.service.Cancel(context.Background(), holder.ID)
	s.Require().NoError(err)

	s.Equal(models.StatusPending, s.regState(firstWaiting.ID).Status, "earliest waitlisted entry is promoted")
	s.Equal(models.StatusWaitlist, s.regState(secondWaiting.ID).Status)
	s.Equal(1, s.eventState(eventID).Registered)
	s.assertSeatInvariant(eventID)

	s.Require().Len(s.delivered, 1)
	s.Equal("priya.patel@campus.edu", s.delivered[0].Recipient)
}

func (s *ServiceSuite) TestCancel_NoWaitlistDropsCount() {
	s.expectDelivery()
	eventID := s.seedEvent(3)
	reg := s.register(eventID, "alex.morgan")
	_, err := s.service.Approve(context.Background(), reg.ID)
	s.Require().NoError(err)

	_, err = s.service.Cancel(context.Background(), reg.ID)
	s.Require().NoError(err)
	s.Equal(0, s.eventState(eventID).Registered)
}

func (s *ServiceSuite) TestLifecycle_UnknownRegistration() {
	for _, op := range []func(context.Context, id.RegistrationID) (*models.Registration, error){
		s.service.Approve, s.service.Reject, s.service.Cancel,
	} {
		_, err := op(context.Background(), id.RegistrationID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	}
}

// Full walk through a capacity-2 event: fill it, waitlist a third student,
// review the queue, then free a seat and watch it travel to the waitlist.
func (s *ServiceSuite) TestLifecycle_EndToEnd() {
	s.expectDelivery()
	eventID := s.seedEvent(2)

	first := s.register(eventID, "alex.morgan")
	s.clock = s.clock.Add(time.Minute)
	second := s.register(eventID, "priya.patel")
	s.clock = s.clock.Add(time.Minute)
	third := s.register(eventID, "jordan.lee")

	s.Equal(models.StatusPending, first.Status)
	s.Equal(models.StatusPending, second.Status)
	s.Equal(models.StatusWaitlist, third.Status)
	s.Equal(2, s.eventState(eventID).Registered)
	s.Equal(models.EventFull, s.eventState(eventID).Status(s.clock))

	_, err := s.service.Approve(context.Background(), first.ID)
	s.Require().NoError(err)
	_, err = s.service.Approve(context.Background(), second.ID)
	s.Require().NoError(err)

	_, err = s.service.Cancel(context.Background(), first.ID)
	s.Require().NoError(err)

	s.Equal(models.StatusCancelled, s.regState(first.ID).Status)
	s.Equal(models.StatusPending, s.regState(third.ID).Status)
	s.Equal(2, s.eventState(eventID).Registered)
	s.Equal(models.EventFull, s.eventState(eventID).Status(s.clock))
	s.assertSeatInvariant(eventID)

	_, err = s.service.Approve(context.Background(), third.ID)
	s.Require().NoError(err)
	s.assertSeatInvariant(eventID)

	pending, err := s.service.PendingRegistrations(context.Background())
	s.Require().NoError(err)
	s.Empty(pending)
}
