package service

import (
	"context"
	"errors"

	"campushub/internal/notify"
	"campushub/internal/registration/models"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

// Approve moves a pending registration to approved. The seat was already
// consumed at registration time, so the count does not move.
func (s *Service) Approve(ctx context.Context, regID id.RegistrationID) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.approve")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err = s.findRegistration(ctx, regID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusPending {
		return nil, errInvalidTransition(reg.Status, models.StatusApproved)
	}

	reg.Status = models.StatusApproved
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	s.logAudit(ctx, "registration.approved", "registration_id", reg.ID.String(), "event_id", reg.EventID.String())
	s.notifyStatus(ctx, reg, "Registration approved", "Your registration has been approved. See you there!")
	return reg, nil
}

// Reject moves a pending registration to rejected and releases its seat.
// The freed seat goes to the head of the waitlist, if anyone is waiting.
func (s *Service) Reject(ctx context.Context, regID id.RegistrationID) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.reject")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err = s.findRegistration(ctx, regID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusPending {
		return nil, errInvalidTransition(reg.Status, models.StatusRejected)
	}

	reg.Status = models.StatusRejected
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	if err := s.releaseSeat(ctx, reg.EventID); err != nil {
		return nil, err
	}

	s.logAudit(ctx, "registration.rejected", "registration_id", reg.ID.String(), "event_id", reg.EventID.String())
	s.notifyStatus(ctx, reg, "Registration not approved", "Your registration was not approved this time.")
	return reg, nil
}

// Cancel withdraws an approved registration and releases its seat to the
// head of the waitlist.
func (s *Service) Cancel(ctx context.Context, regID id.RegistrationID) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.cancel")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err = s.findRegistration(ctx, regID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusApproved {
		return nil, errInvalidTransition(reg.Status, models.StatusCancelled)
	}

	reg.Status = models.StatusCancelled
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	if err := s.releaseSeat(ctx, reg.EventID); err != nil {
		return nil, err
	}

	s.logAudit(ctx, "registration.cancelled", "registration_id", reg.ID.String(), "event_id", reg.EventID.String())
	return reg, nil
}

// releaseSeat gives a freed seat back to the event. If someone is waiting,
// the earliest waitlisted registration takes the seat immediately and the
// count stays put; otherwise the count drops by one. Callers hold s.mu.
func (s *Service) releaseSeat(ctx context.Context, eventID id.EventID) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	next, err := s.registrations.FirstWaitlisted(ctx, eventID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up waitlist")
		}
		event.Registered--
		if err := s.events.Save(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update event seat count")
		}
		return nil
	}

	next.Status = models.StatusPending
	if err := s.registrations.Save(ctx, next); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to promote waitlisted registration")
	}

	s.logAudit(ctx, "registration.promoted",
		"registration_id", next.ID.String(),
		"event_id", eventID.String(),
		"student_id", next.StudentID.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementWaitlistPromotions()
	}
	s.notifyStatus(ctx, next, "A spot opened up", "A spot opened up and you have been moved off the waitlist. Your registration is now awaiting review.")
	return nil
}

func errInvalidTransition(from, to models.RegistrationStatus) error {
	return dErrors.New(dErrors.CodeInvalidState, "cannot move registration from "+string(from)+" to "+string(to))
}

// notifyStatus delivers a status update on a best-effort basis. Delivery
// failure never rolls back a state change that already happened.
func (s *Service) notifyStatus(ctx context.Context, reg *models.Registration, subject, body string) {
	if reg.StudentEmail == "" {
		return
	}
	err := s.notifier.Send(ctx, notify.Message{
		Recipient: reg.StudentEmail,
		Kind:      notify.KindRegistrationUpdate,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "notification delivery failed",
			"event", "notify.failed",
			"registration_id", reg.ID.String(),
			"error", err.Error(),
			"log_type", "standard",
		)
	}
}
