package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campushub/internal/registration/models"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

// CreateEvent publishes a new event with an empty seat count.
func (s *Service) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (event *models.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.create_event")
	defer func() { span.End(err) }()

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "date must be an RFC 3339 timestamp")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event = &models.Event{
		ID:          id.EventID(uuid.New()),
		Title:       req.Title,
		Club:        req.Club,
		Category:    req.Category,
		Date:        date,
		Venue:       req.Venue,
		Capacity:    req.Capacity,
		Description: req.Description,
		Organizer:   req.Organizer,
		CreatedAt:   s.now(),
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save event")
	}

	s.logAudit(ctx, "event.created", "event_id", event.ID.String(), "title", event.Title, "capacity", event.Capacity)
	return event, nil
}

// GetEvent returns a single event by ID.
func (s *Service) GetEvent(ctx context.Context, eventID id.EventID) (event *models.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.get_event")
	defer func() { span.End(err) }()
	return s.findEvent(ctx, eventID)
}

// ListEvents returns the full catalog ordered by date.
func (s *Service) ListEvents(ctx context.Context) (events []*models.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.list_events")
	defer func() { span.End(err) }()

	events, err = s.events.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events")
	}
	return events, nil
}

// ListClubs returns the club catalog ordered by name.
func (s *Service) ListClubs(ctx context.Context) (clubs []*models.Club, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.list_clubs")
	defer func() { span.End(err) }()

	clubs, err = s.events.ListClubs(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clubs")
	}
	return clubs, nil
}

// ListByEvent returns an event's registrations in arrival order. The event
// must exist; an empty event yields an empty slice, not an error.
func (s *Service) ListByEvent(ctx context.Context, eventID id.EventID) (regs []*models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.list_by_event")
	defer func() { span.End(err) }()

	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}
	regs, err = s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// GetRegistration returns a single registration by ID. Handlers use it for
// ownership checks before cancellation.
func (s *Service) GetRegistration(ctx context.Context, regID id.RegistrationID) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.get")
	defer func() { span.End(err) }()
	return s.findRegistration(ctx, regID)
}

// ListByStudent returns a student's registrations in arrival order.
func (s *Service) ListByStudent(ctx context.Context, studentID id.StudentID) (regs []*models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.list_by_student")
	defer func() { span.End(err) }()

	regs, err = s.registrations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// PendingRegistrations returns the admin review queue across all events,
// oldest first.
func (s *Service) PendingRegistrations(ctx context.Context) (regs []*models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.pending")
	defer func() { span.End(err) }()

	regs, err = s.registrations.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending registrations")
	}
	return regs, nil
}

// Now exposes the service clock so handlers derive event status from the
// same instant the service uses.
func (s *Service) Now() time.Time {
	return s.now()
}
