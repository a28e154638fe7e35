// Package service implements the registration lifecycle: joining events,
// admin review, cancellation and waitlist promotion.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"campushub/internal/notify"
	"campushub/internal/platform/metrics"
	"campushub/internal/platform/middleware"
	"campushub/internal/platform/tracer"
	"campushub/internal/registration/models"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

// EventStore defines the persistence interface for the activity catalog.
// Error Contract: Find methods return sentinel.ErrNotFound when the entity doesn't exist.
type EventStore interface {
	Save(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	SaveClub(ctx context.Context, club *models.Club) error
	ListClubs(ctx context.Context) ([]*models.Club, error)
}

// RegistrationStore defines the persistence interface for registrations.
// Error Contract: Find methods return sentinel.ErrNotFound when the entity doesn't exist.
type RegistrationStore interface {
	Save(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	FindActive(ctx context.Context, eventID id.EventID, studentID id.StudentID) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]*models.Registration, error)
	ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Registration, error)
	ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]*models.Registration, error)
	FirstWaitlisted(ctx context.Context, eventID id.EventID) (*models.Registration, error)
}

// Service owns the registration lifecycle. Every mutating operation runs
// under one mutex so the seat count and the registration statuses always
// move together.
type Service struct {
	events        EventStore
	registrations RegistrationStore
	notifier      notify.Notifier

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	now     func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the wall clock, used by tests to pin event status
// derivation and registration timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(events EventStore, registrations RegistrationStore, notifier notify.Notifier, opts ...Option) *Service {
	svc := &Service{
		events:        events,
		registrations: registrations,
		notifier:      notifier,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.Noop()
	}
	return svc
}

// Register enrolls a student into an event. A free seat yields a pending
// registration and consumes the seat; a full event yields a waitlist entry
// that consumes nothing. A student holds at most one non-cancelled
// registration per event.
func (s *Service) Register(ctx context.Context, eventID id.EventID, studentID id.StudentID, studentName, studentEmail string) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.register")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if event.Status(now) == models.EventPast {
		s.denied(ctx, "event_past", "event_id", eventID.String())
		return nil, dErrors.New(dErrors.CodeInvalidState, "event has already taken place")
	}

	if _, err := s.registrations.FindActive(ctx, eventID, studentID); err == nil {
		s.denied(ctx, "duplicate", "event_id", eventID.String(), "student_id", studentID.String())
		return nil, dErrors.New(dErrors.CodeConflict, "student is already registered for this event")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
	}

	status := models.StatusWaitlist
	if event.HasSeat() {
		status = models.StatusPending
	}

	reg = &models.Registration{
		ID:           id.RegistrationID(uuid.New()),
		EventID:      eventID,
		StudentID:    studentID,
		StudentName:  studentName,
		StudentEmail: studentEmail,
		Status:       status,
		CreatedAt:    now,
	}
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	if status == models.StatusPending {
		event.Registered++
		if err := s.events.Save(ctx, event); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update event seat count")
		}
	}

	s.logAudit(ctx, "registration.created",
		"registration_id", reg.ID.String(),
		"event_id", eventID.String(),
		"student_id", studentID.String(),
		"status", string(status),
	)
	if s.metrics != nil {
		s.metrics.IncrementRegistrationsCreated(string(status))
	}
	return reg, nil
}

func (s *Service) findEvent(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up event")
	}
	return event, nil
}

func (s *Service) findRegistration(ctx context.Context, regID id.RegistrationID) (*models.Registration, error) {
	reg, err := s.registrations.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up registration")
	}
	return reg, nil
}

func (s *Service) denied(ctx context.Context, reason string, attributes ...any) {
	args := append(attributes, "event", "registration.denied", "reason", reason, "log_type", "standard")
	s.logger.WarnContext(ctx, "registration.denied", args...)
	if s.metrics != nil {
		s.metrics.IncrementRegistrationDenied(reason)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
