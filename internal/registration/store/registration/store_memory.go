// Package registration provides the in-memory registration store.
package registration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"campushub/internal/registration/models"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return nil for successful operations
type InMemoryRegistrationStore struct {
	mu            sync.RWMutex
	registrations map[id.RegistrationID]*models.Registration
}

// New constructs an empty in-memory registration store.
func New() *InMemoryRegistrationStore {
	return &InMemoryRegistrationStore{registrations: make(map[id.RegistrationID]*models.Registration)}
}

// Save inserts or replaces a registration.
func (s *InMemoryRegistrationStore) Save(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *reg
	s.registrations[reg.ID] = &copied
	return nil
}

func (s *InMemoryRegistrationStore) FindByID(_ context.Context, regID id.RegistrationID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reg, ok := s.registrations[regID]; ok {
		copied := *reg
		return &copied, nil
	}
	return nil, fmt.Errorf("registration not found: %w", sentinel.ErrNotFound)
}

// FindActive returns the non-cancelled registration for the given event and
// student pair, if any. At most one such registration exists at a time.
func (s *InMemoryRegistrationStore) FindActive(_ context.Context, eventID id.EventID, studentID id.StudentID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.StudentID == studentID && reg.Status.Active() {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("registration not found: %w", sentinel.ErrNotFound)
}

// ListByEvent returns all registrations for an event in arrival order.
func (s *InMemoryRegistrationStore) ListByEvent(_ context.Context, eventID id.EventID) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(reg *models.Registration) bool { return reg.EventID == eventID }), nil
}

// ListByStudent returns all registrations for a student in arrival order.
func (s *InMemoryRegistrationStore) ListByStudent(_ context.Context, studentID id.StudentID) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(reg *models.Registration) bool { return reg.StudentID == studentID }), nil
}

// ListByStatus returns all registrations in a status in arrival order.
func (s *InMemoryRegistrationStore) ListByStatus(_ context.Context, status models.RegistrationStatus) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(reg *models.Registration) bool { return reg.Status == status }), nil
}

// FirstWaitlisted returns the earliest waitlisted registration for an event.
// Ties on creation time break on the registration ID so the order is total.
func (s *InMemoryRegistrationStore) FirstWaitlisted(_ context.Context, eventID id.EventID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	waiting := s.collect(func(reg *models.Registration) bool {
		return reg.EventID == eventID && reg.Status == models.StatusWaitlist
	})
	if len(waiting) == 0 {
		return nil, fmt.Errorf("registration not found: %w", sentinel.ErrNotFound)
	}
	return waiting[0], nil
}

// collect filters and sorts under the caller's lock. Arrival order is
// creation time ascending with the registration ID as tiebreaker.
func (s *InMemoryRegistrationStore) collect(keep func(*models.Registration) bool) []*models.Registration {
	matched := make([]*models.Registration, 0)
	for _, reg := range s.registrations {
		if keep(reg) {
			copied := *reg
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched
}
