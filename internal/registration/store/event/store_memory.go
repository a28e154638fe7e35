// Package event provides the in-memory activity catalog: events and the
// read-only club list they belong to.
package event

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
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[id.EventID]*models.Event
	clubs  map[id.ClubID]*models.Club
}

// New constructs an empty in-memory catalog store.
func New() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[id.EventID]*models.Event),
		clubs:  make(map[id.ClubID]*models.Club),
	}
}

// Save inserts or replaces an event. Copies on the way in so callers cannot
// mutate stored state behind the store's back.
func (s *InMemoryEventStore) Save(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *InMemoryEventStore) FindByID(_ context.Context, eventID id.EventID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if event, ok := s.events[eventID]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, fmt.Errorf("event not found: %w", sentinel.ErrNotFound)
}

// List returns all events ordered by date, earliest first.
func (s *InMemoryEventStore) List(_ context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*models.Event, 0, len(s.events))
	for _, event := range s.events {
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID.String() < events[j].ID.String()
	})
	return events, nil
}

// SaveClub inserts or replaces a club catalog entry.
func (s *InMemoryEventStore) SaveClub(_ context.Context, club *models.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *club
	s.clubs[club.ID] = &copied
	return nil
}

// ListClubs returns all clubs ordered by name.
func (s *InMemoryEventStore) ListClubs(_ context.Context) ([]*models.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clubs := make([]*models.Club, 0, len(s.clubs))
	for _, club := range s.clubs {
		copied := *club
		clubs = append(clubs, &copied)
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].Name < clubs[j].Name })
	return clubs, nil
}
