package challenge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"campushub/internal/auth/models"
	"campushub/internal/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return nil for successful operations
//
// InMemoryChallengeStore keys pending challenges by email. Saving a
// challenge for an email that already has one replaces it, which gives the
// "new login overwrites the prior pending challenge" behavior for free.
type InMemoryChallengeStore struct {
	mu         sync.RWMutex
	challenges map[string]*models.PendingChallenge
}

// New constructs an empty in-memory challenge store.
func New() *InMemoryChallengeStore {
	return &InMemoryChallengeStore{challenges: make(map[string]*models.PendingChallenge)}
}

func (s *InMemoryChallengeStore) Save(_ context.Context, ch *models.PendingChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[normalizeEmail(ch.Email)] = ch
	return nil
}

func (s *InMemoryChallengeStore) FindByEmail(_ context.Context, email string) (*models.PendingChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ch, ok := s.challenges[normalizeEmail(email)]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("challenge not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryChallengeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(email)
	if _, ok := s.challenges[key]; !ok {
		return fmt.Errorf("challenge not found: %w", sentinel.ErrNotFound)
	}
	delete(s.challenges, key)
	return nil
}

// DeleteExpired removes all challenges whose window has closed as of the
// given time. The time parameter is injected for testability.
func (s *InMemoryChallengeStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, ch := range s.challenges {
		if ch.Expired(now) {
			delete(s.challenges, key)
			deleted++
		}
	}
	return deleted, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
