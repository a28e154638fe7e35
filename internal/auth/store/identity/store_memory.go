package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"campushub/internal/auth/models"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return nil for successful operations
//
// InMemoryIdentityStore is the registered identity store. The service only
// reads from it; writes happen at seed time.
type InMemoryIdentityStore struct {
	mu      sync.RWMutex
	byID    map[id.StudentID]*models.Identity
	byEmail map[string]*models.Identity
}

// New constructs an empty in-memory identity store.
func New() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{
		byID:    make(map[id.StudentID]*models.Identity),
		byEmail: make(map[string]*models.Identity),
	}
}

func (s *InMemoryIdentityStore) Save(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[identity.ID] = identity
	s.byEmail[normalizeEmail(identity.Email)] = identity
	return nil
}

func (s *InMemoryIdentityStore) FindByID(_ context.Context, identityID id.StudentID) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.byID[identityID]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryIdentityStore) FindByEmail(_ context.Context, email string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.byEmail[normalizeEmail(email)]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
