package tokenstore

import (
	"sync"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// memoryStore keeps the session in process memory only. Used by tests and
// ephemeral runs where losing the session on restart is acceptable.
type memoryStore struct {
	mu      sync.RWMutex
	token   string
	profile *domain.UserProfile
}

// NewMemory returns an in-memory Store.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *memoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
	return nil
}

func (s *memoryStore) UserData() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

func (s *memoryStore) SetUserData(profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.profile = nil
		return nil
	}
	copied := *profile
	s.profile = &copied
	return nil
}

func (s *memoryStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
