package tokenstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

const stateFileName = "session.json"

// sessionState is the on-disk shape of the session. Two logical keys, one
// file: the access token string and the serialized user profile.
type sessionState struct {
	AccessToken string              `json:"accessToken"`
	User        *domain.UserProfile `json:"user,omitempty"`
}

// fileStore persists the session as a JSON file under a state directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written session behind.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file-backed Store rooted at dir. An empty dir means
// the portal has no usable persistent storage, and the returned Store is
// the no-op store.
func NewFile(dir string) (Store, error) {
	if dir == "" {
		return NewNoop(), nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &fileStore{path: filepath.Join(dir, stateFileName)}, nil
}

func (s *fileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().AccessToken
}

func (s *fileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.read()
	state.AccessToken = token
	return s.write(state)
}

func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileStore) UserData() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().User
}

func (s *fileStore) SetUserData(profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.read()
	state.User = profile
	return s.write(state)
}

func (s *fileStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().AccessToken != ""
}

// read loads the current state, treating a missing or corrupt file as an
// empty session.
func (s *fileStore) read() sessionState {
	var state sessionState
	data, err := os.ReadFile(s.path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return sessionState{}
	}
	return state
}

func (s *fileStore) write(state sessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
