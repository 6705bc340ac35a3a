package tokenstore

import (
	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// Store persists the session token and the cached user profile. A missing
// token means "not authenticated". Implementations must be safe for
// concurrent use: the expiry timer goroutine and request paths both read
// the store.
type Store interface {
	// Token returns the current bearer token, or "" when none is stored.
	Token() string
	// SetToken stores the bearer token.
	SetToken(token string) error
	// Clear removes the token and the cached user profile.
	Clear() error
	// UserData returns the cached profile, or nil when none is stored.
	UserData() *domain.UserProfile
	// SetUserData caches the user profile.
	SetUserData(profile *domain.UserProfile) error
	// IsAuthenticated reports token presence only. Expiry is the
	// inspector's job.
	IsAuthenticated() bool
}

// noopStore is used when no usable persistent storage exists. Reads
// return zero values and writes do nothing, which keeps headless code
// paths safe.
type noopStore struct{}

// NewNoop returns a Store that holds nothing.
func NewNoop() Store { return noopStore{} }

func (noopStore) Token() string                         { return "" }
func (noopStore) SetToken(string) error                 { return nil }
func (noopStore) Clear() error                          { return nil }
func (noopStore) UserData() *domain.UserProfile         { return nil }
func (noopStore) SetUserData(*domain.UserProfile) error { return nil }
func (noopStore) IsAuthenticated() bool                 { return false }
