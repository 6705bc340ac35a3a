package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/authtoken"
	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/google"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

// State is the controller's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// loginRequest is the backend login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest is the backend registration payload.
type registerRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the payload of a successful auth envelope.
type authData struct {
	AccessToken string      `json:"accessToken"`
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	IdentityID  string      `json:"identityId"`
}

// Controller orchestrates login, Google login, registration and logout,
// and exposes the current user to the rest of the portal. One controller
// per process; it owns the single active session.
type Controller struct {
	mu    sync.Mutex
	state State
	user  *domain.UserProfile

	store     tokenstore.Store
	inspector *authtoken.Inspector
	scheduler *Scheduler
	client    *client.Client
	provider  *google.Provider
	nav       Navigator
	log       *logger.Logger
}

// NewController creates a Controller and restores any persisted session.
func NewController(
	store tokenstore.Store,
	inspector *authtoken.Inspector,
	scheduler *Scheduler,
	apiClient *client.Client,
	provider *google.Provider,
	nav Navigator,
	log *logger.Logger,
) *Controller {
	c := &Controller{
		store:     store,
		inspector: inspector,
		scheduler: scheduler,
		client:    apiClient,
		provider:  provider,
		nav:       nav,
		log:       log,
	}
	scheduler.SetOnExpire(c.dropState)

	// Pick up a session left by a previous run. The scheduler decides
	// whether it is still alive.
	if token := store.Token(); token != "" {
		if inspector.IsExpired(token) {
			_ = store.Clear()
		} else {
			c.state = Authenticated
			c.user = store.UserData()
			scheduler.Arm()
		}
	}
	return c
}

// Login authenticates with email and password. On success the token and
// profile are persisted and the expiry timer is armed.
func (c *Controller) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	c.setState(Authenticating)

	var envelope client.Envelope[authData]
	err := c.client.Post(ctx, "/Auth/login",
		&loginRequest{Email: email, Password: password},
		&envelope,
		client.WithTokenPolicy(client.TokenOptional),
	)
	if err != nil {
		c.setState(Unauthenticated)
		return nil, err
	}

	data, err := envelope.Unwrap()
	if err != nil {
		c.setState(Unauthenticated)
		return nil, err
	}
	if data.AccessToken == "" {
		c.setState(Unauthenticated)
		return nil, domain.ErrLoginFailed
	}

	return c.establish(&data)
}

// LoginWithGoogle exchanges an identity obtained from the Google popup for
// a backend session. Fails fast when the provider is not configured. When
// the dedicated Google endpoint fails, a register-then-login fallback is
// attempted, mirroring how first-time federated accounts are provisioned.
func (c *Controller) LoginWithGoogle(ctx context.Context, ident *domain.GoogleIdentity) (*domain.UserProfile, error) {
	if err := c.provider.ValidateIdentity(ident); err != nil {
		return nil, err
	}

	c.setState(Authenticating)

	var envelope client.Envelope[authData]
	err := c.client.Post(ctx, "/Auth/google-login", ident, &envelope,
		client.WithTokenPolicy(client.TokenOptional))
	if err == nil {
		if data, unwrapErr := envelope.Unwrap(); unwrapErr == nil && data.AccessToken != "" {
			return c.establish(&data)
		}
	}

	c.log.Warn("google endpoint failed, trying register-then-login fallback", zap.Error(err))
	profile, fallbackErr := c.googleFallback(ctx, ident)
	if fallbackErr != nil {
		c.setState(Unauthenticated)
		return nil, fallbackErr
	}
	return profile, nil
}

// googleFallback provisions the account through plain registration and
// logs in with the federated credential convention.
func (c *Controller) googleFallback(ctx context.Context, ident *domain.GoogleIdentity) (*domain.UserProfile, error) {
	password := federatedPassword(ident)
	username := ident.DisplayName
	if username == "" {
		username = strings.SplitN(ident.Email, "@", 2)[0]
	}

	// Registration may fail because the account already exists; that is
	// fine, the login below settles it either way.
	if err := c.Register(ctx, username, ident.Email, password); err != nil {
		c.log.Info("google fallback registration skipped", zap.Error(err))
	}

	profile, err := c.Login(ctx, ident.Email, password)
	if err != nil {
		return nil, fmt.Errorf("google sign-in failed: %w", err)
	}
	return profile, nil
}

// federatedPassword derives the deterministic credential used for
// Google-provisioned accounts. The backend owns real verification through
// the id token; this only satisfies its password-shaped registration API.
func federatedPassword(ident *domain.GoogleIdentity) string {
	return "Gg@" + ident.UID
}

// Register creates a backend account. No session is established; the UI
// prompts for a subsequent login.
func (c *Controller) Register(ctx context.Context, userName, email, password string) error {
	var envelope client.Envelope[map[string]any]
	err := c.client.Post(ctx, "/Auth/register",
		&registerRequest{UserName: userName, Email: email, Password: password},
		&envelope,
		client.WithTokenPolicy(client.TokenOptional),
	)
	if err != nil {
		return err
	}
	if _, err := envelope.Unwrap(); err != nil {
		return err
	}
	return nil
}

// Logout clears the session everywhere and navigates to login.
func (c *Controller) Logout(ctx context.Context) {
	c.scheduler.Stop()
	if err := c.store.Clear(); err != nil {
		c.log.Error("failed to clear session on logout", zap.Error(err))
	}
	c.dropState()

	if err := c.provider.SignOut(ctx); err != nil {
		c.log.Warn("google sign-out failed", zap.Error(err))
	}

	c.nav.ToLogin("logged out")
}

// RefreshUser re-checks the stored token. An undecodable token forces a
// logout; a healthy one is left alone. A future profile-refresh call slots
// in here.
func (c *Controller) RefreshUser(ctx context.Context) {
	token := c.store.Token()
	if token == "" {
		if c.CurrentState() == Authenticated {
			c.Logout(ctx)
		}
		return
	}
	if _, ok := c.inspector.DecodePayload(token); !ok {
		c.log.Warn("stored token is unreadable, signing out")
		c.Logout(ctx)
	}
}

// CurrentUser returns the signed-in user, or nil.
func (c *Controller) CurrentUser() *domain.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	copied := *c.user
	return &copied
}

// IsAuthenticated reports whether a session is established.
func (c *Controller) IsAuthenticated() bool {
	return c.CurrentState() == Authenticated
}

// CurrentState returns the controller state.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// establish persists the session and arms the expiry timer.
func (c *Controller) establish(data *authData) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		ID:       data.ID,
		Email:    data.Email,
		Username: data.Username,
		Role:     data.Role,
	}

	if err := c.store.SetToken(data.AccessToken); err != nil {
		c.setState(Unauthenticated)
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	if err := c.store.SetUserData(profile); err != nil {
		c.setState(Unauthenticated)
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	c.mu.Lock()
	c.state = Authenticated
	c.user = profile
	c.mu.Unlock()

	c.scheduler.Arm()

	c.log.Info("session established",
		zap.String("user_id", profile.ID),
		zap.String("role", profile.Role.String()),
		zap.String("redirect", profile.Role.RedirectPath()),
	)
	return profile, nil
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	if state != Authenticated {
		c.user = nil
	}
	c.mu.Unlock()
}

func (c *Controller) dropState() {
	c.setState(Unauthenticated)
}
