package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nnhurricane156/phygen-portal/internal/authtoken"
	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/google"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

// authBackend fakes the exam backend's auth endpoints.
type authBackend struct {
	server       *httptest.Server
	loginHits    atomic.Int32
	registerHits atomic.Int32
	googleHits   atomic.Int32
	googleFails  bool
	token        string
	role         domain.Role
}

func newAuthBackend(t *testing.T, role domain.Role) *authBackend {
	t.Helper()
	b := &authBackend{role: role}
	b.token = testToken(t, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /Auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.loginHits.Add(1)
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password == "wrong" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"isSuccess": false,
				"message":   "Invalid email or password",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isSuccess": true,
			"message":   "",
			"data": map[string]any{
				"accessToken": b.token,
				"id":          "u-42",
				"email":       req.Email,
				"username":    "student42",
				"role":        int(b.role),
				"identityId":  "idn-42",
			},
		})
	})
	mux.HandleFunc("POST /Auth/register", func(w http.ResponseWriter, r *http.Request) {
		b.registerHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"isSuccess": true, "data": map[string]any{"id": "u-43"}})
	})
	mux.HandleFunc("POST /Auth/google-login", func(w http.ResponseWriter, r *http.Request) {
		b.googleHits.Add(1)
		if b.googleFails {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "google endpoint unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isSuccess": true,
			"data": map[string]any{
				"accessToken": b.token,
				"id":          "u-44",
				"email":       "g@example.com",
				"username":    "googler",
				"role":        int(domain.RoleUser),
			},
		})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func newTestController(t *testing.T, backend *authBackend, googleClientID string) (*Controller, tokenstore.Store, *fakeNavigator) {
	t.Helper()
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	log := logger.Get()
	inspector := authtoken.New()
	scheduler := NewScheduler(store, inspector, nav, log)
	apiClient := client.New(&client.Config{BaseURL: backend.server.URL}, store, nav, log)
	provider := google.NewProvider(googleClientID, log)

	return NewController(store, inspector, scheduler, apiClient, provider, nav, log), store, nav
}

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	return tokenExpiringIn(t, ttl)
}

func TestController_LoginSuccess(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, store, _ := newTestController(t, backend, "")

	profile, err := controller.Login(context.Background(), "s@example.com", "Password1!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if controller.CurrentState() != Authenticated {
		t.Errorf("state = %v, want Authenticated", controller.CurrentState())
	}
	if !store.IsAuthenticated() {
		t.Error("token was not persisted")
	}
	if got := store.UserData(); got == nil || got.ID != "u-42" {
		t.Errorf("stored profile = %+v, want ID u-42", got)
	}
	if profile.Role != domain.RoleUser {
		t.Errorf("role = %v, want RoleUser", profile.Role)
	}
	if got := profile.Role.RedirectPath(); got != "/createExam" {
		t.Errorf("RedirectPath() = %q, want /createExam", got)
	}
}

func TestController_RoleRedirects(t *testing.T) {
	tests := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleAdmin, "/admin"},
		{domain.RoleUser, "/createExam"},
		{domain.RoleManager, "/manager"},
		{domain.Role(99), "/manager"},
	}
	for _, tt := range tests {
		if got := tt.role.RedirectPath(); got != tt.want {
			t.Errorf("Role(%d).RedirectPath() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestController_LoginFailureSurfacesBackendMessage(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, store, _ := newTestController(t, backend, "")

	_, err := controller.Login(context.Background(), "s@example.com", "wrong")
	if err == nil || err.Error() != "Invalid email or password" {
		t.Fatalf("Login() error = %v, want backend message", err)
	}
	if controller.CurrentState() != Unauthenticated {
		t.Errorf("state = %v, want Unauthenticated", controller.CurrentState())
	}
	if store.IsAuthenticated() {
		t.Error("token stored despite failed login")
	}
}

func TestController_RegisterDoesNotEstablishSession(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, store, _ := newTestController(t, backend, "")

	if err := controller.Register(context.Background(), "newbie", "n@example.com", "Password1!"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("registration must not store a token")
	}
	if controller.IsAuthenticated() {
		t.Error("registration must not authenticate the controller")
	}
}

func TestController_GoogleUnconfiguredFailsFast(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, _, _ := newTestController(t, backend, "")

	_, err := controller.LoginWithGoogle(context.Background(), &domain.GoogleIdentity{
		UID: "g-1", IDToken: "idt", Email: "g@example.com",
	})
	if !errors.Is(err, domain.ErrGoogleNotConfigured) {
		t.Fatalf("LoginWithGoogle() error = %v, want ErrGoogleNotConfigured", err)
	}
	if backend.googleHits.Load() != 0 {
		t.Errorf("google endpoint hit %d times, want 0", backend.googleHits.Load())
	}
}

func TestController_GoogleLogin(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, store, _ := newTestController(t, backend, "client-id-1")

	profile, err := controller.LoginWithGoogle(context.Background(), &domain.GoogleIdentity{
		UID: "g-1", IDToken: "idt", Email: "g@example.com", DisplayName: "Googler",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}
	if profile.ID != "u-44" {
		t.Errorf("profile.ID = %q, want u-44", profile.ID)
	}
	if !store.IsAuthenticated() {
		t.Error("token was not persisted")
	}
}

func TestController_GoogleFallbackRegistersThenLogsIn(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	backend.googleFails = true
	controller, store, _ := newTestController(t, backend, "client-id-1")

	_, err := controller.LoginWithGoogle(context.Background(), &domain.GoogleIdentity{
		UID: "g-1", IDToken: "idt", Email: "g@example.com", DisplayName: "Googler",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle() fallback error = %v", err)
	}
	if backend.registerHits.Load() != 1 {
		t.Errorf("register hits = %d, want 1", backend.registerHits.Load())
	}
	if backend.loginHits.Load() != 1 {
		t.Errorf("login hits = %d, want 1", backend.loginHits.Load())
	}
	if !store.IsAuthenticated() {
		t.Error("fallback did not establish a session")
	}
}

func TestController_Logout(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleAdmin)
	controller, store, nav := newTestController(t, backend, "")

	if _, err := controller.Login(context.Background(), "a@example.com", "Password1!"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	controller.Logout(context.Background())

	if store.IsAuthenticated() {
		t.Error("token survived logout")
	}
	if controller.IsAuthenticated() {
		t.Error("controller still authenticated after logout")
	}
	if nav.count() == 0 {
		t.Error("logout did not navigate to login")
	}
}

func TestController_RefreshUserSignsOutOnBrokenToken(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	controller, store, _ := newTestController(t, backend, "")

	if _, err := controller.Login(context.Background(), "s@example.com", "Password1!"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Corrupt the stored token behind the controller's back.
	_ = store.SetToken("not-a-jwt")
	controller.RefreshUser(context.Background())

	if controller.IsAuthenticated() {
		t.Error("controller kept an unreadable token")
	}
	if store.IsAuthenticated() {
		t.Error("unreadable token survived RefreshUser")
	}
}

func TestController_RestoresPersistedSession(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleManager)
	store := tokenstore.NewMemory()
	_ = store.SetToken(testToken(t, time.Hour))
	_ = store.SetUserData(&domain.UserProfile{ID: "u-9", Role: domain.RoleManager})

	nav := &fakeNavigator{}
	log := logger.Get()
	inspector := authtoken.New()
	scheduler := NewScheduler(store, inspector, nav, log)
	apiClient := client.New(&client.Config{BaseURL: backend.server.URL}, store, nav, log)
	controller := NewController(store, inspector, scheduler, apiClient, google.NewProvider("", log), nav, log)

	if !controller.IsAuthenticated() {
		t.Error("persisted session was not restored")
	}
	if got := controller.CurrentUser(); got == nil || got.ID != "u-9" {
		t.Errorf("CurrentUser() = %+v, want ID u-9", got)
	}
	scheduler.Stop()
}

func TestController_DropsExpiredPersistedSession(t *testing.T) {
	backend := newAuthBackend(t, domain.RoleUser)
	store := tokenstore.NewMemory()
	_ = store.SetToken(testToken(t, -time.Hour))

	nav := &fakeNavigator{}
	log := logger.Get()
	inspector := authtoken.New()
	scheduler := NewScheduler(store, inspector, nav, log)
	apiClient := client.New(&client.Config{BaseURL: backend.server.URL}, store, nav, log)
	controller := NewController(store, inspector, scheduler, apiClient, google.NewProvider("", log), nav, log)

	if controller.IsAuthenticated() {
		t.Error("expired persisted session was restored")
	}
	if store.IsAuthenticated() {
		t.Error("expired token was not cleared at startup")
	}
}
