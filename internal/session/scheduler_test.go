package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nnhurricane156/phygen-portal/internal/authtoken"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

type fakeNavigator struct {
	mu      sync.Mutex
	reasons []string
}

func (n *fakeNavigator) ToLogin(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *fakeNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reasons)
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	// The exp claim has one-second precision (jwt.TimePrecision), so round
	// up: a sub-second future expiry must still decode as being in the
	// future.
	exp := time.Now().Add(d)
	if !exp.Truncate(time.Second).Equal(exp) {
		exp = exp.Truncate(time.Second).Add(time.Second)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": float64(exp.Unix()),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestScheduler_TearsDownOnExpiry(t *testing.T) {
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	scheduler := NewScheduler(store, authtoken.New(), nav, logger.Get())

	var expired atomic.Bool
	scheduler.SetOnExpire(func() { expired.Store(true) })

	_ = store.SetToken(tokenExpiringIn(t, time.Second))
	scheduler.Arm()

	deadline := time.After(3 * time.Second)
	for !expired.Load() {
		select {
		case <-deadline:
			t.Fatal("expiry never fired")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if store.Token() != "" {
		t.Error("token survived expiry")
	}
	if nav.count() != 1 {
		t.Errorf("navigator calls = %d, want 1", nav.count())
	}
}

func TestScheduler_AlreadyExpiredTearsDownImmediately(t *testing.T) {
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	scheduler := NewScheduler(store, authtoken.New(), nav, logger.Get())

	_ = store.SetToken(tokenExpiringIn(t, -time.Minute))
	scheduler.Arm()

	if store.Token() != "" {
		t.Error("expired token was not cleared")
	}
	if nav.count() != 1 {
		t.Errorf("navigator calls = %d, want 1", nav.count())
	}
}

func TestScheduler_RearmCancelsPreviousTimer(t *testing.T) {
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	scheduler := NewScheduler(store, authtoken.New(), nav, logger.Get())

	var fires atomic.Int32
	scheduler.SetOnExpire(func() { fires.Add(1) })

	// Arm against a token that expires quickly, then replace it with a
	// long-lived one. The first timer must not fire.
	_ = store.SetToken(tokenExpiringIn(t, 500*time.Millisecond))
	scheduler.Arm()

	_ = store.SetToken(tokenExpiringIn(t, time.Hour))
	scheduler.Arm()

	time.Sleep(time.Second)
	if fires.Load() != 0 {
		t.Errorf("stale timer fired %d times, want 0", fires.Load())
	}
	if store.Token() == "" {
		t.Error("live session was torn down by a stale timer")
	}
	scheduler.Stop()
}

func TestScheduler_NoTokenIsANoOp(t *testing.T) {
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	scheduler := NewScheduler(store, authtoken.New(), nav, logger.Get())

	scheduler.Arm()

	if nav.count() != 0 {
		t.Errorf("navigator calls = %d, want 0", nav.count())
	}
}

func TestScheduler_StopPreventsFiring(t *testing.T) {
	store := tokenstore.NewMemory()
	nav := &fakeNavigator{}
	scheduler := NewScheduler(store, authtoken.New(), nav, logger.Get())

	_ = store.SetToken(tokenExpiringIn(t, 300*time.Millisecond))
	scheduler.Arm()
	scheduler.Stop()

	time.Sleep(600 * time.Millisecond)
	if nav.count() != 0 {
		t.Errorf("navigator calls after Stop = %d, want 0", nav.count())
	}
}

func TestRedirector_ConsumeClearsPending(t *testing.T) {
	r := NewRedirector(logger.Get())

	if _, _, ok := r.Pending(); ok {
		t.Error("fresh redirector reports a pending redirect")
	}

	r.ToLogin("session expired")

	target, reason, ok := r.Consume()
	if !ok || target != "/login" || reason != "session expired" {
		t.Errorf("Consume() = (%q, %q, %v), want (/login, session expired, true)", target, reason, ok)
	}
	if _, _, ok := r.Pending(); ok {
		t.Error("redirect still pending after Consume")
	}
}
