package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/authtoken"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

// Scheduler arms a one-shot timer that tears the session down when the
// token's embedded expiry arrives. Re-arming cancels the previous timer
// first, so repeated logins within one process never stack timers.
type Scheduler struct {
	mu        sync.Mutex
	timer     *time.Timer
	store     tokenstore.Store
	inspector *authtoken.Inspector
	nav       Navigator
	log       *logger.Logger
	// onExpire lets the controller drop its in-memory state alongside
	// the stored session.
	onExpire func()
}

// NewScheduler creates a Scheduler.
func NewScheduler(store tokenstore.Store, inspector *authtoken.Inspector, nav Navigator, log *logger.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		inspector: inspector,
		nav:       nav,
		log:       log,
	}
}

// SetOnExpire registers a callback invoked after an expiry teardown.
func (s *Scheduler) SetOnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

// Arm reads the current token and schedules the teardown. An already
// expired token is torn down immediately. With no token stored there is
// nothing to schedule.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	s.cancelLocked()
	token := s.store.Token()
	if token == "" {
		s.mu.Unlock()
		return
	}

	if s.inspector.IsExpired(token) {
		s.mu.Unlock()
		s.expire()
		return
	}

	ttl := s.inspector.TimeToExpiry(token)
	s.timer = time.AfterFunc(ttl, s.expire)
	s.mu.Unlock()

	s.log.Info("session expiry scheduled", zap.Duration("in", ttl))
}

// Stop cancels any armed timer. Used on logout and shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) expire() {
	if err := s.store.Clear(); err != nil {
		s.log.Error("failed to clear session on expiry", zap.Error(err))
	}

	s.mu.Lock()
	s.timer = nil
	onExpire := s.onExpire
	s.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}

	s.log.Warn("session expired, signing out")
	s.nav.ToLogin("your session has expired, please log in again")
}
