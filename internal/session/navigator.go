package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/logger"
)

// Navigator receives "navigate to login" side effects. In the browser this
// was a full-page navigation; the portal records the pending redirect so
// the UI shell can pick it up on its next poll.
type Navigator interface {
	ToLogin(reason string)
}

const loginPath = "/login"

// Redirector is the default Navigator. It keeps the latest pending
// redirect and logs a user-visible notice.
type Redirector struct {
	mu      sync.Mutex
	target  string
	reason  string
	pending bool
	log     *logger.Logger
}

// NewRedirector creates a Redirector.
func NewRedirector(log *logger.Logger) *Redirector {
	return &Redirector{log: log}
}

// ToLogin records a pending redirect to the login screen.
func (r *Redirector) ToLogin(reason string) {
	r.mu.Lock()
	r.target = loginPath
	r.reason = reason
	r.pending = true
	r.mu.Unlock()

	r.log.Info("redirecting to login", zap.String("reason", reason))
}

// Pending reports the redirect waiting to be delivered, if any.
func (r *Redirector) Pending() (target, reason string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target, r.reason, r.pending
}

// Consume returns the pending redirect and clears it.
func (r *Redirector) Consume() (target, reason string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, reason, ok = r.target, r.reason, r.pending
	r.target, r.reason, r.pending = "", "", false
	return target, reason, ok
}
