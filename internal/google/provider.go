// Package google models the Google sign-in collaborator. The popup flow
// itself runs in the UI shell; the portal only validates what came back
// and knows whether the provider is configured at all.
package google

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
)

var errMissingIDToken = errors.New("google identity is missing an id token")

// Provider wraps the Google sign-in configuration.
type Provider struct {
	clientID string
	log      *logger.Logger
}

// NewProvider creates a Provider. An empty clientID leaves sign-in
// unconfigured, and every attempt fails fast without touching the network.
func NewProvider(clientID string, log *logger.Logger) *Provider {
	return &Provider{clientID: clientID, log: log}
}

// Configured reports whether Google sign-in can be attempted.
func (p *Provider) Configured() bool {
	return p != nil && p.clientID != ""
}

// ValidateIdentity sanity-checks the popup result before it is exchanged
// with the backend.
func (p *Provider) ValidateIdentity(ident *domain.GoogleIdentity) error {
	if !p.Configured() {
		return domain.ErrGoogleNotConfigured
	}
	if ident == nil || ident.IDToken == "" {
		return errMissingIDToken
	}
	return nil
}

// SignOut ends the provider-side session. The popup session lives in the
// UI shell, so this is best-effort bookkeeping only.
func (p *Provider) SignOut(ctx context.Context) error {
	if !p.Configured() {
		return nil
	}
	p.log.Info("google provider sign-out", zap.String("client_id", p.clientID))
	return nil
}
