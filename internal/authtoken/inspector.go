package authtoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspector decodes JWT payloads for expiry display and scheduling only.
// It never verifies signatures; the backend remains the source of truth
// for token validity.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// New creates an Inspector using the wall clock.
func New() *Inspector {
	return NewWithClock(time.Now)
}

// NewWithClock creates an Inspector with an injected clock for tests.
func NewWithClock(now func() time.Time) *Inspector {
	return &Inspector{
		parser: jwt.NewParser(),
		now:    now,
	}
}

// DecodePayload returns the unverified claims of the token. Malformed
// input yields (nil, false) rather than an error; a token we cannot read
// is handled the same way everywhere.
func (i *Inspector) DecodePayload(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsExpired reports whether the token should be treated as expired.
// Fails closed: an undecodable token or one without an exp claim counts
// as expired.
func (i *Inspector) IsExpired(token string) bool {
	exp, ok := i.expiresAt(token)
	if !ok {
		return true
	}
	return !exp.After(i.now())
}

// TimeToExpiry returns how long until the token expires, floored at zero.
// Any decode problem yields zero.
func (i *Inspector) TimeToExpiry(token string) time.Duration {
	exp, ok := i.expiresAt(token)
	if !ok {
		return 0
	}
	d := exp.Sub(i.now())
	if d < 0 {
		return 0
	}
	return d
}

func (i *Inspector) expiresAt(token string) (time.Time, bool) {
	claims, ok := i.DecodePayload(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
