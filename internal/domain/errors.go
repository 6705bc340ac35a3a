package domain

import (
	"errors"
	"fmt"
)

// Session and request errors
var (
	// ErrUnauthenticated means no token was available for a call that
	// requires one; the request was never sent.
	ErrUnauthenticated = errors.New("not authenticated: please log in")

	// ErrUnauthorized means the backend rejected the token with a 401.
	// The session has already been torn down when this is returned.
	ErrUnauthorized = errors.New("session expired: please log in again")

	// ErrGoogleNotConfigured means Google sign-in was attempted without
	// provider configuration.
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

	// ErrLoginFailed is returned when the backend answers a login with
	// isSuccess=false and no message of its own.
	ErrLoginFailed = errors.New("login failed")
)

// RequestError carries the HTTP status and the best-effort server message
// for any non-2xx, non-401 response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// BackendRejection is a domain failure the backend reported inside an
// otherwise successful HTTP response: isSuccess=false plus a message
// ("Invalid email or password" and friends).
type BackendRejection struct {
	Message string
}

func (e *BackendRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request was not successful"
}

// TimeoutError marks a client-initiated abort of a long-running upload or
// download.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}
