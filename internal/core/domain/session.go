package domain

import (
	"errors"
	"time"
)

// Session is the backend-issued proof of authentication. The application
// treats it as opaque beyond presence, identity id, and expiry.
type Session struct {
	// Token is the raw credential bundle the browser transports. It is set
	// when the backend hands the session out and never persisted.
	Token string `json:"-"`

	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionChangeKind identifies why the backend pushed a session change.
type SessionChangeKind string

const (
	SessionSignedIn       SessionChangeKind = "signed_in"
	SessionSignedOut      SessionChangeKind = "signed_out"
	SessionTokenRefreshed SessionChangeKind = "token_refreshed"
)

// SessionChange is delivered to subscribers on every sign-in, sign-out, or
// token refresh. Session is nil when the change cleared the session.
type SessionChange struct {
	Kind    SessionChangeKind
	Session *Session
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountExists = errors.New("account already exists")
var ErrAccountNotFound = errors.New("account not found")
var ErrSessionNotFound = errors.New("session not found")
var ErrProfileNotFound = errors.New("profile not found")
var ErrProfileExists = errors.New("profile already exists")
var ErrLinkNotFound = errors.New("sign-in link not found or already used")
var ErrUnauthorized = errors.New("unauthorized")
