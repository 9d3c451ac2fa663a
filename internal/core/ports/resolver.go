package ports

import (
	"context"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// Resolver is the single source of truth for "who is the current user" within
// one session context. The route guard and view handlers are read-only
// observers; only the resolver mutates the session/user pair.
type Resolver interface {
	// State reports the resolver's current lifecycle state.
	State() domain.State

	// CurrentUser returns the resolved ApplicationUser, or nil in every
	// state except StateAuthenticatedResolved.
	CurrentUser() *domain.ApplicationUser

	// CurrentSession returns the held session, or nil when unauthenticated.
	CurrentSession() *domain.Session

	// IsAuthenticated reports session presence. It can be true while
	// CurrentUser is still nil (pending or degraded resolution).
	IsAuthenticated() bool

	// HasRole reports whether the resolved user's role is among roles.
	// Returns false whenever CurrentUser is nil (fail closed).
	HasRole(roles ...domain.Role) bool

	// SignInWithCredentials delegates verification to the backend. A false
	// return reveals nothing about the cause. A true return does not mean
	// the user is resolved yet; resolution arrives asynchronously.
	SignInWithCredentials(ctx context.Context, email, secret string) bool

	// SendPasswordlessLink requests a one-time sign-in link by email.
	SendPasswordlessLink(ctx context.Context, email string) bool

	// RegisterAccount requests account creation; true means accepted.
	RegisterAccount(ctx context.Context, email, secret, displayName string) bool

	// SignOut clears session and user before returning, regardless of
	// backend acknowledgment latency.
	SignOut(ctx context.Context)

	// WaitSettled blocks until the resolver leaves its transient states or
	// ctx is done, and returns the state observed at that point.
	WaitSettled(ctx context.Context) domain.State

	// Subscribe registers fn to run after every state change. The returned
	// function unsubscribes.
	Subscribe(fn func()) (unsubscribe func())

	// Close tears down the backend subscription. The resolver must not be
	// used afterwards.
	Close()
}
