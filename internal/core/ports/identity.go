package ports

import (
	"context"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// IdentityClient is a session-scoped view of the identity backend. One client
// serves one browser session; the resolver holds exactly one client for its
// whole lifetime.
//
// All operations that can fail return errors; credential failures surface as
// domain.ErrInvalidCredentials regardless of cause so callers cannot
// distinguish "unknown email" from "wrong password".
type IdentityClient interface {
	// CurrentSession returns the live session for this client, or (nil, nil)
	// when none exists.
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// SubscribeSessionChanges registers handler for every sign-in, sign-out,
	// or token refresh affecting this client's session. The returned
	// function unsubscribes; it must be called on resolver teardown.
	SubscribeSessionChanges(handler func(domain.SessionChange)) (unsubscribe func())

	// VerifyCredentials checks email/secret and, on success, establishes a
	// session delivered via the change subscription.
	VerifyCredentials(ctx context.Context, email, secret string) error

	// IssuePasswordlessLink emails a one-time sign-in link scoped to returnURL.
	IssuePasswordlessLink(ctx context.Context, email, returnURL string) error

	// CreateAccount requests account creation. Success means the request was
	// accepted, not that the caller is signed in.
	CreateAccount(ctx context.Context, email, secret, displayName string) error

	// InvalidateSession revokes this client's session. Idempotent.
	InvalidateSession(ctx context.Context) error
}

// ProfileRepository persists the identity-to-role profile records.
type ProfileRepository interface {
	// FetchByIdentity returns the profile for an identity id, or
	// domain.ErrProfileNotFound.
	FetchByIdentity(ctx context.Context, identityID string) (*domain.Profile, error)

	// Insert stores a new profile row. A concurrent duplicate insert for the
	// same identity returns domain.ErrProfileExists.
	Insert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}
