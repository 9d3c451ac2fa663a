package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/metrics"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

const defaultResolveTimeout = 10 * time.Second

// ResolverOptions tunes a Resolver. DefaultRole is the role assigned to
// profiles created on first login.
type ResolverOptions struct {
	DefaultRole    domain.Role
	ResolveTimeout time.Duration
	Log            zerolog.Logger
}

// Resolver owns the current session and the ApplicationUser derived from it.
// It reacts to backend session-change notifications and is the sole authority
// for role-membership checks.
//
// Every profile resolution is tagged with a generation counter incremented on
// each session change. A resolution only commits when its generation is still
// current, so a late-arriving fetch can never resurrect a user after SignOut
// has cleared the session.
type Resolver struct {
	backend        ports.IdentityClient
	profiles       ports.ProfileRepository
	defaultRole    domain.Role
	resolveTimeout time.Duration
	log            zerolog.Logger

	mu            sync.Mutex
	state         domain.State
	session       *domain.Session
	user          *domain.ApplicationUser
	generation    uint64
	settledCh     chan struct{}
	settledClosed bool
	observers     map[int]func()
	nextObserver  int
	unsubscribe   func()
	closed        bool

	baseCtx context.Context
}

// NewResolver constructs a Resolver in StateInitializing. Call Start before
// querying it.
func NewResolver(backend ports.IdentityClient, profiles ports.ProfileRepository, opts ResolverOptions) *Resolver {
	role := opts.DefaultRole
	if !role.Valid() {
		role = domain.RoleFamily
	}
	timeout := opts.ResolveTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &Resolver{
		backend:        backend,
		profiles:       profiles,
		defaultRole:    role,
		resolveTimeout: timeout,
		log:            opts.Log,
		state:          domain.StateInitializing,
		settledCh:      make(chan struct{}),
		observers:      make(map[int]func()),
		baseCtx:        context.Background(),
	}
}

// Start subscribes to backend session changes and asks for any existing
// session. Subscription happens first so no change can slip between the two.
func (r *Resolver) Start(ctx context.Context) {
	r.mu.Lock()
	r.baseCtx = ctx
	r.unsubscribe = r.backend.SubscribeSessionChanges(r.onSessionChange)
	r.mu.Unlock()

	session, err := r.backend.CurrentSession(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("initial session lookup failed")
	}
	if session == nil {
		r.clearSession()
		return
	}
	r.adoptSession(session)
}

// Close tears down the backend subscription and discards any pending
// resolution.
func (r *Resolver) Close() {
	r.mu.Lock()
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.closed = true
	r.generation++
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// State reports the resolver's current lifecycle state.
func (r *Resolver) State() domain.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentUser returns the resolved user, or nil outside
// StateAuthenticatedResolved.
func (r *Resolver) CurrentUser() *domain.ApplicationUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user
}

// CurrentSession returns the held session, or nil when unauthenticated.
func (r *Resolver) CurrentSession() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// IsAuthenticated reports session presence. This can disagree with HasRole
// while resolution is pending or degraded.
func (r *Resolver) IsAuthenticated() bool {
	return r.CurrentSession() != nil
}

// HasRole reports whether the resolved user's role is among roles. It fails
// closed: absent user, absent session, or an empty role set all return false.
func (r *Resolver) HasRole(roles ...domain.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil || len(roles) == 0 {
		return false
	}
	return r.user.Role.In(roles...)
}

// SignInWithCredentials delegates verification to the backend. A wrong
// secret, an unknown email and a backend outage all yield the same false
// result so callers cannot enumerate accounts. On success the session
// arrives via the change subscription; the user is not resolved when this
// returns.
func (r *Resolver) SignInWithCredentials(ctx context.Context, email, secret string) bool {
	if err := r.backend.VerifyCredentials(ctx, email, secret); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			r.log.Warn().Err(err).Msg("credential verification failed")
		}
		metrics.SignInAttemptsTotal.WithLabelValues("failure").Inc()
		return false
	}
	metrics.SignInAttemptsTotal.WithLabelValues("success").Inc()
	return true
}

// SendPasswordlessLink asks the backend to email a one-time sign-in link.
// Resolver state is unchanged.
func (r *Resolver) SendPasswordlessLink(ctx context.Context, email string) bool {
	if err := r.backend.IssuePasswordlessLink(ctx, email, ""); err != nil {
		r.log.Warn().Err(err).Msg("passwordless link request failed")
		return false
	}
	return true
}

// RegisterAccount requests account creation. True means the request was
// accepted, not that the caller is signed in.
func (r *Resolver) RegisterAccount(ctx context.Context, email, secret, displayName string) bool {
	if err := r.backend.CreateAccount(ctx, email, secret, displayName); err != nil {
		if !errors.Is(err, domain.ErrAccountExists) {
			r.log.Warn().Err(err).Msg("account registration failed")
		}
		return false
	}
	return true
}

// SignOut clears session and user before the backend round trip so the caller
// never observes an authenticated state after this returns, and bumps the
// generation so an in-flight profile resolution cannot commit afterwards.
func (r *Resolver) SignOut(ctx context.Context) {
	r.clearSession()
	if err := r.backend.InvalidateSession(ctx); err != nil {
		r.log.Warn().Err(err).Msg("session invalidation failed")
	}
}

// WaitSettled blocks until the resolver leaves its transient states or ctx is
// done, returning the state observed at that point.
func (r *Resolver) WaitSettled(ctx context.Context) domain.State {
	for {
		r.mu.Lock()
		if r.state.Settled() {
			state := r.state
			r.mu.Unlock()
			return state
		}
		ch := r.settledCh
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return r.State()
		case <-ch:
		}
	}
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (r *Resolver) Subscribe(fn func()) func() {
	r.mu.Lock()
	id := r.nextObserver
	r.nextObserver++
	r.observers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// onSessionChange re-enters the state machine on every backend notification.
// A cleared session transitions to Unauthenticated synchronously; a new
// session restarts profile resolution under a fresh generation.
func (r *Resolver) onSessionChange(change domain.SessionChange) {
	if change.Session == nil {
		r.clearSession()
		return
	}
	r.adoptSession(change.Session)
}

// adoptSession installs a session and kicks off asynchronous profile
// resolution for it.
func (r *Resolver) adoptSession(session *domain.Session) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.setStateLocked(domain.StateAuthenticatedPending)
	r.session = session
	r.user = nil
	r.generation++
	gen := r.generation
	ctx := r.baseCtx
	r.mu.Unlock()
	r.notify()

	go r.resolveProfile(ctx, gen, session)
}

// clearSession drops session and user together. No stale user is observable
// once the session is gone.
func (r *Resolver) clearSession() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.setStateLocked(domain.StateUnauthenticated)
	r.session = nil
	r.user = nil
	r.generation++
	r.mu.Unlock()
	r.notify()
}

// resolveProfile fetches the profile for session's identity, creating a
// default-role row when none exists yet. The result only commits when gen is
// still the current generation.
func (r *Resolver) resolveProfile(ctx context.Context, gen uint64, session *domain.Session) {
	resolveCtx, cancel := context.WithTimeout(ctx, r.resolveTimeout)
	defer cancel()

	profile, result := r.fetchOrCreate(resolveCtx, session)

	r.mu.Lock()
	if r.closed || gen != r.generation || r.session == nil || r.session.ID != session.ID {
		r.mu.Unlock()
		metrics.ProfileResolutionsTotal.WithLabelValues("stale").Inc()
		r.log.Debug().Str("identity", session.IdentityID).Msg("stale profile resolution discarded")
		return
	}
	if profile == nil {
		// Session stays live; the resolver degrades instead of signing out.
		r.setStateLocked(domain.StateAuthenticatedUnresolved)
		r.user = nil
	} else {
		r.setStateLocked(domain.StateAuthenticatedResolved)
		r.user = profile.Project(session.Email)
	}
	r.mu.Unlock()
	r.notify()

	metrics.ProfileResolutionsTotal.WithLabelValues(result).Inc()
}

// fetchOrCreate implements the profile resolution algorithm: fetch, fall back
// to inserting a default-role row, and converge on the winning row when a
// concurrent insert beat ours.
func (r *Resolver) fetchOrCreate(ctx context.Context, session *domain.Session) (*domain.Profile, string) {
	profile, err := r.profiles.FetchByIdentity(ctx, session.IdentityID)
	if err == nil {
		return profile, "resolved"
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		r.log.Warn().Err(err).Str("identity", session.IdentityID).Msg("profile fetch failed")
		return nil, "unresolved"
	}

	now := time.Now().UTC()
	inserted, err := r.profiles.Insert(ctx, &domain.Profile{
		IdentityID:  session.IdentityID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Role:        r.defaultRole,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err == nil {
		return inserted, "created"
	}
	if errors.Is(err, domain.ErrProfileExists) {
		// Lost the creation race; the winner's row is authoritative.
		if profile, err := r.profiles.FetchByIdentity(ctx, session.IdentityID); err == nil {
			return profile, "resolved"
		}
	}
	r.log.Warn().Err(err).Str("identity", session.IdentityID).Msg("default profile creation failed")
	return nil, "unresolved"
}

// setStateLocked applies a state transition. Callers hold r.mu.
func (r *Resolver) setStateLocked(next domain.State) {
	if r.state == next {
		return
	}
	if !r.state.CanTransitionTo(next) {
		r.log.Debug().
			Str("from", string(r.state)).
			Str("to", string(next)).
			Msg("unexpected resolver transition")
	}
	r.state = next

	if next.Settled() {
		if !r.settledClosed {
			close(r.settledCh)
			r.settledClosed = true
		}
	} else if r.settledClosed {
		r.settledCh = make(chan struct{})
		r.settledClosed = false
	}
}

// notify runs observers outside the lock so they may query the resolver.
func (r *Resolver) notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.observers))
	for _, fn := range r.observers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
