package domain

// State is the lifecycle state of a session resolver.
type State string

const (
	// StateInitializing covers startup, before the backend has been asked
	// for an existing session.
	StateInitializing State = "initializing"
	// StateUnauthenticated means no session is held.
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticatedPending means a session is present and the profile
	// fetch is in flight.
	StateAuthenticatedPending State = "authenticated_pending"
	// StateAuthenticatedResolved means session and ApplicationUser are both
	// available.
	StateAuthenticatedResolved State = "authenticated_resolved"
	// StateAuthenticatedUnresolved is the degraded state: the session is
	// live but profile fetch and fallback creation both failed. Role checks
	// fail closed; SignOut is still meaningful.
	StateAuthenticatedUnresolved State = "authenticated_unresolved"
)

// validStateTransitions defines the allowed resolver transitions.
var validStateTransitions = map[State][]State{
	StateInitializing:            {StateUnauthenticated, StateAuthenticatedPending},
	StateUnauthenticated:         {StateAuthenticatedPending},
	StateAuthenticatedPending:    {StateAuthenticatedResolved, StateAuthenticatedUnresolved, StateUnauthenticated, StateAuthenticatedPending},
	StateAuthenticatedResolved:   {StateUnauthenticated, StateAuthenticatedPending},
	StateAuthenticatedUnresolved: {StateUnauthenticated, StateAuthenticatedPending},
}

func (s State) String() string { return string(s) }

// CanTransitionTo reports whether moving from s to next is a legal resolver
// transition.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range validStateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Settled reports whether the resolver has left its transient states: either
// no session is held or profile resolution has concluded one way or the other.
func (s State) Settled() bool {
	switch s {
	case StateUnauthenticated, StateAuthenticatedResolved, StateAuthenticatedUnresolved:
		return true
	}
	return false
}
