package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/metrics"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

const (
	defaultResolverTTL     = 30 * time.Minute
	arbiterCleanupInterval = 5 * time.Minute
)

// ResolverFactory builds a resolver bound to one session token.
type ResolverFactory func(token string) ports.Resolver

// Arbiter caches one started resolver per session token so repeated requests
// from the same browser session reuse the resolved user instead of refetching
// the profile every time. Idle entries are evicted after a TTL.
type Arbiter struct {
	factory ResolverFactory
	ttl     time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	entries map[string]*arbiterEntry

	ctx    context.Context
	cancel context.CancelFunc
}

type arbiterEntry struct {
	resolver ports.Resolver
	lastSeen time.Time
}

// NewArbiter creates an Arbiter and starts its background eviction loop.
// If ttl <= 0, defaultResolverTTL is used.
func NewArbiter(factory ResolverFactory, ttl time.Duration, log zerolog.Logger) *Arbiter {
	if ttl <= 0 {
		ttl = defaultResolverTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Arbiter{
		factory: factory,
		ttl:     ttl,
		log:     log,
		entries: make(map[string]*arbiterEntry),
		ctx:     ctx,
		cancel:  cancel,
	}
	go a.cleanupLoop()
	return a
}

// ResolverFor returns the resolver for token, creating and starting one when
// none is cached yet.
func (a *Arbiter) ResolverFor(token string) ports.Resolver {
	a.mu.Lock()
	if entry, ok := a.entries[token]; ok {
		entry.lastSeen = time.Now()
		a.mu.Unlock()
		return entry.resolver
	}
	a.mu.Unlock()

	// Build outside the lock: Start performs backend I/O.
	resolver := a.factory(token)
	if starter, ok := resolver.(interface{ Start(context.Context) }); ok {
		starter.Start(a.ctx)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// Double check: another request may have raced us here.
	if entry, ok := a.entries[token]; ok {
		resolver.Close()
		entry.lastSeen = time.Now()
		return entry.resolver
	}
	a.entries[token] = &arbiterEntry{resolver: resolver, lastSeen: time.Now()}
	metrics.ActiveResolvers.Set(float64(len(a.entries)))
	return resolver
}

// Adopt caches an externally built, already-started resolver under token.
// Used by the login flow, where the token only exists after sign-in succeeds.
func (a *Arbiter) Adopt(token string, resolver ports.Resolver) {
	if token == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.entries[token]; ok && prev.resolver != resolver {
		prev.resolver.Close()
	}
	a.entries[token] = &arbiterEntry{resolver: resolver, lastSeen: time.Now()}
	metrics.ActiveResolvers.Set(float64(len(a.entries)))
}

// Evict drops and closes the resolver for token, if any.
func (a *Arbiter) Evict(token string) {
	a.mu.Lock()
	entry, ok := a.entries[token]
	if ok {
		delete(a.entries, token)
		metrics.ActiveResolvers.Set(float64(len(a.entries)))
	}
	a.mu.Unlock()

	if ok {
		entry.resolver.Close()
	}
}

// Len reports the number of cached resolvers. For tests and metrics.
func (a *Arbiter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Close stops the eviction loop and closes every cached resolver.
func (a *Arbiter) Close() {
	a.cancel()

	a.mu.Lock()
	entries := a.entries
	a.entries = make(map[string]*arbiterEntry)
	a.mu.Unlock()

	for _, entry := range entries {
		entry.resolver.Close()
	}
	metrics.ActiveResolvers.Set(0)
}

func (a *Arbiter) cleanupLoop() {
	interval := arbiterCleanupInterval
	if a.ttl < interval {
		interval = a.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.evictIdle()
		}
	}
}

func (a *Arbiter) evictIdle() {
	now := time.Now()
	var stale []*arbiterEntry

	a.mu.Lock()
	for token, entry := range a.entries {
		if now.Sub(entry.lastSeen) > a.ttl {
			delete(a.entries, token)
			stale = append(stale, entry)
		}
	}
	metrics.ActiveResolvers.Set(float64(len(a.entries)))
	a.mu.Unlock()

	for _, entry := range stale {
		entry.resolver.Close()
	}
	if len(stale) > 0 {
		a.log.Debug().Int("evicted", len(stale)).Msg("idle resolvers evicted")
	}
}
