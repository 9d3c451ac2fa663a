package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// fakeResolver counts lifecycle calls; everything else is inert.
type fakeResolver struct {
	mu      sync.Mutex
	started int
	closed  int
}

func (f *fakeResolver) Start(_ context.Context) {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
}

func (f *fakeResolver) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeResolver) State() domain.State { return domain.StateUnauthenticated }
func (f *fakeResolver) CurrentUser() *domain.ApplicationUser { return nil }
func (f *fakeResolver) CurrentSession() *domain.Session { return nil }
func (f *fakeResolver) IsAuthenticated() bool { return false }
func (f *fakeResolver) HasRole(_ ...domain.Role) bool { return false }

func (f *fakeResolver) SignInWithCredentials(_ context.Context, _, _ string) bool { return false }
func (f *fakeResolver) SendPasswordlessLink(_ context.Context, _ string) bool { return false }
func (f *fakeResolver) RegisterAccount(_ context.Context, _, _, _ string) bool { return false }
func (f *fakeResolver) SignOut(_ context.Context) {}

func (f *fakeResolver) WaitSettled(_ context.Context) domain.State {
	return domain.StateUnauthenticated
}
func (f *fakeResolver) Subscribe(_ func()) func() { return func() {} }

func TestArbiterReusesResolverPerToken(t *testing.T) {
	var built int
	a := NewArbiter(func(_ string) ports.Resolver {
		built++
		return &fakeResolver{}
	}, time.Minute, zerolog.Nop())
	defer a.Close()

	r1 := a.ResolverFor("tok-a")
	r2 := a.ResolverFor("tok-a")
	if r1 != r2 {
		t.Error("same token produced different resolvers")
	}
	if built != 1 {
		t.Errorf("factory called %d times, want 1", built)
	}

	a.ResolverFor("tok-b")
	if built != 2 {
		t.Errorf("factory called %d times for two tokens, want 2", built)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestArbiterStartsCreatedResolvers(t *testing.T) {
	fake := &fakeResolver{}
	a := NewArbiter(func(_ string) ports.Resolver { return fake }, time.Minute, zerolog.Nop())
	defer a.Close()

	a.ResolverFor("tok")
	if fake.started != 1 {
		t.Errorf("started = %d, want 1", fake.started)
	}
}

func TestArbiterAdoptReplacesExisting(t *testing.T) {
	old := &fakeResolver{}
	a := NewArbiter(func(_ string) ports.Resolver { return old }, time.Minute, zerolog.Nop())
	defer a.Close()

	a.ResolverFor("tok")

	adopted := &fakeResolver{}
	a.Adopt("tok", adopted)

	if old.closed != 1 {
		t.Errorf("replaced resolver closed %d times, want 1", old.closed)
	}
	if got := a.ResolverFor("tok"); got != ports.Resolver(adopted) {
		t.Error("ResolverFor did not return the adopted resolver")
	}
}

func TestArbiterAdoptIgnoresEmptyToken(t *testing.T) {
	a := NewArbiter(func(_ string) ports.Resolver { return &fakeResolver{} }, time.Minute, zerolog.Nop())
	defer a.Close()

	a.Adopt("", &fakeResolver{})
	if a.Len() != 0 {
		t.Errorf("Len() = %d after empty-token adopt, want 0", a.Len())
	}
}

func TestArbiterEvictClosesResolver(t *testing.T) {
	fake := &fakeResolver{}
	a := NewArbiter(func(_ string) ports.Resolver { return fake }, time.Minute, zerolog.Nop())
	defer a.Close()

	a.ResolverFor("tok")
	a.Evict("tok")

	if fake.closed != 1 {
		t.Errorf("closed = %d after evict, want 1", fake.closed)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after evict, want 0", a.Len())
	}
}

func TestArbiterEvictsIdleEntries(t *testing.T) {
	fake := &fakeResolver{}
	a := NewArbiter(func(_ string) ports.Resolver { return fake }, 10*time.Millisecond, zerolog.Nop())
	defer a.Close()

	a.ResolverFor("tok")
	time.Sleep(20 * time.Millisecond)
	a.evictIdle()

	if a.Len() != 0 {
		t.Errorf("Len() = %d after idle eviction, want 0", a.Len())
	}
	if fake.closed != 1 {
		t.Errorf("closed = %d after idle eviction, want 1", fake.closed)
	}
}

func TestArbiterCloseClosesAll(t *testing.T) {
	r1, r2 := &fakeResolver{}, &fakeResolver{}
	resolvers := map[string]*fakeResolver{"a": r1, "b": r2}
	a := NewArbiter(func(token string) ports.Resolver { return resolvers[token] }, time.Minute, zerolog.Nop())

	a.ResolverFor("a")
	a.ResolverFor("b")
	a.Close()

	if r1.closed != 1 || r2.closed != 1 {
		t.Errorf("closed = (%d, %d) after Close, want (1, 1)", r1.closed, r2.closed)
	}
}
