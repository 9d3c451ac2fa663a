package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/middleware"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// scriptedResolver plays back configured results.
type scriptedResolver struct {
	signInOK bool
	session  *domain.Session
	user     *domain.ApplicationUser
	state    domain.State

	signedOut bool
	closed    bool
}

func (s *scriptedResolver) State() domain.State { return s.state }
func (s *scriptedResolver) CurrentUser() *domain.ApplicationUser { return s.user }
func (s *scriptedResolver) CurrentSession() *domain.Session { return s.session }
func (s *scriptedResolver) IsAuthenticated() bool { return s.session != nil }

func (s *scriptedResolver) HasRole(roles ...domain.Role) bool {
	if s.user == nil {
		return false
	}
	return s.user.Role.In(roles...)
}

func (s *scriptedResolver) SignInWithCredentials(_ context.Context, _, _ string) bool {
	if !s.signInOK {
		s.session = nil
		s.user = nil
	}
	return s.signInOK
}

func (s *scriptedResolver) SendPasswordlessLink(_ context.Context, _ string) bool { return true }
func (s *scriptedResolver) RegisterAccount(_ context.Context, _, _, _ string) bool {
	return s.signInOK
}

func (s *scriptedResolver) SignOut(_ context.Context) {
	s.signedOut = true
	s.session = nil
	s.user = nil
}

func (s *scriptedResolver) WaitSettled(_ context.Context) domain.State { return s.state }
func (s *scriptedResolver) Subscribe(_ func()) func() { return func() {} }
func (s *scriptedResolver) Close() { s.closed = true }

// stubBackend satisfies IdentityBackend.
type stubBackend struct {
	client   ports.IdentityClient
	redeemFn func(ctx context.Context, token string) (*domain.Session, string, error)
}

func (b *stubBackend) ClientFor(_ string) ports.IdentityClient { return b.client }

func (b *stubBackend) RedeemPasswordlessLink(ctx context.Context, token string) (*domain.Session, string, error) {
	return b.redeemFn(ctx, token)
}

// noopClient is the minimal ports.IdentityClient for flows that never touch it.
type noopClient struct{}

func (noopClient) CurrentSession(_ context.Context) (*domain.Session, error) { return nil, nil }
func (noopClient) SubscribeSessionChanges(_ func(domain.SessionChange)) func() { return func() {} }
func (noopClient) VerifyCredentials(_ context.Context, _, _ string) error { return nil }
func (noopClient) IssuePasswordlessLink(_ context.Context, _, _ string) error { return nil }
func (noopClient) CreateAccount(_ context.Context, _, _, _ string) error { return nil }
func (noopClient) InvalidateSession(_ context.Context) error { return nil }

// recordingRegistry satisfies SessionRegistry.
type recordingRegistry struct {
	resolvers map[string]ports.Resolver
	adopted   map[string]ports.Resolver
	evicted   []string
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{
		resolvers: make(map[string]ports.Resolver),
		adopted:   make(map[string]ports.Resolver),
	}
}

func (r *recordingRegistry) ResolverFor(token string) ports.Resolver {
	if resolver, ok := r.resolvers[token]; ok {
		return resolver
	}
	return &scriptedResolver{state: domain.StateUnauthenticated}
}

func (r *recordingRegistry) Adopt(token string, resolver ports.Resolver) {
	r.adopted[token] = resolver
	r.resolvers[token] = resolver
}

func (r *recordingRegistry) Evict(token string) {
	r.evicted = append(r.evicted, token)
	delete(r.resolvers, token)
}

func testSession(token string) *domain.Session {
	return &domain.Session{
		Token:      token,
		ID:         "sess-1",
		IdentityID: "id-1",
		Email:      "alice@example.org",
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func newAuthFixture(resolver *scriptedResolver) (*AuthHandler, *recordingRegistry, *stubBackend) {
	registry := newRecordingRegistry()
	backend := &stubBackend{client: noopClient{}}
	factory := func(_ ports.IdentityClient) ports.Resolver { return resolver }
	h := NewAuthHandler(backend, registry, factory, AuthHandlerConfig{LoginPath: "/login"}, zerolog.Nop())
	return h, registry, backend
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginSuccessSetsCookieAndPortal(t *testing.T) {
	resolver := &scriptedResolver{
		signInOK: true,
		session:  testSession("tok-1"),
		user:     &domain.ApplicationUser{IdentityID: "id-1", Email: "alice@example.org", Role: domain.RoleStaff},
		state:    domain.StateAuthenticatedResolved,
	}
	h, registry, _ := newAuthFixture(resolver)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.org","password":"hunter22"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if registry.adopted["tok-1"] == nil {
		t.Error("resolver was not adopted under its session token")
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "tok-1" {
		t.Fatalf("session cookie = %+v, want value tok-1", cookie)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["portal"] != "/portal/staff" {
		t.Errorf("portal = %v, want /portal/staff", resp["portal"])
	}
	if resp["authenticated"] != true {
		t.Errorf("authenticated = %v, want true", resp["authenticated"])
	}
}

func TestLoginFailureIsGenericAndClosesResolver(t *testing.T) {
	resolver := &scriptedResolver{signInOK: false, state: domain.StateUnauthenticated}
	h, registry, _ := newAuthFixture(resolver)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.org","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if !resolver.closed {
		t.Error("resolver not closed after failed login")
	}
	if len(registry.adopted) != 0 {
		t.Error("resolver adopted despite failed login")
	}
}

func TestLoginRejectsBadPayload(t *testing.T) {
	h, _, _ := newAuthFixture(&scriptedResolver{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("Login() error = %v, want 400 HTTPError", err)
	}
}

func TestLoginHonorsSafeFromParam(t *testing.T) {
	resolver := &scriptedResolver{
		signInOK: true,
		session:  testSession("tok-2"),
		user:     &domain.ApplicationUser{IdentityID: "id-1", Role: domain.RoleFamily},
		state:    domain.StateAuthenticatedResolved,
	}
	h, _, _ := newAuthFixture(resolver)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login?from=%2Fportal%2Ffamily%3Ftab%3Devents", `{"email":"a@b.org","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["portal"] != "/portal/family?tab=events" {
		t.Errorf("portal = %v, want the from target", resp["portal"])
	}
}

func TestLoginIgnoresExternalFromParam(t *testing.T) {
	resolver := &scriptedResolver{
		signInOK: true,
		session:  testSession("tok-3"),
		user:     &domain.ApplicationUser{IdentityID: "id-1", Role: domain.RoleFamily},
		state:    domain.StateAuthenticatedResolved,
	}
	h, _, _ := newAuthFixture(resolver)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login?from=%2F%2Fevil.example.com", `{"email":"a@b.org","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["portal"] != "/portal/family" {
		t.Errorf("portal = %v, want role portal instead of external target", resp["portal"])
	}
}

func TestLogoutSignsOutAndEvicts(t *testing.T) {
	resolver := &scriptedResolver{
		session: testSession("tok-4"),
		user:    &domain.ApplicationUser{IdentityID: "id-1", Role: domain.RoleFamily},
		state:   domain.StateAuthenticatedResolved,
	}
	h, registry, _ := newAuthFixture(resolver)
	registry.resolvers["tok-4"] = resolver

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-4"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if !resolver.signedOut {
		t.Error("resolver was not signed out")
	}
	if len(registry.evicted) != 1 || registry.evicted[0] != "tok-4" {
		t.Errorf("evicted = %v, want [tok-4]", registry.evicted)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Errorf("session cookie not cleared: %+v", cookie)
	}
}

func TestLogoutWithoutSessionStillClearsCookie(t *testing.T) {
	h, registry, _ := newAuthFixture(&scriptedResolver{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(registry.evicted) != 0 {
		t.Errorf("evicted = %v without a session", registry.evicted)
	}
}

func TestSessionEndpointAnonymous(t *testing.T) {
	h, _, _ := newAuthFixture(&scriptedResolver{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Session(c); err != nil {
		t.Fatalf("Session() error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authenticated"] != false {
		t.Errorf("authenticated = %v, want false", resp["authenticated"])
	}
	if resp["state"] != string(domain.StateUnauthenticated) {
		t.Errorf("state = %v, want %s", resp["state"], domain.StateUnauthenticated)
	}
}

func TestSessionEndpointResolvedUser(t *testing.T) {
	resolver := &scriptedResolver{
		session: testSession("tok-5"),
		user:    &domain.ApplicationUser{IdentityID: "id-1", Email: "alice@example.org", Role: domain.RoleAdmin},
		state:   domain.StateAuthenticatedResolved,
	}
	h, registry, _ := newAuthFixture(resolver)
	registry.resolvers["tok-5"] = resolver

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-5"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Session(c); err != nil {
		t.Fatalf("Session() error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authenticated"] != true {
		t.Errorf("authenticated = %v, want true", resp["authenticated"])
	}
	if resp["portal"] != "/portal/admin" {
		t.Errorf("portal = %v, want /portal/admin", resp["portal"])
	}
}

func TestRedeemMagicLinkRedirects(t *testing.T) {
	resolver := &scriptedResolver{
		session: testSession("tok-6"),
		user:    &domain.ApplicationUser{IdentityID: "id-1", Role: domain.RoleFamily},
		state:   domain.StateAuthenticatedResolved,
	}
	h, registry, backend := newAuthFixture(resolver)
	registry.resolvers["tok-6"] = resolver
	backend.redeemFn = func(_ context.Context, token string) (*domain.Session, string, error) {
		if token != "link-token" {
			t.Fatalf("redeem token = %s", token)
		}
		return testSession("tok-6"), "/portal/family", nil
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/magic?token=link-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RedeemMagicLink(c); err != nil {
		t.Fatalf("RedeemMagicLink() error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/portal/family" {
		t.Errorf("redirect = %s, want /portal/family", loc)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "tok-6" {
		t.Errorf("session cookie = %+v, want tok-6", cookie)
	}
}

func TestRedeemMagicLinkInvalidTokenRedirectsToLogin(t *testing.T) {
	h, _, backend := newAuthFixture(&scriptedResolver{})
	backend.redeemFn = func(_ context.Context, _ string) (*domain.Session, string, error) {
		return nil, "", domain.ErrLinkNotFound
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/magic?token=used-up", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RedeemMagicLink(c); err != nil {
		t.Fatalf("RedeemMagicLink() error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("redirect = %s, want login page", loc)
	}
	if sessionCookie(rec) != nil {
		t.Error("session cookie set for a failed redeem")
	}
}

func TestMagicLinkRequestAlwaysAccepted(t *testing.T) {
	h, _, _ := newAuthFixture(&scriptedResolver{})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/magic-link", `{"email":"anyone@example.org"}`)
	if err := h.MagicLink(c); err != nil {
		t.Fatalf("MagicLink() error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
}

func TestRegisterAccepted(t *testing.T) {
	h, _, _ := newAuthFixture(&scriptedResolver{signInOK: true, state: domain.StateUnauthenticated})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", `{"email":"new@example.org","password":"longenough","display_name":"New User"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
}

func TestRegisterFailure(t *testing.T) {
	h, _, _ := newAuthFixture(&scriptedResolver{signInOK: false, state: domain.StateUnauthenticated})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register", `{"email":"dup@example.org","password":"longenough","display_name":"Dup"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("Register() error = %v, want 400 HTTPError", err)
	}
}
