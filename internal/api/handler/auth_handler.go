package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/metrics"
	"github.com/samaraworks/portal-api/internal/api/middleware"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// IdentityBackend is the slice of the identity service the auth handler
// talks to directly. Everything else goes through a resolver.
type IdentityBackend interface {
	ClientFor(token string) ports.IdentityClient
	RedeemPasswordlessLink(ctx context.Context, token string) (*domain.Session, string, error)
}

// SessionRegistry tracks live resolvers keyed by session token.
type SessionRegistry interface {
	ResolverFor(token string) ports.Resolver
	Adopt(token string, resolver ports.Resolver)
	Evict(token string)
}

// ResolverFactory builds and starts a resolver bound to the given client.
// Implementations start the resolver on a long-lived context: the resolver
// may outlive the request that created it once the registry adopts it.
type ResolverFactory func(client ports.IdentityClient) ports.Resolver

type AuthHandlerConfig struct {
	CookieSecure bool
	LoginPath    string
}

type AuthHandler struct {
	backend     IdentityBackend
	registry    SessionRegistry
	newResolver ResolverFactory
	cfg         AuthHandlerConfig
	log         zerolog.Logger
}

func NewAuthHandler(backend IdentityBackend, registry SessionRegistry, factory ResolverFactory, cfg AuthHandlerConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		backend:     backend,
		registry:    registry,
		newResolver: factory,
		cfg:         cfg,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
}

type magicLinkRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ReturnURL string `json:"return_url,omitempty"`
}

type sessionResponse struct {
	Authenticated bool                    `json:"authenticated"`
	State         string                  `json:"state"`
	User          *domain.ApplicationUser `json:"user,omitempty"`
	Portal        string                  `json:"portal,omitempty"`
}

// Login verifies credentials and establishes a cookie session.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	client := h.backend.ClientFor("")
	resolver := h.newResolver(client)

	if !resolver.SignInWithCredentials(ctx, req.Email, req.Password) {
		resolver.Close()
		return domain.ErrInvalidCredentials
	}

	state := resolver.WaitSettled(ctx)
	session := resolver.CurrentSession()
	if session == nil {
		resolver.Close()
		return domain.ErrInvalidCredentials
	}

	h.registry.Adopt(session.Token, resolver)
	h.setSessionCookie(c, session)

	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		State:         state.String(),
		User:          resolver.CurrentUser(),
		Portal:        h.returnTarget(c, resolver),
	})
}

// Register creates a new account. The caller signs in separately once
// the account exists.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	resolver := h.newResolver(h.backend.ClientFor(""))
	defer resolver.Close()

	if !resolver.RegisterAccount(ctx, req.Email, req.Password, req.DisplayName) {
		return echo.NewHTTPError(http.StatusBadRequest, "registration failed")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "registered"})
}

// MagicLink issues a passwordless sign-in link. The response is the
// same whether or not the address is known.
//
// @Summary      Request a passwordless sign-in link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      magicLinkRequest  true  "Destination address"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/magic-link [post]
func (h *AuthHandler) MagicLink(c echo.Context) error {
	var req magicLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	returnURL := req.ReturnURL
	if !safeReturnPath(returnURL) {
		returnURL = ""
	}
	if err := h.backend.ClientFor("").IssuePasswordlessLink(ctx, req.Email, returnURL); err != nil {
		h.log.Warn().Err(err).Msg("passwordless link not issued")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "sent"})
}

// RedeemMagicLink consumes a link token and establishes a cookie
// session, then redirects to the requested page or the user's portal.
//
// @Summary      Redeem a passwordless sign-in link
// @Tags         auth
// @Param        token  query  string  true  "Link token"
// @Success      302
// @Router       /auth/magic [get]
func (h *AuthHandler) RedeemMagicLink(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}

	ctx := c.Request().Context()
	session, returnURL, err := h.backend.RedeemPasswordlessLink(ctx, token)
	if err != nil {
		metrics.PasswordlessLinksTotal.WithLabelValues("rejected").Inc()
		return c.Redirect(http.StatusFound, h.cfg.LoginPath+"?error=link_invalid")
	}
	metrics.PasswordlessLinksTotal.WithLabelValues("redeemed").Inc()

	resolver := h.registry.ResolverFor(session.Token)
	settleCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	resolver.WaitSettled(settleCtx)
	cancel()

	h.setSessionCookie(c, session)

	target := returnURL
	if !safeReturnPath(target) {
		target = middleware.PortalPath(resolver)
	}
	return c.Redirect(http.StatusFound, target)
}

// Logout tears down the session everywhere it is known.
//
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.SessionToken(c); token != "" {
		resolver := h.registry.ResolverFor(token)
		resolver.SignOut(c.Request().Context())
		h.registry.Evict(token)
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Session reports the caller's current authentication state.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	token := middleware.SessionToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, sessionResponse{
			Authenticated: false,
			State:         domain.StateUnauthenticated.String(),
		})
	}

	resolver := h.registry.ResolverFor(token)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	state := resolver.WaitSettled(ctx)
	cancel()

	resp := sessionResponse{
		Authenticated: resolver.IsAuthenticated(),
		State:         state.String(),
		User:          resolver.CurrentUser(),
	}
	if resp.Authenticated {
		resp.Portal = middleware.PortalPath(resolver)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, session *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// returnTarget picks the post-login destination: a safe "from" query
// parameter if one was carried through, otherwise the portal matching
// the user's role.
func (h *AuthHandler) returnTarget(c echo.Context, resolver ports.Resolver) string {
	if from := c.QueryParam("from"); safeReturnPath(from) {
		return from
	}
	return middleware.PortalPath(resolver)
}

// safeReturnPath accepts only local absolute paths so redirects can
// never leave the site.
func safeReturnPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Host == "" && u.Scheme == ""
}
