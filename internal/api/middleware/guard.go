package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/metrics"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "sw_session"

// userContextKey is where the guard stores the resolved user for handlers.
const userContextKey = "portal_user"

// fromParam carries the originally requested path through the sign-in
// redirect so the login flow can return the user afterwards.
const fromParam = "from"

const settleTimeout = 5 * time.Second

// Resolvers provides the resolver for a session token. Implemented by
// service.Arbiter.
type Resolvers interface {
	ResolverFor(token string) ports.Resolver
}

// GuardConfig holds the redirect targets for denied navigation.
type GuardConfig struct {
	LoginPath        string
	UnauthorizedPath string
}

// Guard gates a route group behind the given allowed roles.
//
// No session redirects to the sign-in page with the requested path attached.
// A session whose role check fails redirects to the unauthorized page
// instead. An empty allowed set is a configuration mistake: it is logged
// once and the route denies everyone.
func Guard(resolvers Resolvers, cfg GuardConfig, log zerolog.Logger, allowed ...domain.Role) echo.MiddlewareFunc {
	if len(allowed) == 0 {
		log.Warn().Msg("route guard configured with empty role set; all access will be denied")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				metrics.GuardDecisionsTotal.WithLabelValues("login_redirect").Inc()
				return redirectToLogin(c, cfg)
			}

			resolver := resolvers.ResolverFor(token)

			// Give a fresh resolver a bounded window to settle; transient
			// states fail closed rather than erroring.
			waitCtx, cancel := context.WithTimeout(c.Request().Context(), settleTimeout)
			resolver.WaitSettled(waitCtx)
			cancel()

			if !resolver.IsAuthenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("login_redirect").Inc()
				return redirectToLogin(c, cfg)
			}

			if !resolver.HasRole(allowed...) {
				metrics.GuardDecisionsTotal.WithLabelValues("unauthorized").Inc()
				return c.Redirect(http.StatusFound, cfg.UnauthorizedPath)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
			c.Set(userContextKey, resolver.CurrentUser())
			return next(c)
		}
	}
}

// SessionToken extracts the session token from the cookie or, failing that,
// a bearer Authorization header.
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// CurrentUser returns the user the guard attached to this request, or nil on
// unguarded routes.
func CurrentUser(c echo.Context) *domain.ApplicationUser {
	user, _ := c.Get(userContextKey).(*domain.ApplicationUser)
	return user
}

// PortalPath picks the landing portal for a signed-in user, most privileged
// role first. Users with no resolved role land on the family portal.
func PortalPath(resolver ports.Resolver) string {
	for _, role := range domain.PortalPriority {
		if resolver.HasRole(role) {
			return "/portal/" + string(role)
		}
	}
	return "/portal/" + string(domain.RoleFamily)
}

func redirectToLogin(c echo.Context, cfg GuardConfig) error {
	target := cfg.LoginPath + "?" + fromParam + "=" + url.QueryEscape(c.Request().URL.Path)
	return c.Redirect(http.StatusFound, target)
}
