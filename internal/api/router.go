package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/samaraworks/portal-api/internal/api/handler"
	"github.com/samaraworks/portal-api/internal/api/middleware"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
	"github.com/samaraworks/portal-api/internal/core/service"
	"github.com/samaraworks/portal-api/internal/infrastructure/config"
	storemongo "github.com/samaraworks/portal-api/internal/infrastructure/db/mongo"
	storeredis "github.com/samaraworks/portal-api/internal/infrastructure/db/redis"
	"github.com/samaraworks/portal-api/internal/infrastructure/identity"
	"github.com/samaraworks/portal-api/internal/infrastructure/queue"
)

// Deps bundles the long-lived components main wires up before the router
// is built.
type Deps struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client
	Log    zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with a shutdown func for the background components it started.
func NewRouter(ctx context.Context, deps Deps) (*echo.Echo, func(), error) {
	cfg := deps.Config
	log := deps.Log

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Persistence ---
	accounts, err := storemongo.NewAccountRepository(ctx, deps.Mongo)
	if err != nil {
		return nil, nil, err
	}
	profiles := storemongo.NewProfileRepository(deps.Mongo)
	intakeRepo := storemongo.NewIntakeRepository(deps.Mongo)
	sessions := storeredis.NewSessionStore(deps.Redis)
	links := storeredis.NewLinkStore(deps.Redis)

	// --- Identity backend ---
	identitySvc := identity.NewService(accounts, sessions, links, nil, identity.Options{
		JWTSecret:   cfg.JWTSecret,
		SessionTTL:  cfg.Auth.SessionTTL,
		LinkTTL:     cfg.Auth.LinkTTL,
		LinkBaseURL: cfg.Auth.LinkBaseURL,
		Log:         log,
	})

	// --- Resolvers ---
	resolverOpts := service.ResolverOptions{
		DefaultRole: domain.Role(cfg.Auth.DefaultRole),
		Log:         log,
	}
	arbiter := service.NewArbiter(func(token string) ports.Resolver {
		return service.NewResolver(identitySvc.ClientFor(token), profiles, resolverOpts)
	}, cfg.Auth.ResolverTTL, log)

	// Resolvers built for the login flow get adopted into the arbiter and
	// outlive the request, so they start with the server context.
	startedResolver := func(client ports.IdentityClient) ports.Resolver {
		r := service.NewResolver(client, profiles, resolverOpts)
		r.Start(ctx)
		return r
	}

	// --- Intake pipeline ---
	intakeSvc := service.NewIntakeService(intakeRepo, log)
	dispatcher := queue.NewDispatcher(0, intakeSvc, log)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(identitySvc, arbiter, startedResolver, handler.AuthHandlerConfig{
		CookieSecure: cfg.Env == "production",
		LoginPath:    cfg.Auth.LoginPath,
	}, log)
	contentHandler := handler.NewContentHandler(service.NewCatalog())
	intakeHandler := handler.NewIntakeHandler(dispatcher, intakeSvc)
	portalHandler := handler.NewPortalHandler(intakeSvc)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Auth routes, rate limited per client address ---
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	auth := e.Group("/auth", limiter.Middleware())
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/magic-link", authHandler.MagicLink)
	auth.GET("/magic", authHandler.RedeemMagicLink)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)

	// --- Public content ---
	e.GET("/about", contentHandler.About)
	e.GET("/programs", contentHandler.Programs)
	e.GET("/programs/:id", contentHandler.Program)
	e.GET("/board", contentHandler.Board)
	e.GET("/sponsors", contentHandler.Sponsors)
	e.GET("/gallery", contentHandler.Gallery)
	e.GET("/contact", contentHandler.Contact)
	e.GET("/giving", contentHandler.Giving)

	// --- Public intake forms ---
	forms := e.Group("/forms", limiter.Middleware())
	forms.POST("/family-support", intakeHandler.FamilySupport)
	forms.POST("/emergency-assistance", intakeHandler.EmergencyAssistance)
	forms.POST("/volunteer", intakeHandler.Volunteer)
	forms.POST("/sponsor-inquiry", intakeHandler.SponsorInquiry)

	// --- Guarded portals ---
	guardCfg := middleware.GuardConfig{
		LoginPath:        cfg.Auth.LoginPath,
		UnauthorizedPath: cfg.Auth.UnauthorizedPath,
	}
	family := e.Group("/portal/family", middleware.Guard(arbiter, guardCfg, log, domain.RoleFamily, domain.RoleStaff, domain.RoleAdmin))
	family.GET("", portalHandler.Family)

	staff := e.Group("/portal/staff", middleware.Guard(arbiter, guardCfg, log, domain.RoleStaff, domain.RoleAdmin))
	staff.GET("", portalHandler.Staff)
	staff.GET("/intake", intakeHandler.List)
	staff.PATCH("/intake/:id", intakeHandler.UpdateStatus)

	admin := e.Group("/portal/admin", middleware.Guard(arbiter, guardCfg, log, domain.RoleAdmin))
	admin.GET("", portalHandler.Admin)

	// --- Redirect landing pages ---
	e.GET(cfg.Auth.LoginPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"page": "login",
			"from": c.QueryParam("from"),
		})
	})
	e.GET(cfg.Auth.UnauthorizedPath, func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, map[string]string{
			"page":  "unauthorized",
			"error": "you do not have access to this page",
		})
	})

	// --- Observability and probes ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	shutdown := func() {
		stopDispatch()
		arbiter.Close()
		limiter.Stop()
	}
	return e, shutdown, nil
}
