package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lexhaven/matters-api/internal/api/handler"
	"github.com/lexhaven/matters-api/internal/api/middleware"
	"github.com/lexhaven/matters-api/internal/core/ports"
	"github.com/lexhaven/matters-api/internal/core/service"
	"github.com/lexhaven/matters-api/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router needs wired at process start.
type Dependencies struct {
	JWTSecret  string
	Production bool

	Resolver ports.TenantResolver
	Session  ports.TenantSession
	Matters  ports.MatterRepository
	Chain    *service.AuditChain

	Mongo    *mongo.Database
	Redis    *redis.Client
	Postgres handlers.Pinger

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echoprometheus.NewMiddleware("matters_api"))
	e.Use(middleware.Audit(deps.Chain, deps.Production, deps.Log))

	// --- Probes and metrics (unauthenticated, never audited) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis, deps.Postgres)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Business routes from the typed route table ---
	matterHandler := handler.NewMatterHandler(deps.Matters)
	auditHandler := handler.NewAuditHandler(deps.Chain)

	authenticated := e.Group("", middleware.Auth(deps.JWTSecret))
	for _, r := range routeTable(matterHandler, auditHandler) {
		mws := make([]echo.MiddlewareFunc, 0, 3)
		if !r.TenantExempt {
			mws = append(mws, middleware.ResolveTenant(deps.Resolver))
		}
		if len(r.RequiredRoles) > 0 {
			mws = append(mws, middleware.RequireRoles(r.RequiredRoles...))
		}
		if r.TenantScoped {
			mws = append(mws, middleware.Isolation(deps.Session))
		}
		authenticated.Add(r.Method, r.Path, r.Handler, mws...)
	}

	return e
}
