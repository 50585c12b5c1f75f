package api

import (
	"net"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sigcpef/personnel-api/docs"
	"github.com/sigcpef/personnel-api/internal/api/handler"
	"github.com/sigcpef/personnel-api/internal/api/middleware"
	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/core/service"
	mongodb "github.com/sigcpef/personnel-api/internal/infrastructure/db/mongo"
)

// Dependencies is everything the router needs; main wires the concrete
// implementations.
type Dependencies struct {
	Log          zerolog.Logger
	Guard        *service.Guard
	Auth         ports.AuthService
	Personnel    ports.PersonnelService
	Sanctions    ports.SanctionService
	LoginLimiter ports.RateLimiter
	Mongo        mongodb.DatabaseProvider
	Redis        *redis.Client // optional
	CORSOrigin   string

	// TrustedProxies are the peers allowed to set X-Forwarded-For; empty
	// means clients connect directly.
	TrustedProxies []*net.IPNet

	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()
	e.IPExtractor = middleware.ClientIP(deps.TrustedProxies)

	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sigcpef",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	personnelHandler := handler.NewPersonnelHandler(deps.Personnel)
	sanctionHandler := handler.NewSanctionHandler(deps.Sanctions)
	requireAuth := middleware.Auth(deps.Guard)
	requireAdmin := middleware.Auth(deps.Guard, domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login, middleware.RateLimit(deps.LoginLimiter, deps.Log))
	auth.POST("/register", authHandler.Register, requireAdmin)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PATCH("/users/:id/active", authHandler.SetActive, requireAdmin)

	// --- RRHH ---
	rrhh := api.Group("/rrhh", middleware.Auth(deps.Guard, domain.RoleRRHH))
	rrhh.GET("/funcionarios", personnelHandler.List)
	rrhh.POST("/funcionarios", personnelHandler.Create)
	rrhh.PUT("/funcionarios", personnelHandler.Update)
	rrhh.DELETE("/funcionarios", personnelHandler.Delete)

	// --- Operaciones ---
	ops := api.Group("/operaciones", middleware.Auth(deps.Guard, domain.RoleOperaciones))
	ops.GET("/consultas", personnelHandler.Search)

	// --- ICAP ---
	icap := api.Group("/icap", middleware.Auth(deps.Guard, domain.RoleICAP))
	icap.GET("/sanciones", sanctionHandler.List)
	icap.POST("/sanciones", sanctionHandler.Create)
	icap.GET("/tipos", sanctionHandler.Types)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
