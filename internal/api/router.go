package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/diwanhq/diwan/internal/api/handler"
	"github.com/diwanhq/diwan/internal/api/middleware"
	"github.com/diwanhq/diwan/internal/core/ports"
)

// Dependencies carries everything the router needs. The storage and session
// adapters behind the services are selected in main; the router never knows
// which driver is active.
type Dependencies struct {
	Books     ports.BookService
	Users     ports.UserService
	Auth      ports.AuthService
	Sessions  ports.SessionStore
	JWTSecret string
	Logger    zerolog.Logger

	// Readiness checks keyed by dependency name (e.g. "mongodb", "redis").
	HealthChecks map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("diwan"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	bookHandler := handler.NewBookHandler(deps.Books)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	authMW := middleware.Auth(deps.JWTSecret, deps.Sessions)
	adminMW := middleware.AdminOnly()

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMW)
	e.GET("/auth/status", authHandler.Status, authMW)

	// --- Books (owner-scoped) ---
	books := e.Group("/v1/books", authMW)
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create)
	books.GET("/stats", bookHandler.Stats)
	books.GET("/:id", bookHandler.Get)
	books.PUT("/:id", bookHandler.Update)
	books.DELETE("/:id", bookHandler.Delete)

	// --- User management (admin only) ---
	users := e.Group("/v1/users", authMW, adminMW)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.DELETE("/:id", userHandler.Delete)
	users.GET("/:id/books", bookHandler.ListForUser)

	// --- Probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
