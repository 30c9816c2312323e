package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-directory-api/internal/config"
	"github.com/iliyamo/user-directory-api/internal/handler"
	"github.com/iliyamo/user-directory-api/internal/middleware"
	"github.com/iliyamo/user-directory-api/internal/model"
)

// Register wires every route of the API onto the Echo instance and is the
// single place the route -> required-role mapping lives.  The
// authentication gate runs globally and only installs principals; each
// protected route names its role requirement explicitly, so what each
// operation demands is readable here rather than scattered through the
// handlers.
func Register(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, u *handler.UserHandler, rdb *redis.Client) {
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.Authenticate(cfg.JWTSecret))

	// Liveness probes; public.
	e.GET("/healthz", handler.Health)

	// Credential exchange; public and rate limited, since these are the
	// endpoints worth brute forcing.
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	auth := e.Group("/auth", limit)
	auth.POST("/login", a.Login)
	auth.POST("/register", a.Register)
	auth.GET("/health", a.Health)

	// Versioned user resource.  v1 is the full CRUD surface; reads are
	// open to any authenticated role, mutations are admin only.
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := e.Group("/v1")
	v1.GET("/me", a.Me, anyRole)
	v1.GET("/users", u.List, anyRole)
	v1.GET("/users/:id", u.Get, anyRole)
	v1.POST("/users", u.Create, adminOnly)
	v1.PUT("/users/:id", u.Update, adminOnly)
	v1.DELETE("/users/:id", u.Delete, adminOnly)

	// v2 adds pagination and filtering on the listing.
	v2 := e.Group("/v2")
	v2.GET("/users", u.ListV2, anyRole)
}
