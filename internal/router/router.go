// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/handler"
	"github.com/iliyamo/catalog-api/internal/middleware"
	"github.com/iliyamo/catalog-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db *gorm.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the /v1/auth routes.  limiter wraps the whole group
// (pass nil for none); check-status needs a valid token and private needs
// the super-user or admin role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users contracts.UserStore, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := middleware.JWTAuth(jwtSecret, users)
	g.GET("/check-status", a.CheckStatus, auth, middleware.RequireRole())
	g.GET("/private", a.Private, auth, middleware.RequireRole(model.RoleSuperUser, model.RoleAdmin))
}

// RegisterProducts registers the catalog routes.  Reads are public and go
// through the response cache; writes require the admin role and purge it.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, jwtSecret string, users contracts.UserStore, cache *middleware.ResponseCache) {
	g := e.Group("/v1/products")

	g.GET("", p.List, cache.Middleware())
	g.GET("/:term", p.Find, cache.Middleware())

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret, users),
		middleware.RequireRole(model.RoleAdmin),
		cache.PurgeOnWrite(),
	}
	g.POST("", p.Create, admin...)
	g.PATCH("/:id", p.Update, admin...)
	g.DELETE("/:term", p.Remove, admin...)
}
