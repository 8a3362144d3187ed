// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aloft-stays/internal/handler"
	"github.com/iliyamo/aloft-stays/internal/middleware"
	"github.com/iliyamo/aloft-stays/internal/model"
)

// RegisterRoutes registers routes that do not require authentication and
// do not belong to a feature group.  Currently it exposes only a health
// check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// protected profile endpoint /v1/me.  Logout does not require a JWT: it
// accepts a refresh token in the body or a bearer access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", authenticated(jwtSecret)...)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the anonymous browse endpoints.  Only the
// listing goes through the Redis response cache.  Detail carries the
// booked ranges and availability checks them, so both are served fresh.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/properties", p.ListProperties, cache)
	e.GET("/v1/properties/:id", p.GetProperty)
	e.GET("/v1/properties/:id/availability", p.Availability)
}

// RegisterNotifications registers the booking email endpoint.  Browsers
// call it directly, so OPTIONS is answered without authentication.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler) {
	e.OPTIONS("/v1/notifications/booking-email", n.Preflight)
	e.POST("/v1/notifications/booking-email", n.SendBookingEmail)
}

// authenticated is the middleware chain for signed-in routes.  Every
// account role is accepted.
func authenticated(jwtSecret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuest, model.RoleHost),
	}
}
