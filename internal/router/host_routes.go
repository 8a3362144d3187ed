package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aloft-stays/internal/handler"
)

// RegisterHost registers the rent-your-home and dashboard endpoints.  Any
// signed-in account may list a home; the dashboard only shows the
// caller's own listings.
func RegisterHost(e *echo.Echo, l *handler.ListingHandler, h *handler.HostHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", append(authenticated(jwtSecret), limiter)...)

	g.POST("/uploads/images", l.UploadImages)
	g.POST("/properties", l.CreateProperty)

	g.GET("/host/dashboard", h.Dashboard)
}
