package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aloft-stays/internal/handler"
)

// RegisterGuest registers the booking flow and trips endpoints.  The
// limiter runs after authentication so per-user strategies see the caller.
func RegisterGuest(e *echo.Echo, co *handler.CheckoutHandler, gh *handler.GuestHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", append(authenticated(jwtSecret), limiter)...)

	g.POST("/checkout/quote", co.Quote)
	g.POST("/checkout/confirm", co.Confirm)

	g.GET("/trips", gh.Trips)
	g.POST("/trips/:id/cancel", gh.Cancel)
}
