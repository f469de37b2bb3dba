// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"eventbook/internal/handler"
	"eventbook/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// handler state. Currently that is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public browse endpoints. No JWT is
// applied; guests can explore the catalog freely. The cache middleware,
// when given a working Redis client, absorbs repeated filter queries.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/categories", h.GetCategories)
	g.GET("/events", h.GetEvents)
	g.GET("/events/upcoming", h.GetUpcomingEvents)
	g.GET("/events/:id", h.GetEvent)
}

// RegisterAuth registers the identity endpoints. Register, login, refresh
// and logout live under /v1/auth without JWT; the rate limiter guards
// them against credential stuffing. /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBookings registers the protected reservation endpoints. All of
// them run behind JWTAuth: an unauthenticated request receives 401 along
// with the sign-in path and the originally requested path, so a client
// can resume where the user left off after logging in.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/events/:id/bookings", b.CreateBooking)
	g.GET("/bookings", b.ListMyBookings)
	g.GET("/bookings/:ref", b.GetBooking)
	g.POST("/bookings/:ref/cancel", b.CancelBooking)
}
