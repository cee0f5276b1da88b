package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/venturehub/mentor-scheduling/internal/handler"    // import the handlers that implement business logic
	"github.com/venturehub/mentor-scheduling/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new access
	// token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` and will invalidate that
	// token.  If the token is valid, a 204 response is returned.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Any authenticated endpoint accepts both sides of the marketplace; the
	// middleware rejects requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("MENTOR", "MENTEE"))
	// /v1/me returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The mentor directory, a mentor's recurring availability and
// the weekly schedule grid are all readable by guests so that a mentee can
// evaluate a mentor before registering or connecting.  These routes do not
// apply any JWT or role middleware.
func RegisterPublic(e *echo.Echo, s *handler.ScheduleHandler, av *handler.AvailabilityHandler) {
	// Directory of active mentors with their headline
	e.GET("/v1/mentors", s.Mentors)
	// A mentor's recurring weekly availability template
	e.GET("/v1/mentors/:id/availability", av.ListForMentor)
	// The composed seven-day grid: availability minus live bookings.  Use the
	// optional ?week_start=YYYY-MM-DD query parameter to pick a week.
	e.GET("/v1/mentors/:id/schedule", s.MentorSchedule)
}
