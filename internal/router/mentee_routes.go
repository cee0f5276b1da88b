package router

import (
	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/handler"
	"github.com/venturehub/mentor-scheduling/internal/middleware"
)

// RegisterMentee registers mentee-scoped endpoints under /v1.  All routes
// require a valid JWT and the MENTEE role.  Mentees introduce themselves to
// mentors, check where a request stands and book sessions once accepted.
func RegisterMentee(e *echo.Echo, cn *handler.ConnectionHandler, bk *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MENTEE"),
	)
	g.POST("/mentors/:id/connect", cn.Request)
	g.GET("/mentors/:id/connection-status", cn.Status)
	g.POST("/bookings", bk.Create)
}

// RegisterShared registers endpoints available to both roles under /v1.
// Either party of a booking may read it or drive the transitions allowed
// to their side; both roles list their own connections and sessions.
func RegisterShared(e *echo.Echo, cn *handler.ConnectionHandler, bk *handler.BookingHandler, s *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MENTOR", "MENTEE"),
	)
	g.GET("/connections", cn.List)
	g.GET("/bookings", bk.List)
	g.GET("/bookings/:id", bk.GetByID)
	g.PATCH("/bookings/:id/status", bk.UpdateStatus)
	g.GET("/sessions/upcoming", s.Upcoming)
}
