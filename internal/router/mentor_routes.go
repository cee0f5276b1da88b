package router

import (
	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/handler"
	"github.com/venturehub/mentor-scheduling/internal/middleware"
)

// RegisterMentor registers mentor-scoped endpoints under /v1.  All routes
// require a valid JWT and the MENTOR role.  Mentors manage their recurring
// availability template and resolve incoming connection requests.
func RegisterMentor(e *echo.Echo, av *handler.AvailabilityHandler, cn *handler.ConnectionHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MENTOR"),
	)
	// Note: GET /v1/mentors/:id/availability and GET /v1/mentors/:id/schedule
	// are registered on the public router so that guests can browse a
	// mentor's openings.  Mentor-specific endpoints begin here.
	g.POST("/availability", av.AddSlot)
	g.GET("/availability", av.ListOwn)
	g.PUT("/availability", av.ReplaceWeek)
	g.DELETE("/availability/:id", av.RemoveSlot)

	// Connection review queue.  Pending requests arrive oldest first; a
	// respond call either accepts or rejects and is final.
	g.GET("/connections/pending", cn.PendingInbox)
	g.POST("/connections/:id/respond", cn.Respond)
}
