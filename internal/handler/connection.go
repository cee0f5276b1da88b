package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/model"
	"github.com/venturehub/mentor-scheduling/internal/repository"
)

// ConnectionHandler manages the request/accept/reject handshake that
// gates booking.  Mentees send requests, mentors resolve them; nobody
// else sees them.
type ConnectionHandler struct {
	Connections *repository.ConnectionRepo
	Users       *repository.UserRepo
}

// NewConnectionHandler constructs a new ConnectionHandler.
func NewConnectionHandler(connections *repository.ConnectionRepo, users *repository.UserRepo) *ConnectionHandler {
	if connections == nil || users == nil {
		panic("nil repository passed to NewConnectionHandler")
	}
	return &ConnectionHandler{Connections: connections, Users: users}
}

// Request handles POST /v1/mentors/:id/connect.  A mentee introduces
// themselves to a mentor.  Responses:
//   201 – a new pending request was created
//   200 – a pending or accepted request already exists; it is returned
//         unchanged so a retry is harmless
//   404 – the target is not an active mentor
//   409 – a previous request was rejected and re-requests are disabled
func (h *ConnectionHandler) Request(c echo.Context) error {
	menteeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	mentorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || mentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	if mentorID == menteeID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot connect to yourself"})
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	message := strings.TrimSpace(body.Message)
	if len(message) > model.MaxConnectionMessageLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message too long"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	// The target must exist and actually be a mentor.
	target, err := h.Users.GetByID(ctx, mentorID)
	if err != nil || target.Role != model.RoleMentor || !target.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
	}
	req, created, err := h.Connections.Request(ctx, menteeID, mentorID, message)
	if err != nil {
		if errors.Is(err, repository.ErrRequestRejected) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a previous request was rejected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create request"})
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{"request": req, "created": created})
}

// Respond handles POST /v1/connections/:id/respond.  The body carries
// {"decision": "accept"} or {"decision": "reject"}.  Only the addressed
// mentor can respond; a request id addressed to someone else answers
// 404 rather than 403 so request existence is not leaked.  A request
// that was already resolved answers 409.
func (h *ConnectionHandler) Respond(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var body struct {
		Decision string `json:"decision"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var accept bool
	switch strings.ToLower(strings.TrimSpace(body.Decision)) {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be accept or reject"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	req, err := h.Connections.Respond(ctx, mentorID, requestID, accept)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		if errors.Is(err, repository.ErrAlreadyResponded) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already responded to"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to respond"})
	}
	return c.JSON(http.StatusOK, echo.Map{"request": req})
}

// Status handles GET /v1/mentors/:id/connection-status.  It tells the
// calling mentee where they stand with a mentor: NONE, PENDING,
// ACCEPTED or REJECTED.  Presentation layers use it to pick the right
// connect/pending/connected affordance.
func (h *ConnectionHandler) Status(c echo.Context) error {
	menteeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	mentorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || mentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	status, err := h.Connections.Status(c.Request().Context(), menteeID, mentorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mentor_id": mentorID, "status": status})
}

// PendingInbox handles GET /v1/connections/pending.  It returns the
// calling mentor's unresolved requests oldest first, with requester
// display info for rendering the review queue.
func (h *ConnectionHandler) PendingInbox(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entries, err := h.Connections.PendingForMentor(c.Request().Context(), mentorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inbox"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// List handles GET /v1/connections.  It returns every request the
// caller is party to, in the role carried by their token.
func (h *ConnectionHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reqs, err := h.Connections.ListForUser(c.Request().Context(), userID, getRole(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load connections"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reqs})
}
