package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/model"
	"github.com/venturehub/mentor-scheduling/internal/queue"
	"github.com/venturehub/mentor-scheduling/internal/repository"
	queuepublisher "github.com/venturehub/mentor-scheduling/internal/service"
)

// BookingHandler groups the repositories needed to create sessions and
// drive their lifecycle.  All methods assume that JWT authentication
// and role validation has already been performed by middleware.
// Methods may return 401 Unauthorized if the user ID cannot be
// extracted from the context.  Each method runs critical DB operations
// inside a transaction to guarantee atomicity: the connection check,
// the availability check and the overlap check all observe the same
// snapshot the insert commits against.
type BookingHandler struct {
	Bookings    *repository.BookingRepo      // access to bookings
	Slots       *repository.AvailabilityRepo // access to availability_slots for containment checks
	Connections *repository.ConnectionRepo   // access to connection_requests for the booking gate
	Users       *repository.UserRepo         // access to users for mentor existence checks
}

// NewBookingHandler constructs a new BookingHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingHandler(bookings *repository.BookingRepo, slots *repository.AvailabilityRepo, connections *repository.ConnectionRepo, users *repository.UserRepo) *BookingHandler {
	if bookings == nil || slots == nil || connections == nil || users == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Slots: slots, Connections: connections, Users: users}
}

// bookingReq is the request body for creating a session.
type bookingReq struct {
	MentorID    uint64 `json:"mentor_id"`
	StartsAt    string `json:"starts_at"`
	DurationMin int    `json:"duration_min"`
	Notes       string `json:"notes"`
}

var (
	errOutsideAvailability = errors.New("requested time is outside the mentor's availability")
	errWindowTooLong       = errors.New("requested window does not fit the availability slot")
)

// resolveBookingWindow finds the active slot containing startMin and
// derives the booking's end minute.  A zero duration means "until the
// end of the containing slot"; an explicit duration must fit inside
// the slot the booking starts in.  The slot's end minute is exclusive,
// so a booking may not start exactly at it.
func resolveBookingWindow(slots []model.AvailabilitySlot, startMin, durationMin int) (int, *model.AvailabilitySlot, error) {
	var containing *model.AvailabilitySlot
	for i := range slots {
		if startMin >= int(slots[i].StartMin) && startMin < int(slots[i].EndMin) {
			containing = &slots[i]
			break
		}
	}
	if containing == nil {
		return 0, nil, errOutsideAvailability
	}
	endMin := int(containing.EndMin)
	if durationMin > 0 {
		endMin = startMin + durationMin
	}
	if !containing.Contains(startMin, endMin) {
		return 0, nil, errWindowTooLong
	}
	return endMin, containing, nil
}

// Create handles POST /v1/bookings.  A connected mentee books a
// session inside one of the mentor's recurring availability windows.
// Responses:
//   201 – booking created in PENDING status
//   400 – malformed body, past start, or window outside availability
//   403 – no accepted connection with the mentor
//   404 – mentor does not exist or is inactive
//   409 – the mentor already has a live booking overlapping the window
func (h *BookingHandler) Create(c echo.Context) error {
	menteeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body bookingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mentor_id is required"})
	}
	if body.MentorID == menteeID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book a session with yourself"})
	}
	startsAt, err := parseWallClock(body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if startsAt.Before(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book a session in the past"})
	}
	if body.DurationMin < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min cannot be negative"})
	}
	notes := strings.TrimSpace(body.Notes)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	target, err := h.Users.GetByID(ctx, body.MentorID)
	if err != nil || target.Role != model.RoleMentor || !target.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// the connection gate: only accepted mentees may book
	connected, err := h.Connections.HasAcceptedTx(ctx, tx, menteeID, body.MentorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check connection"})
	}
	if !connected {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not connected to this mentor"})
	}

	// the requested window must sit inside one active availability slot
	day := model.WeekdayOf(startsAt)
	slots, err := h.Slots.ActiveSlotsForDayTx(ctx, tx, body.MentorID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	startMin := startsAt.Hour()*60 + startsAt.Minute()
	endMin, containing, err := resolveBookingWindow(slots, startMin, body.DurationMin)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	endsAt := startsAt.Add(time.Duration(endMin-startMin) * time.Minute)

	// at most one live booking per mentor per window
	overlap, err := h.Bookings.HasOverlapTx(ctx, tx, body.MentorID, startsAt, endsAt)
	if err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the mentor already has a session in that window"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check schedule"})
	}
	if overlap {
		return c.JSON(http.StatusConflict, echo.Map{"error": "the mentor already has a session in that window"})
	}

	slotID := containing.ID
	booking := model.Booking{
		MentorID: body.MentorID,
		MenteeID: menteeID,
		SlotID:   &slotID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Notes:    notes,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the mentor already has a session in that window"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit booking"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"booking": bookingView(booking)})
}

// statusReq is the request body for a lifecycle transition.
type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  The transition
// table decides both legality and which party may drive each change;
// readers who are not party to the booking get 404 so its existence is
// not leaked.  A confirmed or cancelled outcome is published to the
// broker after commit; publish failures are logged, never surfaced.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body statusReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := strings.ToUpper(strings.TrimSpace(body.Status))
	if !model.ValidBookingStatus(target) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.Bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	var role string
	switch userID {
	case booking.MentorID:
		role = model.RoleMentor
	case booking.MenteeID:
		role = model.RoleMentee
	default:
		// outsiders see the same response as for a missing booking
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if !model.TransitionAllowedFor(booking.Status, target, role) {
		if model.CanTransition(booking.Status, target) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "this change is reserved for the other party"})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition", "from": booking.Status, "to": target})
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, bookingID, target); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit update"})
	}
	committed = true

	if target == model.BookingConfirmed || target == model.BookingCancelled {
		go h.publishOutcome(booking, target)
	}

	booking.Status = target
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingView(booking)})
}

// publishOutcome emits a session event for a confirmed or cancelled
// booking.  It runs outside the request transaction; failures are
// logged and dropped.
func (h *BookingHandler) publishOutcome(b model.Booking, status string) {
	kind := queue.SessionConfirmed
	if status == model.BookingCancelled {
		kind = queue.SessionCancelled
	}
	ev := queue.SessionEvent{
		Kind:       kind,
		BookingID:  b.ID,
		Reference:  b.Reference,
		MentorID:   b.MentorID,
		MenteeID:   b.MenteeID,
		StartsAt:   formatWallClock(b.StartsAt),
		EndsAt:     formatWallClock(b.EndsAt),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if mentor, err := h.Users.GetByID(context.Background(), b.MentorID); err == nil {
		ev.MentorName = mentor.Name
	}
	if mentee, err := h.Users.GetByID(context.Background(), b.MenteeID); err == nil {
		ev.MenteeName = mentee.Name
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queuepublisher.PublishSessionEvent(ctx, ev); err != nil {
		log.Printf("booking: publish %s event failed: %v", kind, err)
	}
}

// GetByID handles GET /v1/bookings/:id.  Only the two parties may read
// a booking; anyone else gets 404.
func (h *BookingHandler) GetByID(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetDetail(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if userID != detail.MentorID && userID != detail.MenteeID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detailView(detail)})
}

// List handles GET /v1/bookings.  It returns the caller's bookings for
// the role carried in their token, newest window last.  An optional
// ?status= filter narrows the result.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	details, err := h.Bookings.ListForUser(c.Request().Context(), userID, getRole(c), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": detailViews(details)})
}

// bookingView renders a booking for the wire, with wall-clock strings
// instead of Go time formatting.
type bookingJSON struct {
	ID        uint64  `json:"id"`
	Reference string  `json:"reference"`
	MentorID  uint64  `json:"mentor_id"`
	MenteeID  uint64  `json:"mentee_id"`
	SlotID    *uint64 `json:"slot_id,omitempty"`
	StartsAt  string  `json:"starts_at"`
	EndsAt    string  `json:"ends_at"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes,omitempty"`
}

func bookingView(b model.Booking) bookingJSON {
	return bookingJSON{
		ID:        b.ID,
		Reference: b.Reference,
		MentorID:  b.MentorID,
		MenteeID:  b.MenteeID,
		SlotID:    b.SlotID,
		StartsAt:  formatWallClock(b.StartsAt),
		EndsAt:    formatWallClock(b.EndsAt),
		Status:    b.Status,
		Notes:     b.Notes,
	}
}

type detailJSON struct {
	bookingJSON
	MentorName string `json:"mentor_name"`
	MenteeName string `json:"mentee_name"`
}

func detailView(d repository.BookingDetail) detailJSON {
	return detailJSON{
		bookingJSON: bookingView(d.Booking),
		MentorName:  d.MentorName,
		MenteeName:  d.MenteeName,
	}
}

func detailViews(ds []repository.BookingDetail) []detailJSON {
	out := make([]detailJSON, 0, len(ds))
	for _, d := range ds {
		out = append(out, detailView(d))
	}
	return out
}
