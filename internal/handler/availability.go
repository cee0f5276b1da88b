package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/model"
	"github.com/venturehub/mentor-scheduling/internal/repository"
)

// AvailabilityHandler exposes a mentor's recurring weekly template.
// Mutating endpoints assume the JWT and role middleware have already
// established that the caller is a mentor; the mentor id always comes
// from the token, never from the request body, so a mentor can only
// ever edit their own week.
type AvailabilityHandler struct {
	Slots *repository.AvailabilityRepo
}

// NewAvailabilityHandler constructs a new AvailabilityHandler.
func NewAvailabilityHandler(slots *repository.AvailabilityRepo) *AvailabilityHandler {
	if slots == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Slots: slots}
}

type slotReq struct {
	Day   string `json:"day"`   // e.g. "monday"
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

// parse validates a single window submission and converts it to the
// internal representation.
func (sr slotReq) parse() (model.Weekday, int, int, error) {
	day, err := model.ParseWeekday(sr.Day)
	if err != nil {
		return 0, 0, 0, err
	}
	start, err := model.ParseClock(sr.Start)
	if err != nil {
		return 0, 0, 0, err
	}
	end, err := model.ParseClock(sr.End)
	if err != nil {
		return 0, 0, 0, err
	}
	return day, start, end, nil
}

// AddSlot handles POST /v1/availability.  It adds one recurring window
// to the calling mentor's week.  It returns 201 with the created slot,
// 400 for a malformed day or time or an inverted range, and 409 when
// the window overlaps an existing active slot on the same day.
func (h *AvailabilityHandler) AddSlot(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	day, start, end, err := req.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	slot, err := h.Slots.Create(ctx, mentorID, day, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be before end"})
		}
		if errors.Is(err, repository.ErrOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "window overlaps existing availability"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create slot"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"slot": toSlotView(slot)})
}

// ListOwn handles GET /v1/availability.  It returns the calling
// mentor's active windows ordered by day then start time.  The optional
// ?day=monday query narrows the list to one day.
func (h *AvailabilityHandler) ListOwn(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var day model.Weekday
	if q := c.QueryParam("day"); q != "" {
		day, err = model.ParseWeekday(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	slots, err := h.Slots.ListActive(c.Request().Context(), mentorID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSlotViews(slots)})
}

// ListForMentor handles GET /v1/mentors/:id/availability.  It is the
// public view mentees browse before booking; only active windows are
// shown.
func (h *AvailabilityHandler) ListForMentor(c echo.Context) error {
	mentorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || mentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	var day model.Weekday
	if q := c.QueryParam("day"); q != "" {
		day, err = model.ParseWeekday(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	slots, err := h.Slots.ListActive(c.Request().Context(), mentorID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mentor_id": mentorID, "items": toSlotViews(slots)})
}

// RemoveSlot handles DELETE /v1/availability/:id.  The delete is
// idempotent: removing a slot that is already gone still answers 204.
// Future bookings derived from the slot keep their own dates and are
// not cancelled.
func (h *AvailabilityHandler) RemoveSlot(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || slotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	if err := h.Slots.Delete(c.Request().Context(), mentorID, slotID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete slot"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceWeek handles PUT /v1/availability.  The body carries the
// mentor's entire new weekly template; every existing slot is replaced
// by the submitted set in one transaction.  An empty list clears the
// week.  Submitting a template whose windows collide with each other
// answers 409 and leaves the current template untouched.
func (h *AvailabilityHandler) ReplaceWeek(c echo.Context) error {
	mentorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Slots []slotReq `json:"slots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	inputs := make([]repository.SlotInput, 0, len(body.Slots))
	for _, sr := range body.Slots {
		day, start, end, err := sr.parse()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		inputs = append(inputs, repository.SlotInput{Day: day, StartMin: start, EndMin: end})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	slots, err := h.Slots.ReplaceWeek(ctx, mentorID, inputs)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be before end"})
		}
		if errors.Is(err, repository.ErrOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "submitted windows overlap each other"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to replace availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSlotViews(slots)})
}
