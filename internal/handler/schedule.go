package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/model"
	"github.com/venturehub/mentor-scheduling/internal/repository"
)

// ScheduleHandler is the read-side facade over availability and
// bookings.  It answers the two questions presentation layers actually
// ask: "what does this mentor's week look like" and "what sessions do
// I have coming up", without the caller stitching slots and bookings
// together themselves.
type ScheduleHandler struct {
	Slots    *repository.AvailabilityRepo
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

// NewScheduleHandler constructs a new ScheduleHandler.
func NewScheduleHandler(slots *repository.AvailabilityRepo, bookings *repository.BookingRepo, users *repository.UserRepo) *ScheduleHandler {
	if slots == nil || bookings == nil || users == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Slots: slots, Bookings: bookings, Users: users}
}

// windowView is one bookable or occupied stretch inside a day column.
type windowView struct {
	SlotID uint64 `json:"slot_id,omitempty"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Booked bool   `json:"booked"`
}

// dayView is one column of the weekly grid.
type dayView struct {
	Date    string       `json:"date"`
	Day     string       `json:"day"`
	Windows []windowView `json:"windows"`
}

// buildWeeklyGrid projects a mentor's recurring slots onto the seven
// concrete dates starting at weekStart and subtracts live bookings.
// Each slot becomes one or more free windows plus zero or more booked
// windows; a slot fully covered by bookings contributes only booked
// windows.  Bookings that fall outside any current slot (the slot was
// deleted after booking) still appear as booked windows so the grid
// never lies about the mentor being free.
func buildWeeklyGrid(weekStart time.Time, slots []model.AvailabilitySlot, bookings []model.Booking) []dayView {
	days := make([]dayView, 0, 7)
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		day := model.WeekdayOf(date)
		dv := dayView{Date: date.Format("2006-01-02"), Day: day.String(), Windows: []windowView{}}

		// bookings occupying this date, as minute ranges
		type busy struct{ start, end int }
		var occupied []busy
		for _, b := range bookings {
			if b.StartsAt.Year() == date.Year() && b.StartsAt.YearDay() == date.YearDay() {
				occupied = append(occupied, busy{
					start: b.StartsAt.Hour()*60 + b.StartsAt.Minute(),
					end:   b.EndsAt.Hour()*60 + b.EndsAt.Minute(),
				})
				dv.Windows = append(dv.Windows, windowView{
					Start:  model.FormatClock(b.StartsAt.Hour()*60 + b.StartsAt.Minute()),
					End:    model.FormatClock(b.EndsAt.Hour()*60 + b.EndsAt.Minute()),
					Booked: true,
				})
			}
		}

		sort.Slice(occupied, func(a, b int) bool { return occupied[a].start < occupied[b].start })

		for _, s := range slots {
			if s.Day != day {
				continue
			}
			// sweep the slot left to right, carving around bookings
			cursor := int(s.StartMin)
			for _, o := range occupied {
				if o.end <= cursor || o.start >= int(s.EndMin) {
					continue
				}
				if o.start > cursor {
					dv.Windows = append(dv.Windows, windowView{
						SlotID: s.ID,
						Start:  model.FormatClock(cursor),
						End:    model.FormatClock(o.start),
					})
				}
				cursor = o.end
			}
			if cursor < int(s.EndMin) {
				dv.Windows = append(dv.Windows, windowView{
					SlotID: s.ID,
					Start:  model.FormatClock(cursor),
					End:    model.FormatClock(int(s.EndMin)),
				})
			}
		}
		days = append(days, dv)
	}
	return days
}

// MentorSchedule handles GET /v1/mentors/:id/schedule.  The optional
// ?week_start=YYYY-MM-DD parameter picks the Monday the seven-day grid
// starts at; it defaults to the Monday of the current week.  Any date
// inside a week is accepted and snapped back to its Monday.
func (h *ScheduleHandler) MentorSchedule(c echo.Context) error {
	mentorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || mentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	weekStart := mondayOf(time.Now())
	if raw := strings.TrimSpace(c.QueryParam("week_start")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "week_start must be YYYY-MM-DD"})
		}
		weekStart = mondayOf(d)
	}
	ctx := c.Request().Context()
	if u, err := h.Users.GetByID(ctx, mentorID); err != nil || u.Role != model.RoleMentor || !u.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
	}
	slots, err := h.Slots.ListActive(ctx, mentorID, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	weekEnd := weekStart.AddDate(0, 0, 7)
	details, err := h.Bookings.OccupyingForMentorBetween(ctx, mentorID, weekStart, weekEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	bookings := make([]model.Booking, 0, len(details))
	for _, d := range details {
		bookings = append(bookings, d.Booking)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mentor_id":  mentorID,
		"week_start": weekStart.Format("2006-01-02"),
		"days":       buildWeeklyGrid(weekStart, slots, bookings),
	})
}

// Upcoming handles GET /v1/sessions/upcoming.  It returns the caller's
// pending and confirmed sessions from now on, soonest first, in the
// role carried by their token.
func (h *ScheduleHandler) Upcoming(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.UpcomingForUser(c.Request().Context(), userID, getRole(c), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": detailViews(details)})
}

// Mentors handles GET /v1/mentors, the public mentor directory.
func (h *ScheduleHandler) Mentors(c echo.Context) error {
	mentors, err := h.Users.ListMentors(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load mentors"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": mentors})
}

// mondayOf snaps any date back to the Monday of its week, at midnight.
func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(model.WeekdayOf(t)) - 1
	return t.AddDate(0, 0, -offset)
}
