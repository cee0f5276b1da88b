package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return strings.ToUpper(r)
	}
	return ""
}

// wallClockLayouts are the accepted shapes for session date-times.  All
// are naive wall-clock values: no timezone designator is parsed, and
// none is implied.  Both parties are assumed to read the same clock.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseWallClock parses a naive date-time string, trying each accepted
// layout in turn.
func parseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date-time: expected YYYY-MM-DDTHH:MM")
}

// formatWallClock renders a stored instant back into the naive wire shape.
func formatWallClock(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// slotView is the wire shape of an availability window: day name plus
// HH:MM clock strings.  The minute-offset representation stays internal.
type slotView struct {
	ID    uint64 `json:"id"`
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toSlotView(s model.AvailabilitySlot) slotView {
	return slotView{
		ID:    s.ID,
		Day:   s.Day.String(),
		Start: model.FormatClock(int(s.StartMin)),
		End:   model.FormatClock(int(s.EndMin)),
	}
}

func toSlotViews(slots []model.AvailabilitySlot) []slotView {
	out := make([]slotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotView(s))
	}
	return out
}
