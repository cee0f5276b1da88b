package handler

import (
	"testing"
	"time"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

// monday is 2026-01-05, a known Monday used as the grid anchor.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func TestBuildWeeklyGrid_NoBookings(t *testing.T) {
	slots := []model.AvailabilitySlot{
		{ID: 1, Day: model.Monday, StartMin: 540, EndMin: 720},    // mon 09:00-12:00
		{ID: 2, Day: model.Wednesday, StartMin: 840, EndMin: 960}, // wed 14:00-16:00
	}
	days := buildWeeklyGrid(monday, slots, nil)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Date != "2026-01-05" || days[0].Day != "monday" {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if len(days[0].Windows) != 1 {
		t.Fatalf("monday: expected 1 window, got %+v", days[0].Windows)
	}
	w := days[0].Windows[0]
	if w.Start != "09:00" || w.End != "12:00" || w.Booked || w.SlotID != 1 {
		t.Fatalf("monday window wrong: %+v", w)
	}
	if len(days[1].Windows) != 0 {
		t.Fatalf("tuesday should be empty, got %+v", days[1].Windows)
	}
	if len(days[2].Windows) != 1 || days[2].Windows[0].Start != "14:00" {
		t.Fatalf("wednesday window wrong: %+v", days[2].Windows)
	}
}

func TestBuildWeeklyGrid_BookingSplitsSlot(t *testing.T) {
	slots := []model.AvailabilitySlot{
		{ID: 1, Day: model.Monday, StartMin: 540, EndMin: 720}, // 09:00-12:00
	}
	bookings := []model.Booking{
		{
			StartsAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC),
			Status:   model.BookingConfirmed,
		},
	}
	days := buildWeeklyGrid(monday, slots, bookings)
	wins := days[0].Windows
	if len(wins) != 3 {
		t.Fatalf("expected booked + 2 free windows, got %+v", wins)
	}
	// the booked window is listed first
	if !wins[0].Booked || wins[0].Start != "10:00" || wins[0].End != "10:30" {
		t.Fatalf("booked window wrong: %+v", wins[0])
	}
	if wins[1].Booked || wins[1].Start != "09:00" || wins[1].End != "10:00" {
		t.Fatalf("first free window wrong: %+v", wins[1])
	}
	if wins[2].Booked || wins[2].Start != "10:30" || wins[2].End != "12:00" {
		t.Fatalf("second free window wrong: %+v", wins[2])
	}
}

func TestBuildWeeklyGrid_BookingAtSlotEdge(t *testing.T) {
	slots := []model.AvailabilitySlot{
		{ID: 1, Day: model.Monday, StartMin: 540, EndMin: 660}, // 09:00-11:00
	}
	bookings := []model.Booking{
		{
			StartsAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
			Status:   model.BookingPending,
		},
	}
	days := buildWeeklyGrid(monday, slots, bookings)
	wins := days[0].Windows
	if len(wins) != 2 {
		t.Fatalf("expected booked + 1 free window, got %+v", wins)
	}
	if wins[1].Start != "10:00" || wins[1].End != "11:00" {
		t.Fatalf("remaining free window wrong: %+v", wins[1])
	}
}

func TestBuildWeeklyGrid_FullyBookedSlot(t *testing.T) {
	slots := []model.AvailabilitySlot{
		{ID: 1, Day: model.Friday, StartMin: 600, EndMin: 660}, // fri 10:00-11:00
	}
	bookings := []model.Booking{
		{
			StartsAt: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 1, 9, 11, 0, 0, 0, time.UTC),
			Status:   model.BookingConfirmed,
		},
	}
	days := buildWeeklyGrid(monday, slots, bookings)
	wins := days[4].Windows
	if len(wins) != 1 || !wins[0].Booked {
		t.Fatalf("friday should show only the booked window, got %+v", wins)
	}
}

func TestBuildWeeklyGrid_OrphanBookingStillShown(t *testing.T) {
	// a booking whose originating slot was deleted still blocks the day
	bookings := []model.Booking{
		{
			StartsAt: time.Date(2026, 1, 6, 15, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 1, 6, 16, 0, 0, 0, time.UTC),
			Status:   model.BookingConfirmed,
		},
	}
	days := buildWeeklyGrid(monday, nil, bookings)
	wins := days[1].Windows
	if len(wins) != 1 || !wins[0].Booked || wins[0].Start != "15:00" {
		t.Fatalf("tuesday should show the orphan booking, got %+v", wins)
	}
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 5, 13, 45, 0, 0, time.UTC), "2026-01-05"},  // monday maps to itself
		{time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), "2026-01-05"},    // thursday
		{time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC), "2026-01-05"}, // sunday
	}
	for _, tc := range cases {
		if got := mondayOf(tc.in).Format("2006-01-02"); got != tc.want {
			t.Errorf("mondayOf(%s) = %s, want %s", tc.in.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestParseWallClock(t *testing.T) {
	for _, in := range []string{
		"2026-01-05T09:00:00",
		"2026-01-05T09:00",
		"2026-01-05 09:00:00",
		"2026-01-05 09:00",
	} {
		got, err := parseWallClock(in)
		if err != nil {
			t.Errorf("parseWallClock(%q): %v", in, err)
			continue
		}
		if got.Hour() != 9 || got.Minute() != 0 || got.Day() != 5 {
			t.Errorf("parseWallClock(%q) = %v", in, got)
		}
	}
	for _, in := range []string{"", "2026-01-05", "09:00", "2026-01-05T09:00:00Z"} {
		if _, err := parseWallClock(in); err == nil {
			t.Errorf("parseWallClock(%q): expected error", in)
		}
	}
}
