package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday identifies a day of the recurring weekly template.  Values run
// Monday (1) through Sunday (7) so that ordering a mentor's week by this
// column yields the natural Monday-first layout.
type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// String returns the lowercase English name of the day, e.g. "monday".
// Unknown values render as "unknown".
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "unknown"
	}
	return weekdayNames[d-1]
}

// Valid reports whether d is one of the seven defined days.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// ParseWeekday converts a day name such as "monday" or "Mon" into a
// Weekday.  Matching is case-insensitive and accepts three-letter
// abbreviations.  It returns an error for anything else.
func ParseWeekday(s string) (Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		if n == name || (len(n) == 3 && n == name[:3]) {
			return Weekday(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf maps a calendar date onto the weekly template.  time.Weekday
// counts Sunday as 0; the template counts Monday as 1.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// AvailabilitySlot is one recurring window in a mentor's weekly template.
// Times are wall-clock minutes since midnight with no timezone attached;
// both parties see the same clock values.  Slots are never edited in
// place: changing a window means deleting the old slot and creating a
// new one.
//
// Fields:
//  ID        – primary key identifier.
//  MentorID  – owning mentor's user id.
//  Day       – day of week the window recurs on.
//  StartMin  – window start, minutes since midnight.
//  EndMin    – window end, minutes since midnight (exclusive).
//  IsActive  – false when the slot has been soft-deactivated.
//  CreatedAt – creation timestamp.
type AvailabilitySlot struct {
	ID        uint64    `json:"id"`
	MentorID  uint64    `json:"mentor_id"`
	Day       Weekday   `json:"-"`
	StartMin  uint16    `json:"-"`
	EndMin    uint16    `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether the [startMin, endMin) range fits entirely
// inside the slot's window.
func (s AvailabilitySlot) Contains(startMin, endMin int) bool {
	return startMin >= int(s.StartMin) && endMin <= int(s.EndMin)
}

// RangesOverlap reports whether two half-open minute ranges on the same
// day intersect by more than zero duration.
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ParseClock converts an "HH:MM" wall-clock string into minutes since
// midnight.  It accepts 00:00 through 23:59 and rejects everything else.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight back into "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
