package model

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	cases := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{"monday", Monday, false},
		{"Monday", Monday, false},
		{"MON", Monday, false},
		{"sunday", Sunday, false},
		{"sun", Sunday, false},
		{" friday ", Friday, false},
		{"", 0, true},
		{"someday", 0, true},
		{"mo", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseWeekday(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWeekday(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWeekday(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-01-05 is a Monday, 2026-01-11 a Sunday
	if d := WeekdayOf(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)); d != Monday {
		t.Fatalf("expected Monday, got %v", d)
	}
	if d := WeekdayOf(time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)); d != Sunday {
		t.Fatalf("expected Sunday, got %v", d)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30am", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, min := range []int{0, 1, 570, 1439} {
		s := FormatClock(min)
		back, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(FormatClock(%d)) failed: %v", min, err)
		}
		if back != min {
			t.Fatalf("round trip %d -> %q -> %d", min, s, back)
		}
	}
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		want                           bool
	}{
		{"disjoint", 60, 120, 120, 180, false}, // touching edges do not overlap
		{"identical", 60, 120, 60, 120, true},
		{"contained", 60, 180, 90, 120, true},
		{"partial", 60, 120, 90, 180, true},
		{"before", 0, 60, 120, 180, false},
	}
	for _, tc := range cases {
		if got := RangesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: RangesOverlap(%d,%d,%d,%d) = %v, want %v",
				tc.name, tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
		}
		// overlap is symmetric
		if got := RangesOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
			t.Errorf("%s (swapped): got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSlotContains(t *testing.T) {
	s := AvailabilitySlot{Day: Tuesday, StartMin: 540, EndMin: 720} // 09:00-12:00
	if !s.Contains(540, 720) {
		t.Fatalf("slot should contain its own window")
	}
	if !s.Contains(600, 660) {
		t.Fatalf("slot should contain an interior window")
	}
	if s.Contains(500, 600) {
		t.Fatalf("slot must not contain a window starting before it")
	}
	if s.Contains(700, 760) {
		t.Fatalf("slot must not contain a window ending after it")
	}
}
