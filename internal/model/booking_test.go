package model

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingPending, BookingNoShow, false},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingNoShow, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingNoShow, BookingConfirmed, false},
		{"BOGUS", BookingConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatesAreDeadEnds(t *testing.T) {
	all := []string{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingNoShow}
	for _, from := range all {
		if !IsTerminal(from) {
			continue
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal status %s must not transition to %s", from, to)
			}
		}
	}
}

func TestTransitionAllowedFor(t *testing.T) {
	cases := []struct {
		from, to, role string
		want           bool
	}{
		// only the mentor confirms
		{BookingPending, BookingConfirmed, RoleMentor, true},
		{BookingPending, BookingConfirmed, RoleMentee, false},
		// either party cancels
		{BookingPending, BookingCancelled, RoleMentor, true},
		{BookingPending, BookingCancelled, RoleMentee, true},
		{BookingConfirmed, BookingCancelled, RoleMentee, true},
		// outcomes are mentor attestations
		{BookingConfirmed, BookingCompleted, RoleMentor, true},
		{BookingConfirmed, BookingCompleted, RoleMentee, false},
		{BookingConfirmed, BookingNoShow, RoleMentor, true},
		{BookingConfirmed, BookingNoShow, RoleMentee, false},
		// unknown role never acts
		{BookingPending, BookingCancelled, "ADMIN", false},
	}
	for _, tc := range cases {
		if got := TransitionAllowedFor(tc.from, tc.to, tc.role); got != tc.want {
			t.Errorf("TransitionAllowedFor(%s, %s, %s) = %v, want %v",
				tc.from, tc.to, tc.role, got, tc.want)
		}
	}
}

func TestOccupies(t *testing.T) {
	for _, status := range []string{BookingPending, BookingConfirmed} {
		b := Booking{Status: status}
		if !b.Occupies() {
			t.Errorf("%s booking should occupy its window", status)
		}
	}
	for _, status := range []string{BookingCancelled, BookingCompleted, BookingNoShow} {
		b := Booking{Status: status}
		if b.Occupies() {
			t.Errorf("%s booking should not occupy its window", status)
		}
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingNoShow} {
		if !ValidBookingStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "DONE"} {
		if ValidBookingStatus(s) {
			t.Errorf("%q should not be valid", s)
		}
	}
}
