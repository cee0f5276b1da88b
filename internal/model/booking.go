package model

import "time"

// Booking statuses.  PENDING and CONFIRMED bookings occupy the mentor's
// calendar; CANCELLED, COMPLETED and NO_SHOW are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
	BookingNoShow    = "NO_SHOW"
)

// User roles as carried in the JWT "role" claim.
const (
	RoleMentor = "MENTOR"
	RoleMentee = "MENTEE"
)

// Booking is a concrete, dated session between a mentee and a mentor.
// Unlike an AvailabilitySlot it names an actual date: StartsAt and
// EndsAt are naive wall-clock instants copied out of the slot window at
// creation time, so deleting the originating slot later does not
// invalidate the booking.
//
// Fields:
//  ID        – primary key identifier.
//  Reference – opaque UUID handed to clients and event consumers.
//  MentorID  – the mentor giving the session.
//  MenteeID  – the mentee who booked it.
//  SlotID    – originating availability slot, if still known (nullable).
//  StartsAt  – session start (wall clock, minute precision).
//  EndsAt    – session end, always after StartsAt.
//  Status    – see the status constants above.
//  Notes     – free text from the mentee.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last status change.
type Booking struct {
	ID        uint64    `json:"id"`
	Reference string    `json:"reference"`
	MentorID  uint64    `json:"mentor_id"`
	MenteeID  uint64    `json:"mentee_id"`
	SlotID    *uint64   `json:"slot_id,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Occupies reports whether the booking still blocks its time window.
func (b *Booking) Occupies() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsTerminal reports whether no further status transitions are allowed.
func IsTerminal(status string) bool {
	switch status {
	case BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

// transitionRule records which parties may drive a given status change.
type transitionRule struct {
	Mentor bool
	Mentee bool
}

// bookingTransitions is the full transition table.  Anything absent from
// the table is illegal, which also makes every terminal status a dead
// end.  Completion and no-show are explicit mentor actions; nothing
// moves a booking based on the clock.
var bookingTransitions = map[string]map[string]transitionRule{
	BookingPending: {
		BookingConfirmed: {Mentor: true},
		BookingCancelled: {Mentor: true, Mentee: true},
	},
	BookingConfirmed: {
		BookingCancelled: {Mentor: true, Mentee: true},
		BookingCompleted: {Mentor: true},
		BookingNoShow:    {Mentor: true},
	},
}

// CanTransition reports whether moving a booking from one status to
// another is ever legal, for any actor.
func CanTransition(from, to string) bool {
	_, ok := bookingTransitions[from][to]
	return ok
}

// TransitionAllowedFor reports whether the given actor role may drive
// the from→to transition.  It returns false both for illegal
// transitions and for legal transitions driven by the wrong party.
func TransitionAllowedFor(from, to, role string) bool {
	rule, ok := bookingTransitions[from][to]
	if !ok {
		return false
	}
	switch role {
	case RoleMentor:
		return rule.Mentor
	case RoleMentee:
		return rule.Mentee
	}
	return false
}

// ValidBookingStatus reports whether s is one of the defined statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}
