// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the session.events queue.
const (
	SessionConfirmed = "session.confirmed"
	SessionCancelled = "session.cancelled"
)

// SessionEvent is published when a mentorship session is confirmed or
// cancelled. It contains enough information for downstream consumers to
// notify both parties or feed analytics without querying the primary
// database.
type SessionEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	Reference  string `json:"reference"`
	MentorID   uint64 `json:"mentor_id"`
	MentorName string `json:"mentor_name"`
	MenteeID   uint64 `json:"mentee_id"`
	MenteeName string `json:"mentee_name"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	OccurredAt string `json:"occurred_at"`
}
