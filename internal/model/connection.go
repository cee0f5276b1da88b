package model

import "time"

// Connection request statuses.  A request is resolved exactly once;
// responded_at stays NULL until the mentor accepts or rejects it.
const (
	ConnectionPending  = "PENDING"
	ConnectionAccepted = "ACCEPTED"
	ConnectionRejected = "REJECTED"
	// ConnectionNone is a synthetic status reported when no request
	// exists between a pair; it is never stored.
	ConnectionNone = "NONE"
)

// MaxConnectionMessageLen bounds the free-text message a mentee attaches
// to a connection request.
const MaxConnectionMessageLen = 1000

// ConnectionRequest is the handshake record gating whether a mentee may
// book a given mentor.  At most one non-rejected request exists per
// (mentor, mentee) pair at any time.
//
// Fields:
//  ID          – primary key identifier.
//  MentorID    – the mentor being asked for access.
//  MenteeID    – the requesting mentee.
//  Message     – free-text introduction, at most MaxConnectionMessageLen chars.
//  Status      – PENDING, ACCEPTED or REJECTED.
//  CreatedAt   – when the mentee sent the request.
//  RespondedAt – when the mentor resolved it (nil while pending).
type ConnectionRequest struct {
	ID          uint64     `json:"id"`
	MentorID    uint64     `json:"mentor_id"`
	MenteeID    uint64     `json:"mentee_id"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// IsPending reports whether the request still awaits the mentor's decision.
func (r *ConnectionRequest) IsPending() bool { return r.Status == ConnectionPending }

// IsAccepted reports whether the mentor granted access.
func (r *ConnectionRequest) IsAccepted() bool { return r.Status == ConnectionAccepted }
