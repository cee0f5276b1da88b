package repository

import (
	"context"
	"database/sql"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

// ConnectionRepo provides data access to the connection_requests table.
// A connection request is the handshake that gates booking: a mentee
// must hold an ACCEPTED request with a mentor before the booking engine
// will take a session for that pair.
type ConnectionRepo struct {
	db *sql.DB
	// allowReRequest controls whether a mentee may send a new request
	// after the mentor rejected a previous one.
	allowReRequest bool
}

// NewConnectionRepo returns a ConnectionRepo bound to the given
// database.  allowReRequest is the ALLOW_REREQUEST_AFTER_REJECTION
// policy knob; the shipped default is false.
func NewConnectionRepo(db *sql.DB, allowReRequest bool) *ConnectionRepo {
	return &ConnectionRepo{db: db, allowReRequest: allowReRequest}
}

// DB exposes the underlying handle for cross-repository transactions.
func (r *ConnectionRepo) DB() *sql.DB { return r.db }

const connColumns = "id, mentor_id, mentee_id, message, status, created_at, responded_at"

func scanConn(row interface{ Scan(...any) error }) (model.ConnectionRequest, error) {
	var cr model.ConnectionRequest
	var responded sql.NullTime
	err := row.Scan(&cr.ID, &cr.MentorID, &cr.MenteeID, &cr.Message, &cr.Status, &cr.CreatedAt, &responded)
	if responded.Valid {
		t := responded.Time
		cr.RespondedAt = &t
	}
	return cr, err
}

// Request creates a pending connection request from mentee to mentor.
// The uniqueness rule — at most one non-rejected request per pair — is
// enforced inside a transaction that locks the pair's rows first.
//
// When a PENDING or ACCEPTED request already exists it is returned with
// created=false and a nil error: the caller can tell "already
// requested" apart from creation without treating it as a failure.
// When the latest request was REJECTED and re-requests are disabled,
// ErrRequestRejected is returned.
//
// Two simultaneous first requests for the same pair both pass the
// FOR UPDATE scan of the empty range and deadlock at the insert; the
// aborted attempt is retried once so it finds the winner's committed
// row and reports created=false instead of failing.
func (r *ConnectionRepo) Request(ctx context.Context, menteeID, mentorID uint64, message string) (model.ConnectionRequest, bool, error) {
	req, created, err := r.requestOnce(ctx, menteeID, mentorID, message)
	if err != nil && lockAborted(err) {
		return r.requestOnce(ctx, menteeID, mentorID, message)
	}
	return req, created, err
}

func (r *ConnectionRepo) requestOnce(ctx context.Context, menteeID, mentorID uint64, message string) (model.ConnectionRequest, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ConnectionRequest{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	existing, err := scanConn(tx.QueryRowContext(ctx,
		`SELECT `+connColumns+` FROM connection_requests
		 WHERE mentor_id = ? AND mentee_id = ? AND status <> 'REJECTED'
		 LIMIT 1 FOR UPDATE`, mentorID, menteeID))
	switch {
	case err == nil:
		// A live request already exists; hand it back untouched.
		if cErr := tx.Commit(); cErr != nil {
			return model.ConnectionRequest{}, false, cErr
		}
		committed = true
		return existing, false, nil
	case err != sql.ErrNoRows:
		return model.ConnectionRequest{}, false, err
	}
	if !r.allowReRequest {
		var rejected int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM connection_requests
			 WHERE mentor_id = ? AND mentee_id = ? AND status = 'REJECTED'`,
			mentorID, menteeID).Scan(&rejected); err != nil {
			return model.ConnectionRequest{}, false, err
		}
		if rejected > 0 {
			return model.ConnectionRequest{}, false, ErrRequestRejected
		}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO connection_requests (mentor_id, mentee_id, message, status) VALUES (?,?,?,'PENDING')`,
		mentorID, menteeID, message)
	if err != nil {
		return model.ConnectionRequest{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ConnectionRequest{}, false, err
	}
	created, err := scanConn(tx.QueryRowContext(ctx,
		`SELECT `+connColumns+` FROM connection_requests WHERE id = ?`, id))
	if err != nil {
		return model.ConnectionRequest{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.ConnectionRequest{}, false, err
	}
	committed = true
	return created, true, nil
}

// Respond resolves a pending request.  Only the addressed mentor may
// respond; a request id belonging to another mentor reports
// sql.ErrNoRows so existence is not leaked.  Responding to an already
// resolved request fails with ErrAlreadyResponded.  The status and
// responded_at are written exactly once.
func (r *ConnectionRepo) Respond(ctx context.Context, mentorID, requestID uint64, accept bool) (model.ConnectionRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ConnectionRequest{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	req, err := scanConn(tx.QueryRowContext(ctx,
		`SELECT `+connColumns+` FROM connection_requests
		 WHERE id = ? AND mentor_id = ? LIMIT 1 FOR UPDATE`, requestID, mentorID))
	if err != nil {
		return model.ConnectionRequest{}, err
	}
	if req.Status != model.ConnectionPending {
		return model.ConnectionRequest{}, ErrAlreadyResponded
	}
	status := model.ConnectionRejected
	if accept {
		status = model.ConnectionAccepted
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE connection_requests SET status = ?, responded_at = UTC_TIMESTAMP() WHERE id = ?`,
		status, requestID); err != nil {
		return model.ConnectionRequest{}, err
	}
	updated, err := scanConn(tx.QueryRowContext(ctx,
		`SELECT `+connColumns+` FROM connection_requests WHERE id = ?`, requestID))
	if err != nil {
		return model.ConnectionRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ConnectionRequest{}, err
	}
	committed = true
	return updated, nil
}

// Status returns the current connection status between a mentee and a
// mentor: PENDING or ACCEPTED when a live request exists, REJECTED when
// the latest resolved request was declined, NONE when no request was
// ever made.
func (r *ConnectionRepo) Status(ctx context.Context, menteeID, mentorID uint64) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM connection_requests
		 WHERE mentor_id = ? AND mentee_id = ?
		 ORDER BY status <> 'REJECTED' DESC, created_at DESC
		 LIMIT 1`, mentorID, menteeID).Scan(&status)
	if err == sql.ErrNoRows {
		return model.ConnectionNone, nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// HasAcceptedTx reports, inside an existing transaction, whether the
// pair holds an accepted connection.  The booking engine calls this as
// its precondition check.
func (r *ConnectionRepo) HasAcceptedTx(ctx context.Context, tx *sql.Tx, menteeID, mentorID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connection_requests
		 WHERE mentor_id = ? AND mentee_id = ? AND status = 'ACCEPTED'`,
		mentorID, menteeID).Scan(&n)
	return n > 0, err
}

// PendingInboxEntry is one row of a mentor's connection inbox: the
// request plus enough requester info to render it.
type PendingInboxEntry struct {
	model.ConnectionRequest
	MenteeName  string `json:"mentee_name"`
	MenteeEmail string `json:"mentee_email"`
}

// PendingForMentor returns the mentor's unresolved requests oldest
// first, the order they are expected to be reviewed in.
func (r *ConnectionRepo) PendingForMentor(ctx context.Context, mentorID uint64) ([]PendingInboxEntry, error) {
	const q = `SELECT cr.id, cr.mentor_id, cr.mentee_id, cr.message, cr.status, cr.created_at, cr.responded_at,
	                  u.name, u.email
	           FROM connection_requests cr
	           JOIN users u ON u.id = cr.mentee_id
	           WHERE cr.mentor_id = ? AND cr.status = 'PENDING'
	           ORDER BY cr.created_at ASC, cr.id ASC`
	rows, err := r.db.QueryContext(ctx, q, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]PendingInboxEntry, 0)
	for rows.Next() {
		var e PendingInboxEntry
		var responded sql.NullTime
		if err := rows.Scan(&e.ID, &e.MentorID, &e.MenteeID, &e.Message, &e.Status, &e.CreatedAt,
			&responded, &e.MenteeName, &e.MenteeEmail); err != nil {
			return nil, err
		}
		if responded.Valid {
			t := responded.Time
			e.RespondedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListForUser returns every request the user is party to in the given
// role, newest first.
func (r *ConnectionRepo) ListForUser(ctx context.Context, userID uint64, role string) ([]model.ConnectionRequest, error) {
	col := "mentee_id"
	if role == model.RoleMentor {
		col = "mentor_id"
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+connColumns+` FROM connection_requests WHERE `+col+` = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs := make([]model.ConnectionRequest, 0)
	for rows.Next() {
		cr, err := scanConn(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, cr)
	}
	return reqs, rows.Err()
}
