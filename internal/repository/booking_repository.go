package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

// BookingRepo provides CRUD operations for session bookings.  A booking
// stores its own concrete start and end instants; it never depends on
// the availability slot it was derived from still existing.  All
// write paths that guard the no-double-booking invariant take an
// explicit transaction so the overlap check and the insert (or the
// status read and update) commit or fail as one unit.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = "id, reference, mentor_id, mentee_id, slot_id, starts_at, ends_at, status, notes, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var slotID sql.NullInt64
	err := row.Scan(&b.ID, &b.Reference, &b.MentorID, &b.MenteeID, &slotID,
		&b.StartsAt, &b.EndsAt, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if slotID.Valid {
		v := uint64(slotID.Int64)
		b.SlotID = &v
	}
	return b, err
}

// HasOverlapTx reports whether any of the mentor's pending or confirmed
// bookings intersects the [start, end) window.  The matching rows are
// locked with FOR UPDATE; together with the index on
// (mentor_id, starts_at) this serializes concurrent booking attempts
// for the same mentor so at most one of two overlapping requests can
// reach the insert.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, mentorID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE mentor_id = ?
	             AND status IN ('PENDING','CONFIRMED')
	             AND starts_at < ? AND ends_at > ?
	           FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, mentorID, end, start).Scan(&n); err != nil {
		if lockAborted(err) {
			return false, ErrOverlap
		}
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a new pending booking within the scope of an
// existing transaction and populates the generated id, reference and
// timestamps on the provided record.  The caller must have performed
// the connection, availability and overlap checks in the same
// transaction before calling this.  When two transactions race past
// the overlap check on the same free window, their gap locks collide
// at the insert and InnoDB aborts one; the aborted side reports
// ErrOverlap since the other booking now occupies the window.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	b.Reference = uuid.NewString()
	b.Status = model.BookingPending
	var slotID any
	if b.SlotID != nil {
		slotID = *b.SlotID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, mentor_id, mentee_id, slot_id, starts_at, ends_at, status, notes)
		 VALUES (?,?,?,?,?,?,?,?)`,
		b.Reference, b.MentorID, b.MenteeID, slotID, b.StartsAt, b.EndsAt, b.Status, b.Notes)
	if err != nil {
		if lockAborted(err) {
			return ErrOverlap
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	created, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	*b = created
	return nil
}

// GetForUpdateTx loads a booking by id inside a transaction, locking
// the row so that two concurrent status changes observe each other.
// sql.ErrNoRows is returned for unknown ids.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
}

// UpdateStatusTx writes a new status inside the caller's transaction.
// Legality of the transition is the caller's responsibility: the row
// must have been loaded with GetForUpdateTx and checked against the
// lifecycle table first.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, status, id)
	return err
}

// BookingDetail is a booking joined with both parties' display names,
// the shape session lists are rendered from.
type BookingDetail struct {
	model.Booking
	MentorName string `json:"mentor_name"`
	MenteeName string `json:"mentee_name"`
}

const detailColumns = `b.id, b.reference, b.mentor_id, b.mentee_id, b.slot_id, b.starts_at, b.ends_at,
	b.status, b.notes, b.created_at, b.updated_at, m.name, s.name`

const detailJoins = `FROM bookings b
	JOIN users m ON m.id = b.mentor_id
	JOIN users s ON s.id = b.mentee_id`

func collectDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var slotID sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Reference, &d.MentorID, &d.MenteeID, &slotID,
			&d.StartsAt, &d.EndsAt, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.MentorName, &d.MenteeName); err != nil {
			return nil, err
		}
		if slotID.Valid {
			v := uint64(slotID.Int64)
			d.SlotID = &v
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetDetail returns one booking with party names.  sql.ErrNoRows is
// returned when the id is unknown; callers decide whether the caller
// is allowed to see it.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (BookingDetail, error) {
	var d BookingDetail
	var slotID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` WHERE b.id = ?`, id).Scan(
		&d.ID, &d.Reference, &d.MentorID, &d.MenteeID, &slotID,
		&d.StartsAt, &d.EndsAt, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&d.MentorName, &d.MenteeName)
	if err != nil {
		return BookingDetail{}, err
	}
	if slotID.Valid {
		v := uint64(slotID.Int64)
		d.SlotID = &v
	}
	return d, nil
}

// ListForUser returns the user's bookings in the given role, optionally
// filtered by status, ordered by start time ascending.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64, role, status string) ([]BookingDetail, error) {
	col := "b.mentee_id"
	if role == model.RoleMentor {
		col = "b.mentor_id"
	}
	q := `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE ` + col + ` = ?`
	args := []any{userID}
	if status != "" {
		q += ` AND b.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY b.starts_at ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// UpcomingForUser returns the user's pending and confirmed sessions
// that start at or after now, soonest first.  now is a naive wall-clock
// instant matching how session times are stored.
func (r *BookingRepo) UpcomingForUser(ctx context.Context, userID uint64, role string, now time.Time) ([]BookingDetail, error) {
	col := "b.mentee_id"
	if role == model.RoleMentor {
		col = "b.mentor_id"
	}
	q := `SELECT ` + detailColumns + ` ` + detailJoins + `
	      WHERE ` + col + ` = ? AND b.status IN ('PENDING','CONFIRMED') AND b.starts_at >= ?
	      ORDER BY b.starts_at ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// OccupyingForMentorBetween returns the mentor's pending and confirmed
// bookings whose windows fall inside [from, to), the set a calendar
// grid needs to mark occupied sub-ranges.
func (r *BookingRepo) OccupyingForMentorBetween(ctx context.Context, mentorID uint64, from, to time.Time) ([]BookingDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + `
	      WHERE b.mentor_id = ? AND b.status IN ('PENDING','CONFIRMED')
	        AND b.starts_at < ? AND b.ends_at > ?
	      ORDER BY b.starts_at ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q, mentorID, to, from)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}
