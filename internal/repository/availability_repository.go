package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

// AvailabilityRepo provides data access to the availability_slots table,
// a mentor's recurring weekly template.  Slots are immutable in place:
// edits happen as delete + recreate, and redefining the whole week runs
// as a single transaction so a crash cannot leave a mentor with an
// empty template.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repositories.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

const slotColumns = "id, mentor_id, weekday, start_min, end_min, is_active, created_at"

func scanSlot(row interface{ Scan(...any) error }) (model.AvailabilitySlot, error) {
	var s model.AvailabilitySlot
	err := row.Scan(&s.ID, &s.MentorID, &s.Day, &s.StartMin, &s.EndMin, &s.IsActive, &s.CreatedAt)
	return s, err
}

// Create inserts a new slot after checking it against the mentor's
// existing active windows on the same day.  It returns ErrInvalidRange
// when start >= end and ErrOverlap when the window intersects an active
// slot.  The check and the insert run inside one transaction so two
// concurrent edits cannot produce an overlapping template.
func (r *AvailabilityRepo) Create(ctx context.Context, mentorID uint64, day model.Weekday, startMin, endMin int) (model.AvailabilitySlot, error) {
	if startMin >= endMin {
		return model.AvailabilitySlot{}, ErrInvalidRange
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Lock the mentor's slots for this day while checking for overlap.
	const checkQ = `SELECT COUNT(*) FROM availability_slots
	                WHERE mentor_id = ? AND weekday = ? AND is_active = 1
	                  AND start_min < ? AND end_min > ?
	                FOR UPDATE`
	var clashes int
	if err := tx.QueryRowContext(ctx, checkQ, mentorID, day, endMin, startMin).Scan(&clashes); err != nil {
		return model.AvailabilitySlot{}, err
	}
	if clashes > 0 {
		return model.AvailabilitySlot{}, ErrOverlap
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO availability_slots (mentor_id, weekday, start_min, end_min) VALUES (?,?,?,?)`,
		mentorID, day, startMin, endMin)
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	slot, err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM availability_slots WHERE id = ?`, id))
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.AvailabilitySlot{}, err
	}
	committed = true
	return slot, nil
}

// Delete removes a slot owned by the mentor.  The delete is idempotent:
// removing an unknown or already-deleted slot succeeds.  Bookings that
// referenced the slot keep their own dates and stay valid; only the
// foreign key is detached by the schema's ON DELETE SET NULL.
func (r *AvailabilityRepo) Delete(ctx context.Context, mentorID, slotID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM availability_slots WHERE id = ? AND mentor_id = ?`, slotID, mentorID)
	return err
}

// Deactivate soft-deletes a slot: it stops matching new bookings but
// the row is kept for history.
func (r *AvailabilityRepo) Deactivate(ctx context.Context, mentorID, slotID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE availability_slots SET is_active = 0 WHERE id = ? AND mentor_id = ?`, slotID, mentorID)
	return err
}

// ListActive returns a mentor's active slots ordered by weekday then
// start time.  Pass day = 0 for the whole week.
func (r *AvailabilityRepo) ListActive(ctx context.Context, mentorID uint64, day model.Weekday) ([]model.AvailabilitySlot, error) {
	q := `SELECT ` + slotColumns + ` FROM availability_slots
	      WHERE mentor_id = ? AND is_active = 1`
	args := []any{mentorID}
	if day != 0 {
		q += ` AND weekday = ?`
		args = append(args, day)
	}
	q += ` ORDER BY weekday, start_min`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ActiveSlotsForDayTx returns the mentor's active windows for one
// weekday inside an existing transaction, locking them so a concurrent
// ReplaceWeek cannot pull the template out from under a booking that is
// being validated against it.
func (r *AvailabilityRepo) ActiveSlotsForDayTx(ctx context.Context, tx *sql.Tx, mentorID uint64, day model.Weekday) ([]model.AvailabilitySlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM availability_slots
	           WHERE mentor_id = ? AND weekday = ? AND is_active = 1
	           ORDER BY start_min
	           FOR SHARE`
	rows, err := tx.QueryContext(ctx, q, mentorID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// SlotInput is one window of a full-week template submitted to ReplaceWeek.
type SlotInput struct {
	Day      model.Weekday
	StartMin int
	EndMin   int
}

// ReplaceWeek swaps a mentor's entire weekly template in one
// transaction: every current slot is deleted and the provided set is
// inserted.  The new set is validated first — each window needs
// start < end (ErrInvalidRange) and windows on the same day must not
// intersect each other (ErrOverlap) — so a bad template never destroys
// the old one.  Existing bookings are untouched; they carry their own
// concrete dates.
func (r *AvailabilityRepo) ReplaceWeek(ctx context.Context, mentorID uint64, slots []SlotInput) ([]model.AvailabilitySlot, error) {
	for i, s := range slots {
		if s.StartMin >= s.EndMin {
			return nil, ErrInvalidRange
		}
		for j := 0; j < i; j++ {
			o := slots[j]
			if o.Day == s.Day && model.RangesOverlap(o.StartMin, o.EndMin, s.StartMin, s.EndMin) {
				return nil, ErrOverlap
			}
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM availability_slots WHERE mentor_id = ?`, mentorID); err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		q := `INSERT INTO availability_slots (mentor_id, weekday, start_min, end_min) VALUES `
		args := make([]any, 0, len(slots)*4)
		ph := make([]string, 0, len(slots))
		for _, s := range slots {
			ph = append(ph, "(?,?,?,?)")
			args = append(args, mentorID, s.Day, s.StartMin, s.EndMin)
		}
		if _, err := tx.ExecContext(ctx, q+strings.Join(ph, ","), args...); err != nil {
			return nil, err
		}
	}
	// Read the new template back inside the same transaction.
	rows, err := tx.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM availability_slots
		 WHERE mentor_id = ? AND is_active = 1 ORDER BY weekday, start_min`, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailabilitySlot, 0, len(slots))
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return out, nil
}
