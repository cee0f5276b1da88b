// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. Not-found conditions are reported as
// sql.ErrNoRows by the individual repositories.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrInvalidRange is returned when an availability window has
// start >= end.
var ErrInvalidRange = errors.New("invalid time range")

// ErrOverlap is returned when a new availability slot intersects an
// existing active slot of the same mentor on the same day.
var ErrOverlap = errors.New("slot overlaps existing availability")

// ErrRequestRejected is returned when a mentee re-requests a connection
// after a rejection and re-requests are disabled by configuration.
var ErrRequestRejected = errors.New("connection request was rejected")

// ErrAlreadyResponded is returned when a mentor answers a connection
// request that is no longer pending.
var ErrAlreadyResponded = errors.New("request already responded to")

// lockAborted reports whether err is a MySQL deadlock (1213) or lock
// wait timeout (1205).  Two transactions racing for the same free
// window hold compatible gap locks until their inserts collide, and
// InnoDB aborts one of them; the loser would observe the winner's row
// on a retry, so these surface as conflicts, not server failures.
func lockAborted(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == 1213 || me.Number == 1205)
}
