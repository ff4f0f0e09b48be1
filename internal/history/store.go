package history

import (
	"context"
	"time"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
)

// Reader is the read side of the signup ledger. Validity protocols only
// ever see this interface.
type Reader interface {
	// CountConflicting returns how many records of typ have a start
	// inside [from, to], inclusive on both ends.
	CountConflicting(ctx context.Context, typ booking.AppointmentType, from, to time.Time) (int, error)

	// CountOverlapping returns how many records of typ have an interval
	// overlapping [start, end) under the three-case test: the existing
	// record straddles the candidate, starts inside it, or ends inside
	// it. Touching endpoints do not overlap.
	CountOverlapping(ctx context.Context, typ booking.AppointmentType, start, end time.Time) (int, error)
}

// Store is the full ledger contract: a durable, append-only record of
// successful claims.
type Store interface {
	Reader

	// Record appends one signup. A failed write is reported to the
	// caller; the flow treats that as a fatal inconsistency because the
	// external claim already happened.
	Record(ctx context.Context, rec booking.SignupRecord) error

	// List returns all records ordered by appointment start.
	List(ctx context.Context) ([]booking.SignupRecord, error)
}
