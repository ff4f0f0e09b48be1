package history

import (
	"context"
	"fmt"
	"time"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/db"
)

// Repo is the Postgres-backed ledger.
type Repo struct {
	db *db.DB
}

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Record(ctx context.Context, rec booking.SignupRecord) error {
	err := r.db.Exec(ctx, `
INSERT INTO signups(source_identifier, start_at, end_at, appointment_type, recorded_at)
VALUES ($1,$2,$3,$4,$5)`,
		rec.SourceID, rec.Start.UTC(), rec.End.UTC(), string(rec.Type), rec.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record signup: %w", err)
	}
	return nil
}

func (r *Repo) CountConflicting(ctx context.Context, typ booking.AppointmentType, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
SELECT COUNT(*) FROM signups
WHERE appointment_type=$1 AND start_at BETWEEN $2 AND $3`,
		string(typ), from.UTC(), to.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count conflicting: %w", err)
	}
	return n, nil
}

func (r *Repo) CountOverlapping(ctx context.Context, typ booking.AppointmentType, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
SELECT COUNT(*) FROM signups
WHERE appointment_type=$1
  AND (
       (start_at <= $2 AND end_at >= $3)
    OR (start_at >= $2 AND start_at < $3)
    OR (end_at > $2 AND end_at <= $3)
  )`,
		string(typ), start.UTC(), end.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overlapping: %w", err)
	}
	return n, nil
}

func (r *Repo) List(ctx context.Context) ([]booking.SignupRecord, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, source_identifier, start_at, end_at, appointment_type, recorded_at
FROM signups
ORDER BY start_at`)
	if err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	defer rows.Close()

	var out []booking.SignupRecord
	for rows.Next() {
		var rec booking.SignupRecord
		var typ string
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.Start, &rec.End, &typ, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Type = booking.AppointmentType(typ)
		out = append(out, rec)
	}
	return out, rows.Err()
}
