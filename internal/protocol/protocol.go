// Package protocol decides whether committing a candidate appointment
// would double-book against the signup ledger. Two policies exist:
// a symmetric time window around the start, and a calendar-week window.
// Both fail closed: any ledger error denies the booking rather than
// risking a duplicate.
package protocol

import (
	"context"
	"fmt"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/rs/zerolog"
)

// Protocol is a pure read over the ledger; CheckValidity never writes.
type Protocol interface {
	Name() string
	CheckValidity(ctx context.Context, a booking.Appointment) bool
}

const (
	KindTimeWindow = "time_window"
	KindWeekWindow = "week_window"
)

// New builds the protocol for a config selection. window is hours for
// time_window and weeks for week_window.
func New(kind string, window int, store history.Reader, logger zerolog.Logger) (Protocol, error) {
	if window < 1 {
		return nil, fmt.Errorf("protocol %s: window must be >= 1, got %d", kind, window)
	}
	switch kind {
	case KindTimeWindow:
		return &TimeWindow{hours: window, store: store, logger: logger}, nil
	case KindWeekWindow:
		return &WeekWindow{weeks: window, store: store, logger: logger}, nil
	}
	return nil, fmt.Errorf("unknown protocol kind %q", kind)
}
