package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/rs/zerolog"
)

// TimeWindow denies a candidate if any same-type record starts within
// +-hours of the candidate's start. It never looks at interval overlap:
// a close-but-non-overlapping record still blocks.
type TimeWindow struct {
	hours  int
	store  history.Reader
	logger zerolog.Logger
}

func (p *TimeWindow) Name() string {
	return fmt.Sprintf("%s(%dh)", KindTimeWindow, p.hours)
}

func (p *TimeWindow) CheckValidity(ctx context.Context, a booking.Appointment) bool {
	from := a.Start.Add(-time.Duration(p.hours) * time.Hour)
	to := a.Start.Add(time.Duration(p.hours) * time.Hour)

	n, err := p.store.CountConflicting(ctx, a.Type, from, to)
	if err != nil {
		p.logger.Error().Err(err).Str("protocol", p.Name()).
			Time("start", a.Start).Msg("validity check failed, denying booking")
		return false
	}
	if n > 0 {
		p.logger.Debug().Str("protocol", p.Name()).Time("start", a.Start).
			Int("existing", n).Msg("candidate blocked by existing signup in window")
		return false
	}
	return true
}
