package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/rs/zerolog"
)

// WeekWindow enforces one booking per W-week calendar window and, on top
// of that, rejects any direct interval overlap with a same-type record.
// The window anchors at the most recent Sunday (or the start itself if
// it falls on a Sunday) and runs through Saturday of week W, 23:59:59.
type WeekWindow struct {
	weeks  int
	store  history.Reader
	logger zerolog.Logger
}

func (p *WeekWindow) Name() string {
	return fmt.Sprintf("%s(%dw)", KindWeekWindow, p.weeks)
}

func (p *WeekWindow) CheckValidity(ctx context.Context, a booking.Appointment) bool {
	from, to := weekWindow(a.Start, p.weeks)

	n, err := p.store.CountConflicting(ctx, a.Type, from, to)
	if err != nil {
		p.logger.Error().Err(err).Str("protocol", p.Name()).
			Time("start", a.Start).Msg("week window check failed, denying booking")
		return false
	}
	if n > 0 {
		p.logger.Debug().Str("protocol", p.Name()).Time("start", a.Start).
			Time("week_start", from).Int("existing", n).
			Msg("candidate blocked by existing signup in week window")
		return false
	}

	n, err = p.store.CountOverlapping(ctx, a.Type, a.Start, a.End)
	if err != nil {
		p.logger.Error().Err(err).Str("protocol", p.Name()).
			Time("start", a.Start).Msg("overlap check failed, denying booking")
		return false
	}
	if n > 0 {
		p.logger.Debug().Str("protocol", p.Name()).Time("start", a.Start).
			Int("existing", n).Msg("candidate overlaps existing signup")
		return false
	}
	return true
}

// weekWindow returns the inclusive range [weekStart 00:00:00, lastSaturday
// 23:59:59] in t's location, where weekStart is the previous-or-same Sunday
// and lastSaturday is the Saturday of week number weeks.
func weekWindow(t time.Time, weeks int) (time.Time, time.Time) {
	daysSinceSunday := int(t.Weekday()) // Sunday == 0
	year, month, day := t.AddDate(0, 0, -daysSinceSunday).Date()

	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 7*(weeks-1)+6)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, t.Location())
	return start, end
}
