package booking

import (
	"fmt"
	"strings"
	"time"
)

// PreferenceWindow is one user-configured (day, start, end) window.
// Start/End are local times of day in "15:04" form; the day label is
// matched on its first three letters ("Mon" == "Monday" == "monday").
type PreferenceWindow struct {
	Day   string
	Start string
	End   string
}

func (w PreferenceWindow) Validate() error {
	if len(strings.TrimSpace(w.Day)) < 3 {
		return fmt.Errorf("preference day %q too short", w.Day)
	}
	start, err := parseClock(w.Start)
	if err != nil {
		return fmt.Errorf("preference start: %w", err)
	}
	end, err := parseClock(w.End)
	if err != nil {
		return fmt.Errorf("preference end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("preference window %s: end %q not after start %q", w.Day, w.End, w.Start)
	}
	return nil
}

// Matches reports whether the appointment falls inside the window. The
// test has three clauses: the appointment starts inside the window
// (inclusive start, exclusive end), ends inside it (exclusive start,
// inclusive end), or fully contains it.
func (w PreferenceWindow) Matches(a Appointment) bool {
	if !sameDay(w.Day, a.Start.Weekday()) {
		return false
	}
	winStart, err := parseClock(w.Start)
	if err != nil {
		return false
	}
	winEnd, err := parseClock(w.End)
	if err != nil {
		return false
	}
	apptStart := minuteOfDay(a.Start)
	apptEnd := minuteOfDay(a.End)

	return (apptStart >= winStart && apptStart < winEnd) ||
		(apptEnd > winStart && apptEnd <= winEnd) ||
		(apptStart <= winStart && apptEnd >= winEnd)
}

// MatchesAny applies every window in turn; an empty preference list
// matches nothing, so a navigator with no configured windows books
// nothing.
func MatchesAny(windows []PreferenceWindow, a Appointment) bool {
	for _, w := range windows {
		if w.Matches(a) {
			return true
		}
	}
	return false
}

// FilterByPreferences keeps the candidates whose appointment matches at
// least one window, preserving order. Idempotent, so the flow can
// re-apply it before every attempt.
func FilterByPreferences(candidates []Candidate, windows []PreferenceWindow) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if MatchesAny(windows, c.Appointment) {
			out = append(out, c)
		}
	}
	return out
}

func sameDay(label string, day time.Weekday) bool {
	label = strings.TrimSpace(label)
	if len(label) < 3 {
		return false
	}
	return strings.EqualFold(label[:3], day.String()[:3])
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
