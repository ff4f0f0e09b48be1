package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders a single-event iCalendar document for a booked
// appointment. now stamps DTSTAMP so the output is reproducible in tests.
func BuildICS(a booking.Appointment, now time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//AppointmentBot//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s@apptbot\r\n", uuid.NewString())
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", now.UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", a.Start.UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", a.End.UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(a.Title))
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(a.Description))
	fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICS(a.Location))
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
