package booking

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentType tags every slot, appointment and ledger row. Conflict
// checks are always scoped to a single type; different types never block
// each other.
type AppointmentType string

const (
	TypeMassage AppointmentType = "MASSAGE"
	TypePhysio  AppointmentType = "PHYSIO"
	TypeChiro   AppointmentType = "CHIRO"
)

func ParseAppointmentType(s string) (AppointmentType, error) {
	switch AppointmentType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeMassage:
		return TypeMassage, nil
	case TypePhysio:
		return TypePhysio, nil
	case TypeChiro:
		return TypeChiro, nil
	}
	return "", fmt.Errorf("unknown appointment type %q", s)
}

// Slot is a raw opening discovered on a site during one pass. Slots are
// rebuilt fresh every discovery run and never persisted.
type Slot struct {
	Day       string // weekday label as scraped, e.g. "Mon"
	Start     time.Time
	End       time.Time
	Available bool
	Type      AppointmentType

	// SourceID is an opaque reference back to where the slot was found,
	// used by the committer to re-locate it for the actual claim.
	SourceID string
}

// Appointment is the canonical claim-candidate built from a Slot. The
// descriptive fields only feed notifications.
type Appointment struct {
	Start time.Time
	End   time.Time
	Type  AppointmentType

	Title       string
	Summary     string
	Description string
	Location    string
}

func (a Appointment) String() string {
	return fmt.Sprintf("%s %s - %s @ %s",
		a.Type, a.Start.Format("2006-01-02 15:04"), a.End.Format("15:04"), a.Location)
}

// FromSlot derives the Appointment for a discovered slot.
func FromSlot(s Slot, location string) Appointment {
	return Appointment{
		Start:       s.Start,
		End:         s.End,
		Type:        s.Type,
		Title:       string(s.Type) + " Appointment",
		Summary:     fmt.Sprintf("%s : %s", s.Type, location),
		Description: "Booked by AppointmentBot",
		Location:    location,
	}
}

// SignupRecord is the persisted fact of a successful claim. Append-only;
// the agent never updates or deletes rows.
type SignupRecord struct {
	ID         int64
	SourceID   string
	Start      time.Time
	End        time.Time
	Type       AppointmentType
	RecordedAt time.Time
}

// Candidate pairs an Appointment with its originating Slot for the
// duration of one run. The pairing is positional, not identity-based:
// a run works on an ordered []Candidate.
type Candidate struct {
	Appointment Appointment
	Slot        Slot
	Priority    int // ascending; lower claims first
}
