package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02 in UTC.
func mondayAt(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func apptAt(start time.Time, d time.Duration) Appointment {
	return Appointment{Start: start, End: start.Add(d), Type: TypeMassage}
}

func TestPreferenceWindow_Validate(t *testing.T) {
	assert.NoError(t, PreferenceWindow{Day: "Monday", Start: "09:00", End: "12:00"}.Validate())
	assert.Error(t, PreferenceWindow{Day: "M", Start: "09:00", End: "12:00"}.Validate())
	assert.Error(t, PreferenceWindow{Day: "Monday", Start: "9am", End: "12:00"}.Validate())
	assert.Error(t, PreferenceWindow{Day: "Monday", Start: "12:00", End: "12:00"}.Validate())
	assert.Error(t, PreferenceWindow{Day: "Monday", Start: "12:00", End: "09:00"}.Validate())
}

func TestPreferenceWindow_Matches(t *testing.T) {
	win := PreferenceWindow{Day: "Monday", Start: "09:00", End: "12:00"}

	tests := []struct {
		name string
		a    Appointment
		want bool
	}{
		{"starts inside", apptAt(mondayAt(10, 0), time.Hour), true},
		{"starts at window start", apptAt(mondayAt(9, 0), time.Hour), true},
		{"starts at window end", apptAt(mondayAt(12, 0), time.Hour), false},
		{"ends inside", apptAt(mondayAt(8, 30), time.Hour), true},
		{"ends at window start", apptAt(mondayAt(8, 0), time.Hour), false},
		{"ends at window end", apptAt(mondayAt(11, 0), time.Hour), true},
		{"contains the window", apptAt(mondayAt(8, 0), 5*time.Hour), true},
		{"entirely before", apptAt(mondayAt(6, 0), time.Hour), false},
		{"entirely after", apptAt(mondayAt(13, 0), time.Hour), false},
		{"wrong day", apptAt(mondayAt(10, 0).AddDate(0, 0, 1), time.Hour), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, win.Matches(tc.a))
		})
	}
}

func TestPreferenceWindow_DayLabels(t *testing.T) {
	a := apptAt(mondayAt(10, 0), time.Hour)
	for _, day := range []string{"Mon", "mon", "Monday", "MONDAY", " monday "} {
		win := PreferenceWindow{Day: day, Start: "09:00", End: "12:00"}
		assert.True(t, win.Matches(a), "label %q should match Monday", day)
	}
	win := PreferenceWindow{Day: "Tue", Start: "09:00", End: "12:00"}
	assert.False(t, win.Matches(a))
}

func TestMatchesAny_EmptyMatchesNothing(t *testing.T) {
	a := apptAt(mondayAt(10, 0), time.Hour)
	assert.False(t, MatchesAny(nil, a))
	assert.False(t, MatchesAny([]PreferenceWindow{}, a))
}

func TestFilterByPreferences(t *testing.T) {
	wins := []PreferenceWindow{
		{Day: "Monday", Start: "09:00", End: "12:00"},
		{Day: "Wednesday", Start: "17:00", End: "19:00"},
	}

	monMatch := Candidate{Appointment: apptAt(mondayAt(10, 0), time.Hour)}
	monMiss := Candidate{Appointment: apptAt(mondayAt(14, 0), time.Hour)}
	wedMatch := Candidate{Appointment: apptAt(mondayAt(17, 30).AddDate(0, 0, 2), time.Hour)}

	in := []Candidate{monMatch, monMiss, wedMatch}
	out := FilterByPreferences(in, wins)
	require.Len(t, out, 2)
	assert.Equal(t, monMatch.Appointment.Start, out[0].Appointment.Start)
	assert.Equal(t, wedMatch.Appointment.Start, out[1].Appointment.Start)

	// Idempotent.
	again := FilterByPreferences(out, wins)
	assert.Equal(t, out, again)
}

func TestParseAppointmentType(t *testing.T) {
	for _, s := range []string{"massage", "MASSAGE", " Massage "} {
		typ, err := ParseAppointmentType(s)
		require.NoError(t, err)
		assert.Equal(t, TypeMassage, typ)
	}
	_, err := ParseAppointmentType("yoga")
	assert.Error(t, err)
}
