package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/config"
)

func testAppointment() booking.Appointment {
	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	return booking.Appointment{
		Start:       start,
		End:         start.Add(time.Hour),
		Type:        booking.TypeMassage,
		Title:       "MASSAGE Appointment",
		Description: "Booked by AppointmentBot",
		Location:    "Wellness Centre",
	}
}

func TestBuildICS(t *testing.T) {
	a := testAppointment()
	now := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)

	ics := BuildICS(a, now)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "DTSTAMP:20260228T120000Z\r\n")
	assert.Contains(t, ics, "DTSTART:20260302T100000Z\r\n")
	assert.Contains(t, ics, "DTEND:20260302T110000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:MASSAGE Appointment\r\n")
	assert.Contains(t, ics, "LOCATION:Wellness Centre\r\n")
	assert.Contains(t, ics, "@apptbot\r\n")
}

func TestBuildICS_Escaping(t *testing.T) {
	a := testAppointment()
	a.Location = "Room 4; Main Gym, Floor 2"

	ics := BuildICS(a, time.Now())
	assert.Contains(t, ics, `LOCATION:Room 4\; Main Gym\, Floor 2`)
}

func TestEmail_Success(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	e := NewEmail(config.SMTP{
		Host: "smtp.example.com",
		Port: 587,
		From: "bot@example.com",
		To:   "a@example.com, b@example.com",
	}, zerolog.Nop())
	e.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, e.NotifySuccess(context.Background(), testAppointment()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Booked: MASSAGE Appointment\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/mixed")
	assert.Contains(t, msg, "BEGIN:VCALENDAR")
	assert.Contains(t, msg, "filename=appointment.ics")
}

func TestEmail_Failure(t *testing.T) {
	var gotMsg []byte
	e := NewEmail(config.SMTP{
		Host: "smtp.example.com",
		Port: 587,
		From: "bot@example.com",
		To:   "ops@example.com",
	}, zerolog.Nop())
	e.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	require.NoError(t, e.NotifyFailure(context.Background(), "massage", "MASSAGE 2026-03-02 10:00", "site timed out"))

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Signup failed: massage\r\n")
	assert.Contains(t, msg, "Reason: site timed out")
	assert.NotContains(t, msg, "BEGIN:VCALENDAR", "failure mail carries no attachment")
}
