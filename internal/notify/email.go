// Package notify delivers booking outcomes by email. Successes carry an
// iCalendar attachment for the booked appointment; failures name the
// navigator, the appointment, and the reason.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/config"
)

type Email struct {
	cfg    config.SMTP
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger zerolog.Logger
}

func NewEmail(cfg config.SMTP, logger zerolog.Logger) *Email {
	return &Email{cfg: cfg, send: smtp.SendMail, logger: logger}
}

func (e *Email) NotifySuccess(_ context.Context, a booking.Appointment) error {
	subject := fmt.Sprintf("Booked: %s", a.Title)
	body := fmt.Sprintf("Signed up for %s.\r\n\r\n%s\r\nLocation: %s\r\n", a.String(), a.Description, a.Location)
	msg := e.buildMessage(subject, body, BuildICS(a, time.Now().UTC()))
	return e.deliver(msg)
}

func (e *Email) NotifyFailure(_ context.Context, navigator, description, reason string) error {
	subject := fmt.Sprintf("Signup failed: %s", navigator)
	body := fmt.Sprintf("Navigator: %s\r\nAppointment: %s\r\nReason: %s\r\n", navigator, description, reason)
	msg := e.buildMessage(subject, body, "")
	return e.deliver(msg)
}

func (e *Email) deliver(msg []byte) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}
	if err := e.send(addr, auth, e.cfg.From, splitRecipients(e.cfg.To), msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

const mimeBoundary = "apptbot-boundary"

func (e *Email) buildMessage(subject, body, ics string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if ics == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(body)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	fmt.Fprintf(&b, "\r\n--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/calendar; method=PUBLISH; charset=utf-8\r\n")
	b.WriteString("Content-Disposition: attachment; filename=appointment.ics\r\n\r\n")
	b.WriteString(ics)
	fmt.Fprintf(&b, "\r\n--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

func splitRecipients(to string) []string {
	var out []string
	for _, p := range strings.Split(to, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Nop discards every notification. Used for dry runs and when SMTP is
// not configured.
type Nop struct{}

func (Nop) NotifySuccess(context.Context, booking.Appointment) error { return nil }

func (Nop) NotifyFailure(context.Context, string, string, string) error { return nil }
