package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
)

// Memory is an in-process Store with the same counting semantics as the
// Postgres repo. It backs dry runs and tests; nothing survives the
// process.
type Memory struct {
	mu   sync.RWMutex
	recs []booking.SignupRecord
	next int64
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Record(_ context.Context, rec booking.SignupRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	rec.ID = m.next
	m.recs = append(m.recs, rec)
	return nil
}

func (m *Memory) CountConflicting(_ context.Context, typ booking.AppointmentType, from, to time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.recs {
		if r.Type != typ {
			continue
		}
		if !r.Start.Before(from) && !r.Start.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountOverlapping(_ context.Context, typ booking.AppointmentType, start, end time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.recs {
		if r.Type != typ {
			continue
		}
		straddles := !r.Start.After(start) && !r.End.Before(end)
		startsInside := !r.Start.Before(start) && r.Start.Before(end)
		endsInside := r.End.After(start) && !r.End.After(end)
		if straddles || startsInside || endsInside {
			n++
		}
	}
	return n, nil
}

func (m *Memory) List(_ context.Context) ([]booking.SignupRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]booking.SignupRecord, len(m.recs))
	copy(out, m.recs)
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
