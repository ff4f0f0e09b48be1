package history

import (
	"sync"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
)

// TypeLocks serializes the check -> claim -> record sequence per
// appointment type. Two navigators (or two overlapping runs) that share
// a store must not both pass a validity check before either persists;
// holding the type's lock across the external claim attempt closes that
// window. An in-process lock is enough because every navigator for a
// given type runs inside the one agent process.
type TypeLocks struct {
	mu    sync.Mutex
	locks map[booking.AppointmentType]*sync.Mutex
}

func NewTypeLocks() *TypeLocks {
	return &TypeLocks{locks: make(map[booking.AppointmentType]*sync.Mutex)}
}

// Acquire locks the given type and returns the unlock func.
func (t *TypeLocks) Acquire(typ booking.AppointmentType) func() {
	t.mu.Lock()
	l, ok := t.locks[typ]
	if !ok {
		l = &sync.Mutex{}
		t.locks[typ] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
