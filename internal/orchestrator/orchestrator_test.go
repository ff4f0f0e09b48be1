package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/navigator"
	"github.com/OblivionBC/AppointmentBot/internal/protocol"
)

type staticSource struct {
	slots []booking.Slot
}

func (s staticSource) Discover(context.Context, navigator.Site) ([]booking.Slot, error) {
	return s.slots, nil
}

type okCommitter struct{}

func (okCommitter) Attempt(context.Context, booking.Appointment, booking.Slot) (bool, error) {
	return true, nil
}

type countingNotifier struct {
	mu        sync.Mutex
	successes int
}

func (c *countingNotifier) NotifySuccess(context.Context, booking.Appointment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes++
	return nil
}

func (c *countingNotifier) NotifyFailure(context.Context, string, string, string) error {
	return nil
}

func buildNavigator(t *testing.T, name string, typ booking.AppointmentType, starts ...time.Time) *navigator.Navigator {
	t.Helper()
	store := history.NewMemory()
	p, err := protocol.New(protocol.KindWeekWindow, 1, store, zerolog.Nop())
	require.NoError(t, err)

	var slots []booking.Slot
	var prefs []booking.PreferenceWindow
	for _, s := range starts {
		slots = append(slots, booking.Slot{
			Day:       s.Weekday().String()[:3],
			Start:     s,
			End:       s.Add(time.Hour),
			Available: true,
			Type:      typ,
			SourceID:  "https://example.test/" + name,
		})
		prefs = append(prefs, booking.PreferenceWindow{
			Day: s.Weekday().String(), Start: "00:00", End: "23:59",
		})
	}

	return &navigator.Navigator{
		Name:      name,
		Type:      typ,
		Location:  "Gym",
		Sites:     []navigator.Site{{Name: "main", URL: "https://example.test/" + name, Priority: 1}},
		Prefs:     prefs,
		Source:    staticSource{slots: slots},
		Committer: okCommitter{},
		Protocol:  p,
		Store:     store,
		Locks:     history.NewTypeLocks(),
		Logger:    zerolog.Nop(),
	}
}

func TestSweep_RunsEveryNavigatorAndNotifies(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	not := &countingNotifier{}
	o := &Orchestrator{
		Navigators: []*navigator.Navigator{
			buildNavigator(t, "massage", booking.TypeMassage, monday),
			buildNavigator(t, "physio", booking.TypePhysio, tuesday),
		},
		Notifier: not,
		Logger:   zerolog.Nop(),
	}

	total := o.Sweep(context.Background())
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, not.successes)
}

func TestSweep_SecondSweepBooksNothingNew(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	o := &Orchestrator{
		Navigators: []*navigator.Navigator{buildNavigator(t, "massage", booking.TypeMassage, monday)},
		Logger:     zerolog.Nop(),
	}

	assert.Equal(t, 1, o.Sweep(context.Background()))
	assert.Equal(t, 0, o.Sweep(context.Background()),
		"the ledger remembers the first sweep's signup")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	o := &Orchestrator{
		Interval: time.Hour,
		Logger:   zerolog.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
