// Package orchestrator runs every configured navigator on a fixed
// interval. Navigators run sequentially inside a sweep; the type locks
// in the history store keep concurrent sweeps safe regardless.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/OblivionBC/AppointmentBot/internal/navigator"
)

type Orchestrator struct {
	Navigators []*navigator.Navigator
	Notifier   navigator.Notifier
	Interval   time.Duration
	Logger     zerolog.Logger
}

// Sweep runs every navigator once and returns the total number of
// signups committed. Navigator failures are logged and do not stop the
// sweep.
func (o *Orchestrator) Sweep(ctx context.Context) int {
	o.Logger.Info().Int("navigators", len(o.Navigators)).Msg("starting navigator sweep")
	total := 0
	for _, nav := range o.Navigators {
		committed, err := nav.Run(ctx)
		if err != nil {
			o.Logger.Error().Err(err).Str("navigator", nav.Name).Msg("navigator run failed")
			continue
		}
		total += len(committed)
		for _, appt := range committed {
			if o.Notifier == nil {
				continue
			}
			if err := o.Notifier.NotifySuccess(ctx, appt); err != nil {
				o.Logger.Warn().Err(err).Str("appointment", appt.String()).
					Msg("success notification could not be sent")
			}
		}
	}
	o.Logger.Info().Int("committed", total).Msg("navigator sweep finished")
	return total
}

// Run sweeps immediately, then on every tick until the context ends.
// A countdown is logged between sweeps so an idle agent is visibly alive.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.Sweep(ctx)
	nextRun := time.Now().Add(o.Interval)

	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()
	status := time.NewTicker(30 * time.Second)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.Sweep(ctx)
			nextRun = time.Now().Add(o.Interval)
		case <-status.C:
			remaining := time.Until(nextRun)
			if remaining < 0 {
				remaining = 0
			}
			o.Logger.Info().Dur("next_sweep_in", remaining.Round(time.Second)).Msg("waiting for next sweep")
		}
	}
}
