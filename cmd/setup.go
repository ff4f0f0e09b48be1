package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/config"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/navigator"
	"github.com/OblivionBC/AppointmentBot/internal/protocol"
	"github.com/OblivionBC/AppointmentBot/internal/varsity"
)

// buildNavigators wires one Navigator per config entry, sharing the
// store and type locks. The returned cleanup closes every browser.
func buildNavigators(cfg config.Config, store history.Store, locks *history.TypeLocks,
	notifier navigator.Notifier, logger zerolog.Logger, headless, dryRun bool,
) ([]*navigator.Navigator, func(), error) {
	names := make([]string, 0, len(cfg.Navigators))
	for name := range cfg.Navigators {
		names = append(names, name)
	}
	sort.Strings(names)

	var navs []*navigator.Navigator
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	for _, name := range names {
		nc := cfg.Navigators[name]

		typ, err := booking.ParseAppointmentType(nc.Type)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("navigator %s: %w", name, err)
		}

		proto, err := protocol.New(nc.Policy.Kind, nc.Policy.Window(), store, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("navigator %s: %w", name, err)
		}

		var source navigator.SlotSource
		var committer navigator.Committer
		adapter, err := varsity.New(typ, cfg.SignupUser, headless, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("navigator %s: %w", name, err)
		}
		closers = append(closers, adapter.Close)
		source = adapter
		if dryRun {
			committer = dryCommitter{logger: logger}
		} else {
			committer = adapter
		}

		sites := make([]navigator.Site, 0, len(nc.Sites))
		for _, s := range nc.Sites {
			sites = append(sites, navigator.Site{Name: s.Name, URL: s.URL, Priority: s.Priority})
		}

		location := nc.Location
		if location == "" {
			location = name
		}

		navs = append(navs, &navigator.Navigator{
			Name:      name,
			Type:      typ,
			Location:  location,
			Sites:     sites,
			Prefs:     nc.Slots,
			Source:    source,
			Committer: committer,
			Notifier:  notifier,
			Protocol:  proto,
			Store:     store,
			Locks:     locks,
			Logger:    logger,
		})
	}

	return navs, cleanup, nil
}

// dryCommitter pretends every claim succeeds without touching the site.
// Paired with the in-memory store it shows what a real sweep would book.
type dryCommitter struct {
	logger zerolog.Logger
}

func (d dryCommitter) Attempt(_ context.Context, a booking.Appointment, _ booking.Slot) (bool, error) {
	d.logger.Info().Str("appointment", a.String()).Msg("dry run: would sign up")
	return true, nil
}
