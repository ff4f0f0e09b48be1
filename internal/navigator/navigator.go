// Package navigator drives one full booking run for one logical target:
// discover slots across the target's sites, narrow them to the user's
// preference windows, then greedily claim them one at a time, re-checking
// validity after every claim because each recorded signup can invalidate
// the survivors within the same run.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/protocol"
)

// ErrRecordAfterClaim marks the one fatal inconsistency: the site accepted
// the signup but the ledger write failed afterwards. Logs and notifications
// carry it so the case is never mistaken for a failed claim.
var ErrRecordAfterClaim = errors.New("signup claimed on site but not recorded in ledger")

// Site is one physical page a navigator scrapes. Priority orders claim
// attempts across sites; lower wins, discovery order breaks ties.
type Site struct {
	Name     string
	URL      string
	Priority int
}

// SlotSource discovers candidate slots on one site. Implementations own
// their retry and timeout policy; a failed site simply contributes no
// slots to the run.
type SlotSource interface {
	Discover(ctx context.Context, site Site) ([]booking.Slot, error)
}

// Committer performs the actual claim on the target site. It is called
// at most once per candidate per run.
type Committer interface {
	Attempt(ctx context.Context, a booking.Appointment, s booking.Slot) (bool, error)
}

// Notifier is told about every failed attempt, and about each success
// once the run completes (see orchestrator).
type Notifier interface {
	NotifyFailure(ctx context.Context, navigator, description, reason string) error
	NotifySuccess(ctx context.Context, a booking.Appointment) error
}

// Navigator holds the collaborators and configuration for one target.
type Navigator struct {
	Name     string
	Type     booking.AppointmentType
	Location string
	Sites    []Site
	Prefs    []booking.PreferenceWindow

	Source    SlotSource
	Committer Committer
	Notifier  Notifier
	Protocol  protocol.Protocol
	Store     history.Store
	Locks     *history.TypeLocks

	Logger zerolog.Logger
}

// Run executes one full flow. A run that finds nothing, matches nothing,
// or fails every candidate returns an empty slice and no error. Anything
// unexpected aborts the remainder, is reported, and never panics through
// to the caller; signups recorded earlier in the run stay recorded.
func (n *Navigator) Run(ctx context.Context) (committed []booking.Appointment, err error) {
	runID := uuid.NewString()[:8]
	log := n.Logger.With().Str("navigator", n.Name).Str("run_id", runID).Logger()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run aborted: %v", r)
			log.Error().Interface("panic", r).Msg("navigator run aborted")
			n.notifyFailure(ctx, log, "navigator run", fmt.Sprintf("aborted: %v", r))
		}
	}()

	candidates := n.discover(ctx, log)
	log.Info().Int("candidates", len(candidates)).Msg("discovery complete")
	if len(candidates) == 0 {
		return nil, nil
	}

	remaining := booking.FilterByPreferences(candidates, n.Prefs)
	log.Info().Int("remaining", len(remaining)).Msg("preference filter applied")

	first := true
	for len(remaining) > 0 {
		if ctx.Err() != nil {
			return committed, ctx.Err()
		}

		// Re-applying the preference filter is idempotent; re-validation
		// is not, because every recorded signup changes what the policy
		// allows for the rest of the run.
		remaining = booking.FilterByPreferences(remaining, n.Prefs)
		if len(remaining) == 0 {
			break
		}

		idx := 0
		if !first {
			idx = -1
			for i, c := range remaining {
				if n.Protocol.CheckValidity(ctx, c.Appointment) {
					idx = i
					break
				}
			}
			if idx < 0 {
				log.Info().Int("survivors", len(remaining)).Msg("no survivor passes validity, ending run")
				break
			}
		}
		first = false

		cand := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		if n.commit(ctx, log, cand) {
			committed = append(committed, cand.Appointment)
		}
	}

	log.Info().Int("committed", len(committed)).Msg("run complete")
	return committed, nil
}

// discover pulls slots from every site, keeping only available ones that
// pass the base validity check, paired with their originating slot. A
// site that errors contributes nothing; the run continues.
func (n *Navigator) discover(ctx context.Context, log zerolog.Logger) []booking.Candidate {
	var candidates []booking.Candidate
	for _, site := range n.Sites {
		slots, err := n.Source.Discover(ctx, site)
		if err != nil {
			log.Warn().Err(err).Str("site", site.Name).Msg("discovery failed for site, skipping")
			continue
		}
		log.Debug().Str("site", site.Name).Int("slots", len(slots)).Msg("site discovered")

		for _, s := range slots {
			if !s.Available {
				continue
			}
			appt := booking.FromSlot(s, n.Location)
			if !n.Protocol.CheckValidity(ctx, appt) {
				continue
			}
			candidates = append(candidates, booking.Candidate{
				Appointment: appt,
				Slot:        s,
				Priority:    site.Priority,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	return candidates
}

// commit runs the check -> claim -> record sequence for one candidate
// under the type lock, so no other run of the same type can interleave
// its own check between our check and our record.
func (n *Navigator) commit(ctx context.Context, log zerolog.Logger, cand booking.Candidate) bool {
	unlock := n.Locks.Acquire(n.Type)
	defer unlock()

	if !n.Protocol.CheckValidity(ctx, cand.Appointment) {
		log.Info().Str("appointment", cand.Appointment.String()).
			Msg("candidate no longer valid under lock, skipping")
		return false
	}

	ok, err := n.Committer.Attempt(ctx, cand.Appointment, cand.Slot)
	if err != nil {
		log.Warn().Err(err).Str("appointment", cand.Appointment.String()).Msg("signup attempt errored")
		n.notifyFailure(ctx, log, cand.Appointment.String(), err.Error())
		return false
	}
	if !ok {
		log.Warn().Str("appointment", cand.Appointment.String()).Msg("signup attempt refused")
		n.notifyFailure(ctx, log, cand.Appointment.String(), "signup attempt returned false")
		return false
	}

	rec := booking.SignupRecord{
		SourceID:   cand.Slot.SourceID,
		Start:      cand.Appointment.Start,
		End:        cand.Appointment.End,
		Type:       cand.Appointment.Type,
		RecordedAt: time.Now().UTC(),
	}
	if rerr := n.Store.Record(ctx, rec); rerr != nil {
		// The claim already happened on the site. This is not a failed
		// commitment; it is a ledger inconsistency and must read as one.
		werr := fmt.Errorf("%w: %v", ErrRecordAfterClaim, rerr)
		log.Error().Err(werr).Str("appointment", cand.Appointment.String()).
			Msg("LEDGER INCONSISTENT: claim succeeded but record failed")
		n.notifyFailure(ctx, log, cand.Appointment.String(), werr.Error())
	}

	log.Info().Str("appointment", cand.Appointment.String()).Msg("signed up")
	return true
}

func (n *Navigator) notifyFailure(ctx context.Context, log zerolog.Logger, description, reason string) {
	if n.Notifier == nil {
		return
	}
	if err := n.Notifier.NotifyFailure(ctx, n.Name, description, reason); err != nil {
		log.Warn().Err(err).Msg("failure notification could not be sent")
	}
}
