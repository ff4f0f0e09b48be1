// Package varsity scrapes the varsity booking site with a headless
// browser and performs the UI-level signup. It is the production
// SlotSource and Committer; the core flow never touches the browser.
package varsity

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/OblivionBC/AppointmentBot/internal/booking"
	"github.com/OblivionBC/AppointmentBot/internal/config"
	"github.com/OblivionBC/AppointmentBot/internal/navigator"
)

const (
	slotRowSelector      = ".first-row"
	signupButtonSelector = `button[data-i18n="_SignUp_"]`
	formSelector         = `form, .modal, .signup-form`
	emailFieldSelector   = `input[name="email"], input[type="email"], input[id*="email"]`
	submitSelector       = `button[type="submit"]`
	finishSelector       = `button[data-trackelem="_FinishSignUp_"]`
	confirmedSelector    = `.success, .confirmation, [class*="success"]`
)

// jsFindDateBanner walks the .date-banner elements above the slot row and
// returns the text of the closest one, which names the row's date.
const jsFindDateBanner = `() => {
	const banners = Array.from(document.querySelectorAll('.date-banner'));
	const rect = this.getBoundingClientRect();
	let match = null;
	for (const b of banners) {
		if (b.getBoundingClientRect().top < rect.top) match = b;
	}
	return match ? match.textContent : '';
}`

// jsShowOpenSpots ticks the "Hide Full Spots" checkbox so only bookable
// rows render.
const jsShowOpenSpots = `() => {
	const box = document.querySelector('input[ng-model="$ctrl.hideFullSpotsLocal"]');
	if (box && !box.checked) { box.click(); return true; }
	return false;
}`

// Adapter drives one shared headless browser for a navigator's sites.
type Adapter struct {
	browser *rod.Browser
	typ     booking.AppointmentType
	user    config.SignupUser
	loc     *time.Location
	logger  zerolog.Logger
}

func New(typ booking.AppointmentType, user config.SignupUser, headless bool, logger zerolog.Logger) (*Adapter, error) {
	u, err := launcher.New().Headless(headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return &Adapter{
		browser: browser,
		typ:     typ,
		user:    user,
		loc:     time.Local,
		logger:  logger.With().Str("component", "varsity").Logger(),
	}, nil
}

func (a *Adapter) Close() error {
	return a.browser.Close()
}

// Discover scrapes every slot row on the site. Rows that cannot be
// parsed are skipped, not fatal.
func (a *Adapter) Discover(ctx context.Context, site navigator.Site) ([]booking.Slot, error) {
	page, err := a.openPage(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	rows, err := a.slotRows(page)
	if err != nil {
		return nil, fmt.Errorf("find slots on %s: %w", site.URL, err)
	}

	var out []booking.Slot
	for i, row := range rows {
		slot, ok := a.parseRow(row, site.URL)
		if !ok {
			a.logger.Debug().Str("site", site.Name).Int("row", i).Msg("unparseable slot row")
			continue
		}
		out = append(out, slot)
	}
	a.logger.Info().Str("site", site.Name).Int("rows", len(rows)).Int("slots", len(out)).Msg("scraped site")
	return out, nil
}

// Attempt re-opens the slot's source page, re-locates the row by its
// start time, and walks the signup dialog. A missing or no-longer-open
// row is a refused attempt, not an error.
func (a *Adapter) Attempt(ctx context.Context, appt booking.Appointment, slot booking.Slot) (bool, error) {
	page, err := a.openPage(ctx, slot.SourceID)
	if err != nil {
		return false, err
	}
	defer page.Close()

	rows, err := a.slotRows(page)
	if err != nil {
		return false, fmt.Errorf("find slots for signup: %w", err)
	}

	var target *rod.Element
	for _, row := range rows {
		parsed, ok := a.parseRow(row, slot.SourceID)
		if ok && parsed.Start.Equal(slot.Start) && parsed.Day == slot.Day {
			target = row
			break
		}
	}
	if target == nil {
		a.logger.Warn().Str("appointment", appt.String()).Msg("slot no longer present on page")
		return false, nil
	}

	btn, err := target.Element(signupButtonSelector)
	if err != nil {
		a.logger.Warn().Str("appointment", appt.String()).Msg("slot no longer has a signup button")
		return false, nil
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click signup: %w", err)
	}

	// The form usually renders as a modal; give it a beat.
	if _, err := page.Timeout(5 * time.Second).Element(formSelector); err != nil {
		a.logger.Warn().Msg("signup form did not appear, continuing")
	}

	email, err := page.Timeout(5 * time.Second).Element(emailFieldSelector)
	if err != nil {
		return false, fmt.Errorf("email field not found: %w", err)
	}
	if err := email.Input(a.user.Email); err != nil {
		return false, fmt.Errorf("fill email: %w", err)
	}
	a.fillOptional(page, `input[name="first_name"]`, a.user.FirstName)
	a.fillOptional(page, `input[name="last_name"]`, a.user.LastName)
	a.fillOptional(page, `input[name="phone"]`, a.user.Phone)
	a.fillOptional(page, `input[name="student_number"]`, a.user.StudentNumber)

	for _, sel := range []string{submitSelector, "#confirm_button", finishSelector} {
		if has, el, _ := page.Has(sel); has {
			if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return false, fmt.Errorf("click %s: %w", sel, err)
			}
		}
	}

	if has, _, _ := page.Has(confirmedSelector); !has {
		a.logger.Warn().Str("appointment", appt.String()).Msg("signup submitted but no confirmation element found")
	}
	return true, nil
}

// fillOptional fills a field only when both the field and the value
// exist. The form varies by site; missing fields are fine.
func (a *Adapter) fillOptional(page *rod.Page, selector, value string) {
	if value == "" {
		return
	}
	has, el, err := page.Has(selector)
	if err != nil || !has {
		return
	}
	if err := el.Input(value); err != nil {
		a.logger.Debug().Str("selector", selector).Err(err).Msg("could not fill field")
	}
}

func (a *Adapter) openPage(ctx context.Context, url string) (*rod.Page, error) {
	page, err := a.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	page = page.Context(ctx)
	if err := page.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	return page, nil
}

func (a *Adapter) slotRows(page *rod.Page) (rod.Elements, error) {
	if res, err := page.Eval(jsShowOpenSpots); err == nil && res.Value.Bool() {
		time.Sleep(2 * time.Second) // let the list re-render
	}
	if _, err := page.Timeout(15 * time.Second).Element(slotRowSelector); err != nil {
		return nil, err
	}
	return page.Elements(slotRowSelector)
}

func (a *Adapter) parseRow(row *rod.Element, sourceURL string) (booking.Slot, bool) {
	timeEl, err := row.Element("time")
	if err != nil {
		return booking.Slot{}, false
	}
	timeText, err := timeEl.Text()
	if err != nil {
		return booking.Slot{}, false
	}
	clock, ok := convertTo24Hour(timeText)
	if !ok {
		return booking.Slot{}, false
	}

	res, err := row.Eval(jsFindDateBanner)
	if err != nil {
		return booking.Slot{}, false
	}
	banner := res.Value.Str()

	day, ok := extractDay(banner)
	if !ok {
		return booking.Slot{}, false
	}
	date, ok := extractDate(banner, a.loc)
	if !ok {
		return booking.Slot{}, false
	}
	start, ok := combine(date, clock)
	if !ok {
		return booking.Slot{}, false
	}

	available := false
	if has, _, err := row.Has(signupButtonSelector); err == nil {
		available = has
	}

	return booking.Slot{
		Day:       day,
		Start:     start,
		End:       start.Add(time.Hour),
		Available: available,
		Type:      a.typ,
		SourceID:  sourceURL,
	}, true
}
