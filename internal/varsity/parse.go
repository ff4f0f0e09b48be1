package varsity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)
	dateRe  = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})`)
)

var dayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var longMonths = map[string]string{
	"Jan": "January", "Feb": "February", "Mar": "March", "Apr": "April",
	"Jun": "June", "Jul": "July", "Aug": "August", "Sep": "September",
	"Oct": "October", "Nov": "November", "Dec": "December",
}

// convertTo24Hour turns a scraped "2:30 PM" style string into "14:30".
func convertTo24Hour(text string) (string, bool) {
	m := clockRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(text)))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 12 || minute > 59 {
		return "", false
	}
	switch {
	case m[3] == "PM" && hour != 12:
		hour += 12
	case m[3] == "AM" && hour == 12:
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// extractDay pulls the first weekday label out of a date banner like
// "Mon, January 5, 2026".
func extractDay(text string) (string, bool) {
	for _, d := range dayLabels {
		if strings.Contains(text, d) {
			return d, true
		}
	}
	return "", false
}

// extractDate pulls the calendar date out of a banner, accepting both
// long and abbreviated month names.
func extractDate(text string, loc *time.Location) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month := m[1]
	if long, ok := longMonths[month]; ok {
		month = long
	}
	t, err := time.ParseInLocation("January 2, 2006", fmt.Sprintf("%s %s, %s", month, m[2], m[3]), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// combine builds the slot start from a banner date and a 24h clock.
func combine(date time.Time, clock string) (time.Time, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), true
}
