package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical MM-DD-YYYY textual form used at every
// boundary: account documents, calendar entries, notification identifiers,
// and the extraction prompt/response.
const DateLayout = "01-02-2006"

// FormatDate renders a time in the canonical MM-DD-YYYY form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical MM-DD-YYYY string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected MM-DD-YYYY", s)
	}
	return t, nil
}

// Today returns the current date in canonical form.
func Today() string {
	return FormatDate(time.Now())
}

// monthsByName maps month names and their standard abbreviations to a month
// number. "Sept" is accepted alongside "Sep".
var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// MonthByName resolves a month name or abbreviation, case-insensitively.
func MonthByName(name string) (time.Month, bool) {
	m, ok := monthsByName[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ResolveYear attaches a year to a bare month/day mention. The policy is the
// nearest future occurrence relative to now: if the month/day has already
// passed this year, the date rolls into next year. Today resolves to today.
func ResolveYear(month time.Month, day int, now time.Time) time.Time {
	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if candidate.Before(today) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}
