package calendar

import (
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// isoLayout is the canonical field value layout.
const isoLayout = "2006-01-02"

// middayHour pins every calendar date away from midnight so day stepping never
// lands on a daylight-saving boundary.
const middayHour = 12

// ParseISO parses one canonical YYYY-MM-DD value into a date pinned at midday UTC.
func ParseISO(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(isoLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return DateOf(parsed), true
}

// FormatISO formats the date part of t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return DateOf(t).Format(isoLayout)
}

// DateOf drops the clock and zone of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, middayHour, 0, 0, 0, time.UTC)
}

// Today returns the calendar day of now in now's own location.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// AddDays moves t by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// AddMonths moves t by n months, clamping the day to the last valid day of
// the target month (Jan 31 + 1 month = Feb 28 or 29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, middayHour, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, middayHour, 0, 0, 0, time.UTC)
}

// AddYears moves t by n years with the same clamp as AddMonths (Feb 29 + 1 year = Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// Year bounds of the four-digit canonical layout.
const (
	MinYear = 0
	MaxYear = 9999
)

// InRange reports whether t formats as a four-digit YYYY-MM-DD value.
func InRange(t time.Time) bool {
	y := t.Year()
	return y >= MinYear && y <= MaxYear
}
