package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekStart selects the first column of the weekday header and grid.
type WeekStart int

// WeekStartMonday and WeekStartSunday are the supported week layouts.
const (
	WeekStartMonday WeekStart = iota
	WeekStartSunday
)

// String returns the config spelling of the week start.
func (w WeekStart) String() string {
	if w == WeekStartSunday {
		return "sunday"
	}
	return "monday"
}

// ParseWeekStart parses a config week start value.
func ParseWeekStart(raw string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "monday", "mon":
		return WeekStartMonday, nil
	case "sunday", "sun":
		return WeekStartSunday, nil
	default:
		return WeekStartMonday, fmt.Errorf("%w: %q", ErrInvalidWeekStart, raw)
	}
}

// HourFormat controls how timestamps outside the picker are rendered.
type HourFormat string

// HourFormat24 and HourFormat12 are the supported clock layouts.
const (
	HourFormat24 HourFormat = "24h"
	HourFormat12 HourFormat = "12h"
)

// ParseHourFormat parses a config hour format value.
func ParseHourFormat(raw string) (HourFormat, error) {
	switch HourFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case HourFormat24:
		return HourFormat24, nil
	case HourFormat12:
		return HourFormat12, nil
	default:
		return HourFormat24, fmt.Errorf("%w: %q", ErrInvalidHourFormat, raw)
	}
}

// Locale carries the explicit locale options for one picker.
type Locale struct {
	WeekStart  WeekStart
	HourFormat HourFormat
}

// DefaultLocale returns the Monday-first, 24h locale.
func DefaultLocale() Locale {
	return Locale{WeekStart: WeekStartMonday, HourFormat: HourFormat24}
}

// FormatTimestamp renders a submission-style timestamp using the hour format.
func (l Locale) FormatTimestamp(t time.Time) string {
	if l.HourFormat == HourFormat12 {
		return DisplayValue(t, l.WeekStart) + " " + t.Format("3:04 PM")
	}
	return DisplayValue(t, l.WeekStart) + " " + t.Format("15:04")
}

// weekdayLabels is ordered Monday first.
var weekdayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// monthCaptions is indexed by month number 0-11; {0} receives the year.
var monthCaptions = [12]string{
	"January {0}",
	"February {0}",
	"March {0}",
	"April {0}",
	"May {0}",
	"June {0}",
	"July {0}",
	"August {0}",
	"September {0}",
	"October {0}",
	"November {0}",
	"December {0}",
}

// Caption returns "<Month> <Year>" for the month containing t.
func Caption(t time.Time) string {
	return strings.Replace(monthCaptions[int(t.Month())-1], "{0}", strconv.Itoa(t.Year()), 1)
}

// MonthName returns the caption table entry for m without the year slot.
func MonthName(m time.Month) string {
	return strings.TrimSpace(strings.Replace(monthCaptions[int(m)-1], "{0}", "", 1))
}

// WeekdayHeader returns the seven weekday labels ordered for ws.
func WeekdayHeader(ws WeekStart) [7]string {
	var out [7]string
	for i := range out {
		idx := i
		if ws == WeekStartSunday {
			idx = (i + 6) % 7
		}
		out[i] = weekdayLabels[idx]
	}
	return out
}

// DisplayValue renders the long date text shown in place of the raw value.
// It never includes a time of day.
func DisplayValue(t time.Time, ws WeekStart) string {
	y, m, d := t.Date()
	if ws == WeekStartSunday {
		return fmt.Sprintf("%s %d, %d", MonthName(m), d, y)
	}
	return fmt.Sprintf("%d %s %d", d, MonthName(m), y)
}
