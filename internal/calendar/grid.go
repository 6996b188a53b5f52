package calendar

import "time"

// Grid dimensions: six weeks of seven days.
const (
	Rows      = 6
	Cols      = 7
	CellCount = Rows * Cols
)

// Tag classifies one grid cell relative to the reference month and the real date.
type Tag int

// TagCurrentMonth and related constants describe cell categories.
const (
	TagCurrentMonth Tag = iota
	TagPastMonth
	TagFutureMonth
	TagToday
)

// String returns the tag name; the current-month tag is untagged.
func (t Tag) String() string {
	switch t {
	case TagPastMonth:
		return "past-month"
	case TagFutureMonth:
		return "future-month"
	case TagToday:
		return "today"
	default:
		return ""
	}
}

// DayCell is one rendered grid entry.
type DayCell struct {
	Day      int
	Date     time.Time
	Tag      Tag
	Selected bool
}

// Grid holds the 6x7 month view in row-major order.
type Grid [Rows][Cols]DayCell

// Cells returns the grid in row-major order.
func (g Grid) Cells() []DayCell {
	out := make([]DayCell, 0, CellCount)
	for _, row := range g {
		out = append(out, row[:]...)
	}
	return out
}

// Find locates the cell holding date.
func (g Grid) Find(date time.Time) (row, col int, ok bool) {
	for r := range g {
		for c := range g[r] {
			if SameDay(g[r][c].Date, date) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// State is the full projection derived from one canonical value.
type State struct {
	Value     string
	Reference time.Time
	HasValue  bool
	Display   string
	Caption   string
	Weekdays  [7]string
	Grid      Grid
}

// Synchronize derives display text, caption, weekday header and grid from a
// canonical value. Empty or unparseable values blank the display and center
// the grid on today.
func Synchronize(value string, now time.Time, ws WeekStart) State {
	today := Today(now)
	ref, ok := ParseISO(value)
	state := State{Value: value, HasValue: ok}
	if ok {
		state.Display = DisplayValue(ref, ws)
	} else {
		ref = today
	}
	state.Reference = ref
	state.Caption = Caption(ref)
	state.Weekdays = WeekdayHeader(ws)
	state.Grid = BuildGrid(ref, today, ws)
	return state
}

// BuildGrid computes the 42 cells shown for the month containing ref.
func BuildGrid(ref, today time.Time, ws WeekStart) Grid {
	var g Grid
	year, month, _ := ref.Date()
	iter := gridStart(ref, ws)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			iter = iter.AddDate(0, 0, 1)
			cell := DayCell{
				Day:      iter.Day(),
				Date:     iter,
				Selected: SameDay(iter, ref),
			}
			switch {
			case SameDay(iter, today):
				cell.Tag = TagToday
			default:
				cell.Tag = monthTag(year, month, iter)
			}
			g[r][c] = cell
		}
	}
	return g
}

// gridStart returns the day before the first rendered cell: day 0 of the
// reference month at midday, stepped back to the week boundary.
func gridStart(ref time.Time, ws WeekStart) time.Time {
	last := time.Date(ref.Year(), ref.Month(), 0, middayHour, 0, 0, 0, time.UTC)
	back := int(last.Weekday())
	if ws == WeekStartSunday {
		back++
	}
	return last.AddDate(0, 0, -back)
}

// monthTag classifies iter by month distance from the reference month. The
// sign flips across a year boundary so December/January adjacency is
// classified by direction rather than raw month number.
func monthTag(year int, month time.Month, iter time.Time) Tag {
	diff := int(month) - int(iter.Month())
	if iter.Year() != year {
		diff = -diff
	}
	switch {
	case diff > 0:
		return TagPastMonth
	case diff < 0:
		return TagFutureMonth
	default:
		return TagCurrentMonth
	}
}
