package leave

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateOnly drops time of day and zone, keeping the calendar date as seen in
// t's own location. Leave dates are compared on this value.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CalculateLeaveDays counts Monday to Friday days in the inclusive range
// [start, end]. It returns 0 when end is before start.
func CalculateLeaveDays(start, end time.Time) int {
	from, to := DateOnly(start), DateOnly(end)

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			days++
		}
	}
	return days
}

// WeekRange is a Sunday..Saturday display window.
type WeekRange struct {
	Start time.Time
	End   time.Time
	Label string
}

func (w WeekRange) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ContainsDate compares on calendar dates, for date-only records.
func (w WeekRange) ContainsDate(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(w.Start)) && !d.After(DateOnly(w.End))
}

// WeekDateRange returns the window offset weeks from the week containing now.
// Start is Sunday 00:00:00.000 and End is Saturday 23:59:59.999, both in now's
// location.
func WeekDateRange(now time.Time, offset int) WeekRange {
	y, m, d := now.Date()
	sunday := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	start := sunday.AddDate(0, 0, offset*7)
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)

	return WeekRange{Start: start, End: end, Label: weekLabel(offset)}
}

func weekLabel(offset int) string {
	switch {
	case offset == 0:
		return "This Week"
	case offset == 1:
		return "Next Week"
	case offset == -1:
		return "Last Week"
	case offset > 1:
		return fmt.Sprintf("%d Weeks Ahead", offset)
	default:
		return fmt.Sprintf("%d Weeks Ago", -offset)
	}
}
