package schedule

import (
	"time"

	"go-hotel-staff/internal/leave"
)

// FilterSchedulesByWeek keeps schedules whose date falls in [start, end]
// compared on calendar dates. Schedules without a date are dropped.
func FilterSchedulesByWeek(schedules []Schedule, start, end time.Time) []Schedule {
	window := leave.WeekRange{Start: start, End: end}

	out := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Date.IsZero() {
			continue
		}
		if !window.ContainsDate(s.Date) {
			continue
		}
		out = append(out, s)
	}
	return out
}
