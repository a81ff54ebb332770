package calendar

import "github.com/klokku/availshare/pkg/timeutil"

// CoreHours is the part of the day shown before the user expands the grid.
type CoreHours struct {
	Start int
	End   int
}

var DefaultCoreHours = CoreHours{Start: 7 * 60, End: 19 * 60}

// VisibleRange returns the [from, to) minutes rendered by the grid.
func (c CoreHours) VisibleRange(expandMorning, expandEvening bool) (int, int) {
	from, to := c.Start, c.End
	if expandMorning {
		from = 0
	}
	if expandEvening {
		to = timeutil.MinutesPerDay
	}
	return from, to
}

// AutoExpand tells which sides must be opened so that every event is visible.
// Both endpoints are checked because projected events may wrap past midnight.
func (c CoreHours) AutoExpand(events []AvailabilityEvent) (morning, evening bool) {
	for _, e := range events {
		if e.StartMinutes < c.Start || e.EndMinutes < c.Start {
			morning = true
		}
		if e.EndMinutes > c.End || e.StartMinutes > c.End {
			evening = true
		}
	}
	return morning, evening
}
