package timeutil

import (
	"fmt"
)

const (
	// SlotMinutes is the grid resolution every interactive edit snaps to.
	SlotMinutes = 15
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// LastMinute is the largest valid minute-of-day.
	LastMinute = MinutesPerDay - 1
)

// FormatMinutes renders a minute-of-day as a 12-hour clock time, e.g. 540 -> "9:00 AM".
// The value is not range checked; callers clamp to [0, LastMinute].
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	displayHours := hours
	switch {
	case hours == 0:
		displayHours = 12
	case hours > 12:
		displayHours = hours - 12
	}

	return fmt.Sprintf("%d:%02d %s", displayHours, mins, period)
}

// FormatRange renders "9:00 AM - 10:30 AM".
func FormatRange(start, end int) string {
	return FormatMinutes(start) + " - " + FormatMinutes(end)
}

// ClampMinutes limits m to [0, LastMinute].
func ClampMinutes(m int) int {
	return max(0, min(LastMinute, m))
}

// Snap rounds m to the nearest multiple of SlotMinutes. Halfway values round up.
func Snap(m int) int {
	if m < 0 {
		return -Snap(-m)
	}
	return (m + SlotMinutes/2) / SlotMinutes * SlotMinutes
}
