package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of a calendar day.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD date at midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, date, err)
	}
	return t, nil
}

// FormatDate returns the calendar date of t as seen in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// FormatDayLabel renders a date as a short column header, e.g. "Wed, Feb 11".
func FormatDayLabel(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format("Mon, Jan 2"), nil
}
