package calendar

import (
	"errors"
)

var (
	ErrTooShort      = errors.New("event is shorter than the minimum duration")
	ErrOutOfRange    = errors.New("minutes outside of the day")
	ErrUnknownDay    = errors.New("day not found")
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicateDate = errors.New("day with this date already exists")
	ErrInvalidLabel  = errors.New("label is not valid UTF-8")
)

// MinDuration is the shortest interval any creation path may produce, in minutes.
const MinDuration = 15

type CalendarDay struct {
	ID   string `json:"id"`
	Date string `json:"date"` // YYYY-MM-DD
}

type AvailabilityEvent struct {
	ID           string `json:"id"`
	DayID        string `json:"dayId"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Label        string `json:"label,omitempty"`
}

// Duration in minutes.
func (e AvailabilityEvent) Duration() int {
	return e.EndMinutes - e.StartMinutes
}

// Overlaps reports whether the half-open intervals of e and other intersect.
// Abutting events do not overlap. Events on different days never overlap.
func (e AvailabilityEvent) Overlaps(other AvailabilityEvent) bool {
	if e.DayID != other.DayID {
		return false
	}
	return e.StartMinutes < other.EndMinutes && other.StartMinutes < e.EndMinutes
}
