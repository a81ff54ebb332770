package calendar

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

// Schedule is the mutable day/event collection of one editing session.
// Days are kept sorted by date. It is not safe for concurrent use; all mutations happen on
// the goroutine handling input.
type Schedule struct {
	days   []CalendarDay
	events []AvailabilityEvent
	newID  func() string
}

// NewSchedule starts a schedule holding a single day.
func NewSchedule(today string) (*Schedule, error) {
	s := &Schedule{newID: uuid.NewString}
	if _, err := s.AddDay(today); err != nil {
		return nil, err
	}
	return s, nil
}

// FromState builds a schedule from decoded state. Orphaned events are dropped.
func FromState(days []CalendarDay, events []AvailabilityEvent) *Schedule {
	s := &Schedule{
		days:   slices.Clone(days),
		events: make([]AvailabilityEvent, 0, len(events)),
		newID:  uuid.NewString,
	}
	s.sortDays()
	for _, e := range events {
		if _, ok := s.Day(e.DayID); !ok {
			log.Debugf("dropping orphaned event %s (day %s)", e.ID, e.DayID)
			continue
		}
		s.events = append(s.events, e)
	}
	return s
}

func (s *Schedule) Days() []CalendarDay {
	return slices.Clone(s.days)
}

func (s *Schedule) Events() []AvailabilityEvent {
	return slices.Clone(s.events)
}

func (s *Schedule) Day(dayID string) (CalendarDay, bool) {
	i := s.dayIndex(dayID)
	if i < 0 {
		return CalendarDay{}, false
	}
	return s.days[i], true
}

func (s *Schedule) Event(eventID string) (AvailabilityEvent, bool) {
	i := s.eventIndex(eventID)
	if i < 0 {
		return AvailabilityEvent{}, false
	}
	return s.events[i], true
}

// EventsForDay returns the events of one day sorted by start.
func (s *Schedule) EventsForDay(dayID string) []AvailabilityEvent {
	var result []AvailabilityEvent
	for _, e := range s.events {
		if e.DayID == dayID {
			result = append(result, e)
		}
	}
	sortByStart(result)
	return result
}

// Create appends a new event. Intervals shorter than MinDuration are rejected with ErrTooShort
// and leave the schedule untouched. Overlap with existing events is not checked here.
func (s *Schedule) Create(dayID string, start, end int) (AvailabilityEvent, error) {
	if end-start < MinDuration {
		return AvailabilityEvent{}, ErrTooShort
	}
	if start < 0 || end > timeutil.LastMinute {
		return AvailabilityEvent{}, fmt.Errorf("%w: %d-%d", ErrOutOfRange, start, end)
	}
	if s.dayIndex(dayID) < 0 {
		return AvailabilityEvent{}, fmt.Errorf("%w: %s", ErrUnknownDay, dayID)
	}

	event := AvailabilityEvent{
		ID:           s.newID(),
		DayID:        dayID,
		StartMinutes: start,
		EndMinutes:   end,
	}
	s.events = append(s.events, event)
	log.Debugf("created event %s on day %s: %s", event.ID, dayID, timeutil.FormatRange(start, end))
	return event, nil
}

// Delete removes an event. It reports whether the event existed.
func (s *Schedule) Delete(eventID string) bool {
	i := s.eventIndex(eventID)
	if i < 0 {
		return false
	}
	s.events = slices.Delete(s.events, i, i+1)
	return true
}

// UpdateLabel sets a trimmed label. Labels must be valid UTF-8 so they survive encoding.
func (s *Schedule) UpdateLabel(eventID, label string) error {
	i := s.eventIndex(eventID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	if !utf8.ValidString(label) {
		return ErrInvalidLabel
	}
	s.events[i].Label = strings.TrimSpace(label)
	return nil
}

// AddDay inserts a day keeping chronological order.
func (s *Schedule) AddDay(date string) (CalendarDay, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return CalendarDay{}, err
	}
	if s.hasDate(date) {
		return CalendarDay{}, fmt.Errorf("%w: %s", ErrDuplicateDate, date)
	}
	day := CalendarDay{ID: s.newID(), Date: date}
	s.days = append(s.days, day)
	s.sortDays()
	return day, nil
}

// AddDayBefore adds the day preceding the first one.
func (s *Schedule) AddDayBefore() (CalendarDay, error) {
	if len(s.days) == 0 {
		return CalendarDay{}, ErrUnknownDay
	}
	date, err := timeutil.AddDays(s.days[0].Date, -1)
	if err != nil {
		return CalendarDay{}, err
	}
	return s.AddDay(date)
}

// AddDayAfter adds the day following the last one.
func (s *Schedule) AddDayAfter() (CalendarDay, error) {
	if len(s.days) == 0 {
		return CalendarDay{}, ErrUnknownDay
	}
	date, err := timeutil.AddDays(s.days[len(s.days)-1].Date, 1)
	if err != nil {
		return CalendarDay{}, err
	}
	return s.AddDay(date)
}

// CanRemoveDay reports whether removing a day would leave at least one column.
func (s *Schedule) CanRemoveDay() bool {
	return len(s.days) > 1
}

// RemoveDay deletes a day and every event referencing it. It returns the number of events removed.
func (s *Schedule) RemoveDay(dayID string) (int, error) {
	i := s.dayIndex(dayID)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDay, dayID)
	}
	s.days = slices.Delete(s.days, i, i+1)

	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e AvailabilityEvent) bool {
		return e.DayID == dayID
	})
	return before - len(s.events), nil
}

// UpdateDate moves a day to another date; its events follow because they reference the id.
func (s *Schedule) UpdateDate(dayID, date string) error {
	i := s.dayIndex(dayID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDay, dayID)
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return err
	}
	if s.days[i].Date == date {
		return nil
	}
	if s.hasDate(date) {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, date)
	}
	s.days[i].Date = date
	s.sortDays()
	return nil
}

func (s *Schedule) sortDays() {
	slices.SortStableFunc(s.days, func(a, b CalendarDay) int {
		return strings.Compare(a.Date, b.Date)
	})
}

func (s *Schedule) hasDate(date string) bool {
	return slices.ContainsFunc(s.days, func(d CalendarDay) bool { return d.Date == date })
}

func (s *Schedule) dayIndex(dayID string) int {
	return slices.IndexFunc(s.days, func(d CalendarDay) bool { return d.ID == dayID })
}

func (s *Schedule) eventIndex(eventID string) int {
	return slices.IndexFunc(s.events, func(e AvailabilityEvent) bool { return e.ID == eventID })
}

func sortByStart(events []AvailabilityEvent) {
	slices.SortStableFunc(events, func(a, b AvailabilityEvent) int {
		if a.StartMinutes != b.StartMinutes {
			return a.StartMinutes - b.StartMinutes
		}
		return a.EndMinutes - b.EndMinutes
	})
}
