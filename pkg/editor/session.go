package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokku/availshare/internal/event_bus"
	"github.com/klokku/availshare/internal/utils"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/gesture"
	"github.com/klokku/availshare/pkg/share"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

var (
	ErrViewOnly = errors.New("calendar is view-only")
	ErrLastDay  = errors.New("cannot remove the only day")
)

type Settings struct {
	Gesture gesture.Config
	Core    calendar.CoreHours
}

var DefaultSettings = Settings{Gesture: gesture.DefaultConfig, Core: calendar.DefaultCoreHours}

// Session is one open calendar: either the user's own editable draft or a shared calendar
// opened from a link, which is read-only and shown in the viewer's zone.
type Session struct {
	settings Settings
	clock    utils.Clock
	bus      event_bus.Publisher
	capture  gesture.Capture

	schedule   *calendar.Schedule
	zone       string
	sourceZone string
	viewOnly   bool

	expandMorning bool
	expandEvening bool

	interpreters map[string]*gesture.Interpreter
	geometries   map[string]gesture.Geometry
	resizes      map[string]*calendar.ResizeGesture
	previews     map[string]Preview
}

// Preview is the candidate block drawn while a drag is in progress.
type Preview struct {
	DayID string
	Start int
	End   int
}

// Open starts a session from the URL fragment. A fragment carrying a valid shared state
// opens it read-only, projected to localZone with the hour range expanded to fit. Anything
// else opens an empty editable calendar for today.
func Open(fragment, localZone string, clock utils.Clock, bus event_bus.Publisher, capture gesture.Capture, settings Settings) *Session {
	if _, err := timeutil.LoadZone(localZone); err != nil {
		log.Warnf("unknown local zone %q, falling back to UTC: %v", localZone, err)
		localZone = "UTC"
	}
	if bus == nil {
		bus = event_bus.Discard
	}

	s := &Session{
		settings:     settings,
		clock:        clock,
		bus:          bus,
		capture:      capture,
		zone:         localZone,
		interpreters: make(map[string]*gesture.Interpreter),
		geometries:   make(map[string]gesture.Geometry),
		resizes:      make(map[string]*calendar.ResizeGesture),
		previews:     make(map[string]Preview),
	}

	if fragment != "" {
		err := s.openShared(fragment)
		if err == nil {
			return s
		}
		log.Warnf("cannot open shared calendar, starting a new one: %v", err)
	}

	loc, _ := timeutil.LoadZone(localZone)
	schedule, err := calendar.NewSchedule(utils.Today(clock, loc))
	if err != nil {
		// unreachable: Today always yields a valid date
		panic(err)
	}
	s.schedule = schedule
	s.sourceZone = localZone
	return s
}

func (s *Session) openShared(fragment string) error {
	state, ok := share.Decode(fragment)
	if !ok {
		return share.ErrInvalidToken
	}
	loc, err := timeutil.LoadZone(s.zone)
	if err != nil {
		return err
	}
	events, err := share.ProjectToZone(*state, loc)
	if err != nil {
		return fmt.Errorf("failed to project shared calendar: %w", err)
	}

	s.schedule = calendar.FromState(state.Days, events)
	s.sourceZone = state.TZ
	s.viewOnly = true
	s.expandMorning, s.expandEvening = s.settings.Core.AutoExpand(s.schedule.Events())
	log.Debugf("opened shared calendar from %s in %s: %d days, %d events",
		state.TZ, s.zone, len(state.Days), len(events))
	return nil
}

func (s *Session) ViewOnly() bool { return s.viewOnly }

// Zone is the zone the calendar is displayed in.
func (s *Session) Zone() string { return s.zone }

// SourceZone is the zone the calendar was authored in. It equals Zone for an own calendar.
func (s *Session) SourceZone() string { return s.sourceZone }

func (s *Session) Days() []calendar.CalendarDay { return s.schedule.Days() }

func (s *Session) Events(dayID string) []calendar.AvailabilityEvent {
	return s.schedule.EventsForDay(dayID)
}

func (s *Session) Preview(dayID string) (Preview, bool) {
	p, ok := s.previews[dayID]
	return p, ok
}

func (s *Session) VisibleRange() (int, int) {
	return s.settings.Core.VisibleRange(s.expandMorning, s.expandEvening)
}

// ZoneDisplay renders the display zone as "UTC-5 (Eastern Time)".
func (s *Session) ZoneDisplay() string {
	display, err := timeutil.FormatZoneDisplay(s.zone, s.clock.Now())
	if err != nil {
		return s.zone
	}
	return display
}

// SetZone changes the zone an own calendar is authored in. Stored minutes are not converted.
func (s *Session) SetZone(zone string) error {
	if s.viewOnly {
		return ErrViewOnly
	}
	if _, err := timeutil.LoadZone(zone); err != nil {
		return err
	}
	s.zone = zone
	s.sourceZone = zone
	return nil
}

func (s *Session) ToggleMorning() error {
	if s.viewOnly {
		return ErrViewOnly
	}
	s.expandMorning = !s.expandMorning
	s.refreshGeometry()
	return nil
}

func (s *Session) ToggleEvening() error {
	if s.viewOnly {
		return ErrViewOnly
	}
	s.expandEvening = !s.expandEvening
	return nil
}

func (s *Session) Delete(ctx context.Context, eventID string) error {
	if s.viewOnly {
		return ErrViewOnly
	}
	if s.schedule.Delete(eventID) {
		s.publish(ctx, event_bus.EventDeletedType, event_bus.AvailabilityEventDeleted{EventID: eventID})
	}
	return nil
}

func (s *Session) UpdateLabel(eventID, label string) error {
	if s.viewOnly {
		return ErrViewOnly
	}
	return s.schedule.UpdateLabel(eventID, label)
}

func (s *Session) AddDayBefore() (calendar.CalendarDay, error) {
	if s.viewOnly {
		return calendar.CalendarDay{}, ErrViewOnly
	}
	return s.schedule.AddDayBefore()
}

func (s *Session) AddDayAfter() (calendar.CalendarDay, error) {
	if s.viewOnly {
		return calendar.CalendarDay{}, ErrViewOnly
	}
	return s.schedule.AddDayAfter()
}

func (s *Session) UpdateDate(dayID, date string) error {
	if s.viewOnly {
		return ErrViewOnly
	}
	return s.schedule.UpdateDate(dayID, date)
}

// Resize moves one edge of an event outside of a pointer gesture, e.g. from the keyboard.
// The edge is snapped and clamped against the current neighbours.
func (s *Session) Resize(ctx context.Context, eventID string, edge calendar.Edge, proposed int) (calendar.AvailabilityEvent, error) {
	if s.viewOnly {
		return calendar.AvailabilityEvent{}, ErrViewOnly
	}
	event, err := s.schedule.Resize(eventID, edge, proposed)
	if err != nil {
		return calendar.AvailabilityEvent{}, err
	}
	s.publish(ctx, event_bus.EventResizedType, event_bus.AvailabilityEventResized{
		EventID:      event.ID,
		Edge:         string(edge),
		StartMinutes: event.StartMinutes,
		EndMinutes:   event.EndMinutes,
	})
	return event, nil
}

// RemoveDay deletes a day together with its events. The last remaining day cannot be removed.
func (s *Session) RemoveDay(ctx context.Context, dayID string) error {
	if s.viewOnly {
		return ErrViewOnly
	}
	if !s.schedule.CanRemoveDay() {
		return ErrLastDay
	}
	day, ok := s.schedule.Day(dayID)
	if !ok {
		return fmt.Errorf("%w: %s", calendar.ErrUnknownDay, dayID)
	}
	removed, err := s.schedule.RemoveDay(dayID)
	if err != nil {
		return err
	}

	if in, ok := s.interpreters[dayID]; ok {
		in.Abort()
	}
	delete(s.interpreters, dayID)
	delete(s.geometries, dayID)
	delete(s.resizes, dayID)
	delete(s.previews, dayID)
	s.publish(ctx, event_bus.DayRemovedType, event_bus.DayRemoved{DayID: dayID, Date: day.Date, RemovedEvents: removed})
	return nil
}

// ShareURL encodes the calendar into a link. Only own calendars can be shared.
func (s *Session) ShareURL(ctx context.Context, origin, path string) (string, error) {
	if s.viewOnly {
		return "", ErrViewOnly
	}
	url, err := share.BuildShareURL(origin, path, s.schedule.Days(), s.schedule.Events(), s.zone)
	if err != nil {
		return "", fmt.Errorf("failed to build share url: %w", err)
	}
	s.publish(ctx, event_bus.SharedType, event_bus.AvailabilityShared{
		Zone:   s.zone,
		Days:   len(s.schedule.Days()),
		Events: len(s.schedule.Events()),
		URL:    url,
	})
	return url, nil
}

func (s *Session) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if err := s.bus.Publish(ctx, eventType, data); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
