package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokku/availshare/internal/event_bus"
	"github.com/klokku/availshare/internal/metrics"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/gesture"
	log "github.com/sirupsen/logrus"
)

// SetGeometry records where a day's grid sits on screen. HiddenMinutesAbove is derived from
// the visible hour range and overrides whatever the caller passed.
func (s *Session) SetGeometry(dayID string, g gesture.Geometry) error {
	in, err := s.interpreter(dayID)
	if err != nil {
		return err
	}
	from, _ := s.VisibleRange()
	g.HiddenMinutesAbove = from
	s.geometries[dayID] = g
	in.SetGeometry(g)
	return nil
}

func (s *Session) refreshGeometry() {
	from, _ := s.VisibleRange()
	for dayID, g := range s.geometries {
		g.HiddenMinutesAbove = from
		s.geometries[dayID] = g
		s.interpreters[dayID].SetGeometry(g)
	}
}

func (s *Session) PointerDown(ctx context.Context, dayID string, d gesture.Down) (gesture.Intent, error) {
	if s.viewOnly {
		return gesture.Intent{}, ErrViewOnly
	}
	in, err := s.interpreter(dayID)
	if err != nil {
		return gesture.Intent{}, err
	}
	return s.apply(ctx, in, in.OnPointerDown(d)), nil
}

func (s *Session) PointerMove(ctx context.Context, dayID string, p gesture.Point) (gesture.Intent, error) {
	if s.viewOnly {
		return gesture.Intent{}, ErrViewOnly
	}
	in, err := s.interpreter(dayID)
	if err != nil {
		return gesture.Intent{}, err
	}
	return s.apply(ctx, in, in.OnPointerMove(p)), nil
}

func (s *Session) PointerUp(ctx context.Context, dayID string, p gesture.Point) (gesture.Intent, error) {
	if s.viewOnly {
		return gesture.Intent{}, ErrViewOnly
	}
	in, err := s.interpreter(dayID)
	if err != nil {
		return gesture.Intent{}, err
	}
	active := in.State() != gesture.Idle
	intent := s.apply(ctx, in, in.OnPointerUp(p))
	if active {
		s.finish(in)
	}
	return intent, nil
}

func (s *Session) PointerCancel(ctx context.Context, dayID string, pointerID int) (gesture.Intent, error) {
	if s.viewOnly {
		return gesture.Intent{}, ErrViewOnly
	}
	in, err := s.interpreter(dayID)
	if err != nil {
		return gesture.Intent{}, err
	}
	active := in.State() != gesture.Idle
	intent := s.apply(ctx, in, in.OnPointerCancel(pointerID))
	if active {
		s.finish(in)
	}
	return intent, nil
}

func (s *Session) interpreter(dayID string) (*gesture.Interpreter, error) {
	if in, ok := s.interpreters[dayID]; ok {
		return in, nil
	}
	if _, ok := s.schedule.Day(dayID); !ok {
		return nil, fmt.Errorf("%w: %s", calendar.ErrUnknownDay, dayID)
	}
	in := gesture.NewInterpreter(dayID, s.settings.Gesture, s.capture)
	s.interpreters[dayID] = in
	return in, nil
}

// apply carries out an intent on the schedule and returns it for the host to render.
func (s *Session) apply(ctx context.Context, in *gesture.Interpreter, intent gesture.Intent) gesture.Intent {
	dayID := in.DayID()

	switch intent.Kind {
	case gesture.IntentPreview:
		s.previews[dayID] = Preview{DayID: dayID, Start: intent.Start, End: intent.End}

	case gesture.IntentCreate:
		delete(s.previews, dayID)
		if s.collides(dayID, intent.Start, intent.End) {
			log.Debugf("day %s: drag %d-%d crosses an existing block, discarded", dayID, intent.Start, intent.End)
			return gesture.Intent{}
		}
		event, err := s.schedule.Create(dayID, intent.Start, intent.End)
		if err != nil {
			log.Debugf("day %s: create %d-%d rejected: %v", dayID, intent.Start, intent.End, err)
			return gesture.Intent{}
		}
		day, _ := s.schedule.Day(dayID)
		s.publish(ctx, event_bus.EventCreatedType, event_bus.AvailabilityEventCreated{
			EventID:      event.ID,
			DayID:        dayID,
			Date:         day.Date,
			StartMinutes: event.StartMinutes,
			EndMinutes:   event.EndMinutes,
		})

	case gesture.IntentBeginResize:
		g, err := s.schedule.BeginResize(intent.EventID, intent.Edge)
		if err != nil {
			log.Debugf("day %s: cannot resize %s: %v", dayID, intent.EventID, err)
			return intent
		}
		s.resizes[dayID] = g

	case gesture.IntentResize:
		g, ok := s.resizes[dayID]
		if !ok {
			return intent
		}
		if _, err := g.Apply(g.Origin() + intent.Delta); errors.Is(err, calendar.ErrEventNotFound) {
			delete(s.resizes, dayID)
		}

	case gesture.IntentEndResize:
		g, ok := s.resizes[dayID]
		delete(s.resizes, dayID)
		if !ok {
			return intent
		}
		if event, found := s.schedule.Event(g.EventID()); found {
			s.publish(ctx, event_bus.EventResizedType, event_bus.AvailabilityEventResized{
				EventID:      event.ID,
				Edge:         string(g.Edge()),
				StartMinutes: event.StartMinutes,
				EndMinutes:   event.EndMinutes,
			})
		}
	}
	return intent
}

// collides reports whether [start, end) would overlap a block already on the day. The
// schedule accepts overlapping creates, so drags are checked here.
func (s *Session) collides(dayID string, start, end int) bool {
	candidate := calendar.AvailabilityEvent{DayID: dayID, StartMinutes: start, EndMinutes: end}
	for _, e := range s.schedule.EventsForDay(dayID) {
		if e.Overlaps(candidate) {
			return true
		}
	}
	return false
}

func (s *Session) finish(in *gesture.Interpreter) {
	if in.State() != gesture.Idle {
		return
	}
	delete(s.previews, in.DayID())
	if outcome := in.Outcome(); outcome != gesture.OutcomeNone {
		metrics.ObserveGesture(string(outcome))
	}
}
