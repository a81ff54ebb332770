package calendar

import (
	"fmt"

	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// ResizeGesture moves one edge of an event between bounds computed when the gesture began.
// The neighbouring events used for clamping are fixed for the lifetime of the gesture.
type ResizeGesture struct {
	schedule *Schedule
	eventID  string
	edge     Edge
	origin   int
	lower    int
	upper    int
}

// BeginResize snapshots the neighbours of eventID and returns a gesture to drive its edge.
func (s *Schedule) BeginResize(eventID string, edge Edge) (*ResizeGesture, error) {
	event, ok := s.Event(eventID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	siblings := s.EventsForDay(event.DayID)
	idx := -1
	for i, e := range siblings {
		if e.ID == eventID {
			idx = i
			break
		}
	}

	g := &ResizeGesture{schedule: s, eventID: eventID, edge: edge}
	switch edge {
	case EdgeStart:
		g.origin = event.StartMinutes
		g.lower = 0
		if idx > 0 {
			g.lower = max(g.lower, siblings[idx-1].EndMinutes)
		}
		g.upper = event.EndMinutes - MinDuration
	case EdgeEnd:
		g.origin = event.EndMinutes
		g.lower = event.StartMinutes + MinDuration
		g.upper = timeutil.LastMinute
		if idx >= 0 && idx < len(siblings)-1 {
			g.upper = min(g.upper, siblings[idx+1].StartMinutes)
		}
	default:
		return nil, fmt.Errorf("unknown edge %q", edge)
	}

	log.Debugf("resize %s edge of %s: bounds [%d, %d]", edge, eventID, g.lower, g.upper)
	return g, nil
}

func (g *ResizeGesture) EventID() string { return g.eventID }
func (g *ResizeGesture) Edge() Edge      { return g.edge }

// Origin is the edge value when the gesture began.
func (g *ResizeGesture) Origin() int { return g.origin }

// Clamp snaps proposed to the grid and limits it to the gesture bounds. When the
// neighbours leave no valid room the edge keeps its original value.
func (g *ResizeGesture) Clamp(proposed int) int {
	if g.lower > g.upper {
		return g.origin
	}
	return max(g.lower, min(g.upper, timeutil.Snap(proposed)))
}

// Apply moves the edge to the clamped value of proposed and returns the updated event.
func (g *ResizeGesture) Apply(proposed int) (AvailabilityEvent, error) {
	i := g.schedule.eventIndex(g.eventID)
	if i < 0 {
		return AvailabilityEvent{}, fmt.Errorf("%w: %s", ErrEventNotFound, g.eventID)
	}
	value := g.Clamp(proposed)
	if g.edge == EdgeStart {
		g.schedule.events[i].StartMinutes = value
	} else {
		g.schedule.events[i].EndMinutes = value
	}
	return g.schedule.events[i], nil
}

// Resize is a single-step resize: the neighbours are taken from the current state.
func (s *Schedule) Resize(eventID string, edge Edge, proposed int) (AvailabilityEvent, error) {
	g, err := s.BeginResize(eventID, edge)
	if err != nil {
		return AvailabilityEvent{}, err
	}
	return g.Apply(proposed)
}
