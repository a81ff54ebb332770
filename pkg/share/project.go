package share

import (
	"fmt"
	"time"

	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

// Projection is an event re-expressed in the viewer's zone. StartShift and EndShift tell how
// many days the true local date of each endpoint lies away from the event's day; the event
// stays under its original day regardless.
type Projection struct {
	Event      calendar.AvailabilityEvent
	StartShift int
	EndShift   int
}

// Shifted reports whether either endpoint belongs to another local date.
func (p Projection) Shifted() bool {
	return p.StartShift != 0 || p.EndShift != 0
}

// ProjectToZone converts every event of state from state.TZ to target.
// Events whose day is missing pass through unchanged.
func ProjectToZone(state SharedState, target *time.Location) ([]calendar.AvailabilityEvent, error) {
	projections, err := Project(state, target)
	if err != nil {
		return nil, err
	}
	events := make([]calendar.AvailabilityEvent, 0, len(projections))
	for _, p := range projections {
		events = append(events, p.Event)
	}
	return events, nil
}

// Project is ProjectToZone keeping the per-endpoint day shifts.
func Project(state SharedState, target *time.Location) ([]Projection, error) {
	source, err := timeutil.LoadZone(state.TZ)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source zone: %w", err)
	}

	dates := make(map[string]string, len(state.Days))
	for _, d := range state.Days {
		dates[d.ID] = d.Date
	}

	projections := make([]Projection, 0, len(state.Events))
	for _, e := range state.Events {
		date, ok := dates[e.DayID]
		if !ok {
			projections = append(projections, Projection{Event: e})
			continue
		}

		start, startShift, err := timeutil.ProjectMinutesWithShift(date, e.StartMinutes, source, target)
		if err != nil {
			return nil, fmt.Errorf("failed to project event %s: %w", e.ID, err)
		}
		end, endShift, err := timeutil.ProjectMinutesWithShift(date, e.EndMinutes, source, target)
		if err != nil {
			return nil, fmt.Errorf("failed to project event %s: %w", e.ID, err)
		}

		p := Projection{Event: e, StartShift: startShift, EndShift: endShift}
		p.Event.StartMinutes = start
		p.Event.EndMinutes = end
		if p.Shifted() {
			log.Warnf("event %s on %s crosses a date boundary in %s (shift %+d/%+d); kept under its original day",
				e.ID, date, target, startShift, endShift)
		}
		projections = append(projections, p)
	}
	return projections, nil
}
