package share

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/availshare/pkg/timeutil"
)

const productID = "-//availshare//availability//EN"

// ExportICS renders a shared state as an iCalendar feed. Times are absolute, so the
// recipient's calendar client shows them in its own zone. Orphaned events are skipped.
func ExportICS(state SharedState, now time.Time) (string, error) {
	source, err := timeutil.LoadZone(state.TZ)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source zone: %w", err)
	}

	dates := make(map[string]time.Time, len(state.Days))
	for _, d := range state.Days {
		date, err := timeutil.ParseDate(d.Date)
		if err != nil {
			return "", err
		}
		dates[d.ID] = date
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range state.Events {
		date, ok := dates[e.DayID]
		if !ok {
			continue
		}
		summary := e.Label
		if summary == "" {
			summary = "Available"
		}

		event := cal.AddEvent(e.ID)
		event.SetDtStampTime(now)
		event.SetStartAt(wallClock(date, e.StartMinutes, source))
		event.SetEndAt(wallClock(date, e.EndMinutes, source))
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("%s (%s)", timeutil.FormatRange(e.StartMinutes, e.EndMinutes), state.TZ))
	}

	return cal.Serialize(), nil
}

func wallClock(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
}
