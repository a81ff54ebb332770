package editor

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/availshare/internal/event_bus"
	"github.com/klokku/availshare/internal/utils"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/gesture"
	"github.com/klokku/availshare/pkg/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 11, 15, 0, 0, 0, time.UTC)

type recorder struct {
	events []event_bus.Event
}

func setupBus(clock utils.Clock) (*event_bus.EventBus, *recorder) {
	bus := event_bus.NewEventBus(clock)
	rec := &recorder{}
	for _, t := range []event_bus.EventType{
		event_bus.EventCreatedType,
		event_bus.EventResizedType,
		event_bus.EventDeletedType,
		event_bus.DayRemovedType,
		event_bus.SharedType,
	} {
		bus.Subscribe(t, func(e event_bus.Event) error {
			rec.events = append(rec.events, e)
			return nil
		})
	}
	return bus, rec
}

func (r *recorder) ofType(t event_bus.EventType) []event_bus.Event {
	var out []event_bus.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// setupSession opens an editable calendar in New York with the first day's grid top at y=100,
// one pixel per minute and the default core hours (7 AM at the top).
func setupSession(t *testing.T) (*Session, string, *recorder) {
	t.Helper()
	clock := utils.NewMockClock(testNow)
	bus, rec := setupBus(clock)
	s := Open("", "America/New_York", clock, bus, gesture.NoCapture{}, DefaultSettings)
	require.False(t, s.ViewOnly())
	require.Len(t, s.Days(), 1)
	dayID := s.Days()[0].ID
	require.NoError(t, s.SetGeometry(dayID, gesture.Geometry{GridTop: 100, PixelsPerMinute: 1}))
	return s, dayID, rec
}

func drag(t *testing.T, s *Session, dayID string, pointerID int, fromY, toY float64) {
	t.Helper()
	ctx := context.Background()
	_, err := s.PointerDown(ctx, dayID, gesture.Down{Point: gesture.Point{PointerID: pointerID, X: 50, Y: fromY}})
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, dayID, gesture.Point{PointerID: pointerID, X: 50, Y: toY})
	require.NoError(t, err)
	_, err = s.PointerUp(ctx, dayID, gesture.Point{PointerID: pointerID, X: 50, Y: toY})
	require.NoError(t, err)
}

func TestOpen_EmptyFragmentStartsTodayInLocalZone(t *testing.T) {
	clock := utils.NewMockClock(time.Date(2026, 2, 11, 23, 30, 0, 0, time.UTC))

	s := Open("", "Europe/Berlin", clock, nil, nil, DefaultSettings)

	assert.False(t, s.ViewOnly())
	assert.Equal(t, "Europe/Berlin", s.Zone())
	require.Len(t, s.Days(), 1)
	assert.Equal(t, "2026-02-12", s.Days()[0].Date)
	from, to := s.VisibleRange()
	assert.Equal(t, 420, from)
	assert.Equal(t, 1140, to)
}

func TestOpen_InvalidFragmentFallsBackToEditable(t *testing.T) {
	s := Open("#definitely-not-a-token", "America/New_York", utils.NewMockClock(testNow), nil, nil, DefaultSettings)

	assert.False(t, s.ViewOnly())
	assert.Len(t, s.Days(), 1)
}

func TestOpen_UnknownLocalZoneUsesUTC(t *testing.T) {
	s := Open("", "Not/AZone", utils.NewMockClock(testNow), nil, nil, DefaultSettings)

	assert.Equal(t, "UTC", s.Zone())
}

func TestOpen_SharedCalendarIsProjectedAndReadOnly(t *testing.T) {
	token, err := share.Encode(
		[]calendar.CalendarDay{{ID: "d1", Date: "2026-02-11"}},
		[]calendar.AvailabilityEvent{
			{ID: "e1", DayID: "d1", StartMinutes: 540, EndMinutes: 600},
			{ID: "e2", DayID: "gone", StartMinutes: 700, EndMinutes: 760},
		},
		"America/New_York",
	)
	require.NoError(t, err)

	s := Open("#"+token, "America/Los_Angeles", utils.NewMockClock(testNow), nil, nil, DefaultSettings)

	require.True(t, s.ViewOnly())
	assert.Equal(t, "America/New_York", s.SourceZone())
	assert.Equal(t, "America/Los_Angeles", s.Zone())
	assert.Equal(t, "UTC-8 (Pacific Time)", s.ZoneDisplay())
	events := s.Events("d1")
	require.Len(t, events, 1)
	assert.Equal(t, 360, events[0].StartMinutes)
	assert.Equal(t, 420, events[0].EndMinutes)

	from, to := s.VisibleRange()
	assert.Equal(t, 0, from, "6 AM block must open the morning")
	assert.Equal(t, 1140, to)
}

func TestViewOnly_RejectsMutations(t *testing.T) {
	token, err := share.Encode(
		[]calendar.CalendarDay{{ID: "d1", Date: "2026-02-11"}, {ID: "d2", Date: "2026-02-12"}},
		[]calendar.AvailabilityEvent{{ID: "e1", DayID: "d1", StartMinutes: 540, EndMinutes: 600}},
		"UTC",
	)
	require.NoError(t, err)
	s := Open(token, "UTC", utils.NewMockClock(testNow), nil, nil, DefaultSettings)
	require.True(t, s.ViewOnly())
	ctx := context.Background()

	_, err = s.PointerDown(ctx, "d1", gesture.Down{Point: gesture.Point{PointerID: 1, Y: 200}})
	assert.ErrorIs(t, err, ErrViewOnly)
	_, err = s.PointerMove(ctx, "d1", gesture.Point{PointerID: 1, Y: 260})
	assert.ErrorIs(t, err, ErrViewOnly)
	_, err = s.PointerUp(ctx, "d1", gesture.Point{PointerID: 1, Y: 260})
	assert.ErrorIs(t, err, ErrViewOnly)
	assert.ErrorIs(t, s.Delete(ctx, "e1"), ErrViewOnly)
	_, err = s.Resize(ctx, "e1", calendar.EdgeEnd, 700)
	assert.ErrorIs(t, err, ErrViewOnly)
	assert.ErrorIs(t, s.UpdateLabel("e1", "x"), ErrViewOnly)
	assert.ErrorIs(t, s.RemoveDay(ctx, "d2"), ErrViewOnly)
	assert.ErrorIs(t, s.UpdateDate("d1", "2026-03-01"), ErrViewOnly)
	assert.ErrorIs(t, s.SetZone("Europe/Paris"), ErrViewOnly)
	assert.ErrorIs(t, s.ToggleMorning(), ErrViewOnly)
	assert.ErrorIs(t, s.ToggleEvening(), ErrViewOnly)
	_, err = s.AddDayAfter()
	assert.ErrorIs(t, err, ErrViewOnly)
	_, err = s.AddDayBefore()
	assert.ErrorIs(t, err, ErrViewOnly)
	_, err = s.ShareURL(ctx, "https://example.com", "/")
	assert.ErrorIs(t, err, ErrViewOnly)

	assert.Len(t, s.Events("d1"), 1)
	assert.Len(t, s.Days(), 2)
}

func TestDelete(t *testing.T) {
	s, dayID, rec := setupSession(t)
	drag(t, s, dayID, 1, 220, 280)
	event := s.Events(dayID)[0]

	require.NoError(t, s.Delete(context.Background(), event.ID))
	require.NoError(t, s.Delete(context.Background(), event.ID))

	assert.Empty(t, s.Events(dayID))
	assert.Len(t, rec.ofType(event_bus.EventDeletedType), 1)
}

func TestUpdateLabel(t *testing.T) {
	s, dayID, _ := setupSession(t)
	drag(t, s, dayID, 1, 220, 280)
	event := s.Events(dayID)[0]

	require.NoError(t, s.UpdateLabel(event.ID, "  Coffee  "))

	assert.Equal(t, "Coffee", s.Events(dayID)[0].Label)
}

func TestRemoveDay(t *testing.T) {
	s, dayID, rec := setupSession(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.RemoveDay(ctx, dayID), ErrLastDay)

	next, err := s.AddDayAfter()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-12", next.Date)
	drag(t, s, dayID, 1, 220, 280)

	require.NoError(t, s.RemoveDay(ctx, dayID))

	require.Len(t, s.Days(), 1)
	assert.Equal(t, next.ID, s.Days()[0].ID)
	removed := rec.ofType(event_bus.DayRemovedType)
	require.Len(t, removed, 1)
	assert.Equal(t, event_bus.DayRemoved{DayID: dayID, Date: "2026-02-11", RemovedEvents: 1}, removed[0].Data)

	_, err = s.PointerDown(ctx, dayID, gesture.Down{Point: gesture.Point{PointerID: 1, Y: 200}})
	assert.ErrorIs(t, err, calendar.ErrUnknownDay)
}

type heldCapture map[int]bool

func (c heldCapture) Acquire(id int) { c[id] = true }
func (c heldCapture) Release(id int) { delete(c, id) }

func TestRemoveDay_EndsGestureInProgress(t *testing.T) {
	clock := utils.NewMockClock(testNow)
	bus, rec := setupBus(clock)
	capture := heldCapture{}
	s := Open("", "America/New_York", clock, bus, capture, DefaultSettings)
	first := s.Days()[0].ID
	_, err := s.AddDayAfter()
	require.NoError(t, err)
	require.NoError(t, s.SetGeometry(first, gesture.Geometry{GridTop: 100, PixelsPerMinute: 1}))
	ctx := context.Background()

	_, err = s.PointerDown(ctx, first, gesture.Down{Point: gesture.Point{PointerID: 7, X: 50, Y: 220}})
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, first, gesture.Point{PointerID: 7, X: 50, Y: 320})
	require.NoError(t, err)
	require.True(t, capture[7])

	require.NoError(t, s.RemoveDay(ctx, first))

	assert.Empty(t, capture)
	_, ok := s.Preview(first)
	assert.False(t, ok)

	_, err = s.PointerUp(ctx, first, gesture.Point{PointerID: 7, X: 50, Y: 320})
	assert.ErrorIs(t, err, calendar.ErrUnknownDay)
	assert.Empty(t, rec.ofType(event_bus.EventCreatedType))
	for _, d := range s.Days() {
		assert.Empty(t, s.Events(d.ID))
	}
}

func TestResize(t *testing.T) {
	s, dayID, rec := setupSession(t)
	drag(t, s, dayID, 1, 220, 280)
	drag(t, s, dayID, 2, 340, 400)
	first := s.Events(dayID)[0]
	ctx := context.Background()

	event, err := s.Resize(ctx, first.ID, calendar.EdgeEnd, 700)

	require.NoError(t, err)
	assert.Equal(t, 660, event.EndMinutes)
	resized := rec.ofType(event_bus.EventResizedType)
	require.Len(t, resized, 1)
	assert.Equal(t, event_bus.AvailabilityEventResized{
		EventID:      first.ID,
		Edge:         "end",
		StartMinutes: 540,
		EndMinutes:   660,
	}, resized[0].Data)

	_, err = s.Resize(ctx, "missing", calendar.EdgeStart, 500)
	assert.ErrorIs(t, err, calendar.ErrEventNotFound)
	assert.Len(t, rec.ofType(event_bus.EventResizedType), 1)
}

func TestAddDayBefore(t *testing.T) {
	s, _, _ := setupSession(t)

	day, err := s.AddDayBefore()

	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", day.Date)
	assert.Equal(t, day.ID, s.Days()[0].ID)
}

func TestSetZone(t *testing.T) {
	s, _, _ := setupSession(t)

	require.NoError(t, s.SetZone("Asia/Tokyo"))
	assert.Equal(t, "Asia/Tokyo", s.Zone())
	assert.Error(t, s.SetZone("Nowhere/Land"))
	assert.Equal(t, "Asia/Tokyo", s.Zone())
}

func TestShareURL_RoundTrip(t *testing.T) {
	s, dayID, rec := setupSession(t)
	drag(t, s, dayID, 1, 220, 280)

	url, err := s.ShareURL(context.Background(), "https://avail.example.com", "/")
	require.NoError(t, err)

	state, ok := share.Decode(share.TokenFromURL(url))
	require.True(t, ok)
	assert.Equal(t, "America/New_York", state.TZ)
	assert.Equal(t, s.Days(), state.Days)
	assert.Equal(t, s.Events(dayID), state.Events)

	shared := rec.ofType(event_bus.SharedType)
	require.Len(t, shared, 1)
	assert.Equal(t, url, shared[0].Data.(event_bus.AvailabilityShared).URL)

	viewer := Open(share.TokenFromURL(url), "America/New_York", utils.NewMockClock(testNow), nil, nil, DefaultSettings)
	assert.True(t, viewer.ViewOnly())
	assert.Equal(t, s.Events(dayID), viewer.Events(dayID))
}
