package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/klokku/availshare/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *EventBus {
	return NewEventBus(utils.NewMockClock(time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)))
}

func TestPublish_RunsSubscribersInOrder(t *testing.T) {
	bus := newTestBus()
	var calls []int
	for i := 1; i <= 5; i++ {
		bus.Subscribe(EventDeletedType, func(Event) error {
			calls = append(calls, i)
			return nil
		})
	}

	err := bus.Publish(context.Background(), EventDeletedType, AvailabilityEventDeleted{EventID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestSubscribeTyped(t *testing.T) {
	bus := newTestBus()
	var received []EventT[AvailabilityEventCreated]
	SubscribeTyped(bus, EventCreatedType, func(e EventT[AvailabilityEventCreated]) error {
		received = append(received, e)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), EventCreatedType, AvailabilityEventCreated{EventID: "e1", StartMinutes: 540}))
	require.NoError(t, bus.Publish(context.Background(), EventCreatedType, "wrong payload"))

	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].Data.EventID)
	assert.Equal(t, EventCreatedType, received[0].Type)
	assert.Equal(t, time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC), received[0].Timestamp)
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus()
	count := 0
	unsubscribe := bus.Subscribe(SharedType, func(Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), SharedType, AvailabilityShared{}))
	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), SharedType, AvailabilityShared{}))

	assert.Equal(t, 1, count)
}

func TestPublish_CollectsErrorsAndPanics(t *testing.T) {
	bus := newTestBus()
	failure := errors.New("boom")
	reached := false
	bus.Subscribe(DayRemovedType, func(Event) error { return failure })
	bus.Subscribe(DayRemovedType, func(Event) error { panic("kaput") })
	bus.Subscribe(DayRemovedType, func(Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(context.Background(), DayRemovedType, DayRemoved{DayID: "d1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "kaput")
	assert.True(t, reached)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := newTestBus()
	called := false
	bus.Subscribe(SharedType, func(Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, SharedType, AvailabilityShared{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Publish(context.Background(), SharedType, nil))
}
