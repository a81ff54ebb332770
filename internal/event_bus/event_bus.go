package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klokku/availshare/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EventType string

// Event is the envelope delivered to subscribers. Data holds one of the payloads from events.go.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is the envelope seen by typed subscribers.
type EventT[T any] struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      T
}

func (e EventT[T]) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// Publisher is what domain code depends on. A nil Publisher is never passed around;
// use Discard instead.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, data any) error
}

type discard struct{}

func (discard) Publish(context.Context, EventType, any) error { return nil }

// Discard drops every event.
var Discard Publisher = discard{}

type subscriber struct {
	id uint64
	h  func(Event) error
}

// EventBus dispatches synchronously, in subscription order.
type EventBus struct {
	mu          sync.RWMutex
	clock       utils.Clock
	subscribers map[EventType][]subscriber
	nextID      uint64
}

func NewEventBus(clock utils.Clock) *EventBus {
	return &EventBus{
		clock:       clock,
		subscribers: make(map[EventType][]subscriber),
	}
}

// Subscribe registers h for eventType and returns a function removing it again.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber{id: id, h: h})
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()

		subs := eb.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				eb.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(eb.subscribers[eventType]) == 0 {
			delete(eb.subscribers, eventType)
		}
	}
}

// SubscribeTyped registers a handler for payloads of type T. Events carrying another
// payload type are skipped.
//
//	unsub := event_bus.SubscribeTyped(bus, event_bus.EventCreatedType,
//	    func(e event_bus.EventT[event_bus.AvailabilityEventCreated]) error {
//	        log.Infof("created %s on %s", e.Data.EventID, e.Data.Date)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: skipping %s, expected %T, got %T", eventType, *new(T), e.Data)
			return nil
		}
		return h(EventT[T]{ctx: e.ctx, Type: e.Type, Timestamp: e.Timestamp, Data: payload})
	})
}

// Publish wraps data in an Event stamped with the bus clock and dispatches it.
// Every subscriber runs even when an earlier one fails; failures and recovered panics
// are joined into the returned error. A cancelled context stops dispatch.
func (eb *EventBus) Publish(ctx context.Context, eventType EventType, data any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", eventType, err)
	}
	e := Event{ctx: ctx, Type: eventType, Timestamp: eb.clock.Now(), Data: data}

	eb.mu.RLock()
	subs := append([]subscriber(nil), eb.subscribers[eventType]...)
	eb.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}
		if err := dispatch(s, e); err != nil {
			log.Errorf("EventBus: handler %d failed for %s: %v", s.id, eventType, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %w", eventType, errors.Join(errs...))
	}
	return nil
}

func dispatch(s subscriber, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked: %v", s.id, r)
		}
	}()
	return s.h(e)
}
