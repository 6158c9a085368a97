// Package events is the typed publish/subscribe channel systems communicate
// through. It owns no game data; payloads commonly carry EntityIDs, which the
// receiver resolves through the world at time of use.
package events

import (
	"slices"

	"github.com/rs/zerolog"
)

// Event is an immutable typed payload. Name is the type tag handlers
// subscribe on.
type Event interface {
	Name() string
}

// Handler processes a single event. A handler that panics is logged and
// skipped; it never blocks delivery to the remaining subscribers.
type Handler func(Event)

// Subscription identifies a single Subscribe call so it can be undone.
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler Handler
}

// Bus delivers events in two modes: Emit queues for the next Drain (FIFO),
// EmitImmediate dispatches synchronously before returning.
type Bus struct {
	logger      zerolog.Logger
	subscribers map[string][]subscriber
	subToEvent  map[Subscription]string
	nextSub     Subscription
	queue       []Event
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger:      logger,
		subscribers: make(map[string][]subscriber),
		subToEvent:  make(map[Subscription]string),
		nextSub:     1,
		queue:       make([]Event, 0),
	}
}

// Subscribe registers the handler for the named event type. Handlers for the
// same event type run in subscription order.
func (b *Bus) Subscribe(eventName string, handler Handler) Subscription {
	sub := b.nextSub
	b.nextSub++
	b.subscribers[eventName] = append(b.subscribers[eventName], subscriber{id: sub, handler: handler})
	b.subToEvent[sub] = eventName
	return sub
}

// Unsubscribe removes the handler registered under the subscription. It
// reports false for an unknown or already-removed subscription. Removing a
// subscription while its event type is mid-dispatch is safe: dispatch runs
// against a snapshot taken when the delivery pass started.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	eventName, ok := b.subToEvent[sub]
	if !ok {
		return false
	}
	delete(b.subToEvent, sub)
	subs := b.subscribers[eventName]
	for i, s := range subs {
		if s.id == sub {
			b.subscribers[eventName] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[eventName]) == 0 {
		delete(b.subscribers, eventName)
	}
	return true
}

// Emit queues the event for the next Drain. Handlers calling Emit during a
// drain schedule delivery for a future drain, never the current one.
func (b *Bus) Emit(event Event) {
	b.queue = append(b.queue, event)
}

// EmitImmediate delivers the event to all current subscribers of its type
// before returning. Handlers may themselves call EmitImmediate; the nested
// delivery completes depth-first before the outer handler resumes.
func (b *Bus) EmitImmediate(event Event) {
	b.dispatch(event)
}

// Drain delivers every queued event in emission order, then clears the queue.
// It returns the number of events delivered.
func (b *Bus) Drain() int {
	pending := b.queue
	b.queue = make([]Event, 0)
	for _, event := range pending {
		b.dispatch(event)
	}
	return len(pending)
}

// QueueLength returns the number of events waiting for the next Drain.
func (b *Bus) QueueLength() int {
	return len(b.queue)
}

func (b *Bus) dispatch(event Event) {
	// Snapshot so subscribe/unsubscribe from inside a handler cannot corrupt
	// this delivery pass.
	subs := slices.Clone(b.subscribers[event.Name()])
	for _, sub := range subs {
		b.invoke(sub, event)
	}
}

func (b *Bus) invoke(sub subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", event.Name()).
				Uint64("subscription", uint64(sub.id)).
				Interface("panic", r).
				Msg("event handler panicked; continuing with remaining subscribers")
		}
	}()
	sub.handler(event)
}
