package bus

import (
	"fmt"
	"reflect"
	"slices"
)

// Event is a delivered notification.
type Event struct {
	Topic   Topic
	Seq     uint64
	Payload any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	topic  Topic // empty for SubscribeAll
	h      Handler
	active bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithObserver registers fn to be called for every event before it is
// delivered to subscribers.
func WithObserver(fn func(Event)) Option {
	return func(b *Bus) {
		b.observer = fn
	}
}

// Bus is a synchronous publish/subscribe channel over a closed topic set.
type Bus struct {
	subs        []*subscription
	queue       []Event
	dispatching bool
	seq         uint64
	closed      bool
	observer    func(Event)
}

// New creates a bus.
func New(optFns ...Option) *Bus {
	b := &Bus{}
	for _, fn := range optFns {
		fn(b)
	}
	return b
}

// Seq returns the sequence number of the last published event.
func (b *Bus) Seq() uint64 {
	return b.seq
}

// Publish stamps payload with the next sequence number and delivers it to
// every subscriber of topic. When called from inside a handler, delivery is
// deferred until the current event has been fully dispatched.
func (b *Bus) Publish(topic Topic, payload any) (uint64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	want, ok := payloadTypes[topic]
	if !ok {
		return 0, &ErrUnknownTopic{Topic: topic}
	}
	if got := reflect.TypeOf(payload); got != want {
		return 0, &ErrPayloadType{Topic: topic, Got: fmt.Sprint(got), Want: want.String()}
	}

	b.seq++
	b.queue = append(b.queue, Event{Topic: topic, Seq: b.seq, Payload: payload})
	if b.dispatching {
		return b.seq, nil
	}
	seq := b.seq
	b.drain()
	return seq, nil
}

func (b *Bus) drain() {
	b.dispatching = true
	defer func() {
		b.dispatching = false
		b.queue = b.queue[:0]
	}()
	for len(b.queue) > 0 {
		ev := b.queue[0]
		b.queue = b.queue[1:]
		if b.observer != nil {
			b.observer(ev)
		}
		// Subscriptions added during dispatch only see later events.
		for _, s := range slices.Clone(b.subs) {
			if s.active && (s.topic == "" || s.topic == ev.Topic) {
				s.h(ev)
			}
		}
	}
}

// Subscribe registers h for topic and returns a function that removes it.
// Unsubscribing is idempotent and takes effect immediately, even mid-dispatch.
func (b *Bus) Subscribe(topic Topic, h Handler) (func(), error) {
	if b.closed {
		return nil, ErrClosed
	}
	if !topic.Valid() {
		return nil, &ErrUnknownTopic{Topic: topic}
	}
	return b.add(&subscription{topic: topic, h: h, active: true}), nil
}

// SubscribeAll registers h for every topic.
func (b *Bus) SubscribeAll(h Handler) (func(), error) {
	if b.closed {
		return nil, ErrClosed
	}
	return b.add(&subscription{h: h, active: true}), nil
}

func (b *Bus) add(s *subscription) func() {
	b.subs = append(b.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		b.subs = slices.DeleteFunc(b.subs, func(x *subscription) bool { return x == s })
	}
}

// Close removes every subscriber. Later calls to Publish and Subscribe fail
// with ErrClosed.
func (b *Bus) Close() {
	for _, s := range b.subs {
		s.active = false
	}
	b.subs = nil
	b.closed = true
}

// On subscribes a handler typed to the payload of topic.
func On[T any](b *Bus, topic Topic, fn func(seq uint64, payload T)) (func(), error) {
	want, ok := payloadTypes[topic]
	if !ok {
		return nil, &ErrUnknownTopic{Topic: topic}
	}
	if got := reflect.TypeFor[T](); got != want {
		return nil, &ErrPayloadType{Topic: topic, Got: got.String(), Want: want.String()}
	}
	return b.Subscribe(topic, func(ev Event) {
		fn(ev.Seq, ev.Payload.(T))
	})
}
