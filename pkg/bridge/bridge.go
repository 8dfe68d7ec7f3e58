package bridge

import (
	"sync"

	"github.com/yjb94/expo-iap-sub000/pkg/native"
)

// Bridge multiplexes handlers onto the native event streams. It attaches
// at most one native listener per event name and fans incoming payloads
// out to every handler subscribed to that event, so re-entrant Subscribe
// calls never cause duplicate native registrations.
//
// A Bridge is scoped to one connection session: Close detaches every
// native listener and permanently retires the instance. All methods are
// safe for concurrent use.
type Bridge struct {
	emitter native.Emitter

	mu       sync.Mutex
	closed   bool
	channels map[native.Event]*channel
	nextID   uint64
}

type channel struct {
	listener native.Listener
	handlers map[uint64]func(native.Payload)
}

// New creates a bridge over the given native emitter.
func New(emitter native.Emitter) *Bridge {
	return &Bridge{
		emitter:  emitter,
		channels: make(map[native.Event]*channel),
	}
}

// Subscribe attaches a handler to a named event stream and returns its
// detach token. The first subscription for an event registers the single
// native listener; later subscriptions join its fan-out. Subscribing on a
// closed bridge returns an inert token.
func (b *Bridge) Subscribe(event native.Event, handler func(native.Payload)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return &Subscription{}
	}

	ch, ok := b.channels[event]
	if !ok {
		ch = &channel{handlers: make(map[uint64]func(native.Payload))}
		ch.listener = b.emitter.AddListener(event, func(p native.Payload) {
			b.dispatch(event, p)
		})
		b.channels[event] = ch
	}

	id := b.nextID
	b.nextID++
	ch.handlers[id] = handler

	return &Subscription{bridge: b, event: event, id: id}
}

// dispatch fans a payload out to the handlers subscribed at delivery
// time. Handlers run on the emitter's callback goroutine without the
// bridge lock held, so a handler may subscribe or unsubscribe re-entrantly.
func (b *Bridge) dispatch(event native.Event, payload native.Payload) {
	b.mu.Lock()
	ch, ok := b.channels[event]
	if !ok {
		b.mu.Unlock()
		return
	}
	handlers := make([]func(native.Payload), 0, len(ch.handlers))
	for _, h := range ch.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Close detaches every native listener and retires the bridge. It is safe
// to call multiple times; exactly one native detach happens per attached
// event regardless.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for event, ch := range b.channels {
		ch.listener.Remove()
		clear(ch.handlers)
		delete(b.channels, event)
	}
}

func (b *Bridge) unsubscribe(event native.Event, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[event]
	if !ok {
		return
	}
	delete(ch.handlers, id)

	// Last handler gone: release the native listener so nothing fires
	// into a handler-less channel. A later Subscribe re-attaches.
	if len(ch.handlers) == 0 {
		ch.listener.Remove()
		delete(b.channels, event)
	}
}

// Subscription is the detach token returned by Subscribe.
type Subscription struct {
	bridge *Bridge
	event  native.Event
	id     uint64
	once   sync.Once
}

// Unsubscribe detaches the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.bridge != nil {
			s.bridge.unsubscribe(s.event, s.id)
		}
	})
}
