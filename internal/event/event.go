// Package event is a small publish/subscribe bus between the flight core and
// whatever presents it.
package event

import (
	"sort"
	"sync"
)

// Type names a kind of event.
type Type string

// Event is anything that can travel on the bus.
type Event interface {
	EventType() Type
}

type Handler func(Event)

// All subscribes a handler to every event type.
const All Type = "*"

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously to the handlers registered for their
// type, in subscription order. It is safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers handler for events of type t (or All) and returns a
// function that removes it again. Calling the returned function more than
// once is harmless.
func (b *Bus) Subscribe(t Type, handler Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(t, id) })
	}
}

func (b *Bus) remove(t Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[t]
	for i, s := range subs {
		if s.id == id {
			b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[t]) == 0 {
		delete(b.handlers, t)
	}
}

// Publish delivers e to the handlers of its type and to All handlers.
// Handlers may subscribe or unsubscribe while being called.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.handlers[e.EventType()])+len(b.handlers[All]))
	subs = append(subs, b.handlers[e.EventType()]...)
	subs = append(subs, b.handlers[All]...)
	b.mu.RUnlock()

	sort.SliceStable(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		s.handler(e)
	}
}

// Len returns the number of handlers registered for t.
func (b *Bus) Len(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}
