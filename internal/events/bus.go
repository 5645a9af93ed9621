package events

import (
	"sync"
)

// StatKind identifies which user stat changed
type StatKind string

const (
	StatExp   StatKind = "exp"
	StatCoins StatKind = "coins"
)

// StatChange is published after a successful user stats mutation.
type StatChange struct {
	StatKind StatKind `json:"statKind"`
	UserID   string   `json:"userId"`
	OldValue float64  `json:"oldValue"`
	NewValue float64  `json:"newValue"`
}

// Handler receives published stat changes.
type Handler func(StatChange)

// Bus is an in-process, synchronous fan-out of stat changes. Delivery
// is best-effort with no persistence or retry. Construct one per
// process and inject it; Subscribe returns an unsubscribe func so
// callers get deterministic teardown.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Publish delivers the change to every subscriber, synchronously, on
// the caller's goroutine.
func (b *Bus) Publish(change StatChange) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(change)
	}
}
