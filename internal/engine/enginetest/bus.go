package enginetest

import (
	"sync/atomic"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// Bus is a buffered in-memory control bus.
type Bus struct {
	events chan engine.ControlEvent
	pops   atomic.Int32
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{events: make(chan engine.ControlEvent, 64)}
}

// Post queues an event for the next Pop.
func (b *Bus) Post(ev engine.ControlEvent) {
	b.events <- ev
}

// Pop implements engine.Bus.
func (b *Bus) Pop() engine.ControlEvent {
	b.pops.Add(1)
	return <-b.events
}

// Pops returns how many times Pop has been called.
func (b *Bus) Pops() int {
	return int(b.pops.Load())
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	return len(b.events)
}
