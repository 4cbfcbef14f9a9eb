package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for lifecycle event broadcasting.
// Delivery is asynchronous; subscribers must not assume ordering across types.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(PipelineStateChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case PipelineBuiltEvent:
		event.Publish(b.dispatcher, e)
	case PipelineStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case BusMessageEvent:
		event.Publish(b.dispatcher, e)
	case PipelineTerminatedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler's parameter type selects the events it receives.
// Returns an unsubscribe function; unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PipelineBuiltEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PipelineStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(BusMessageEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PipelineTerminatedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
