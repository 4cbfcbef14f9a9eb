package events

import "time"

// Event type constants for kelindar/event.
const (
	TypePipelineBuilt uint32 = iota + 1
	TypePipelineStateChanged
	TypeBusMessage
	TypePipelineTerminated
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PipelineBuiltEvent is published once the graph is fully constructed and linked.
type PipelineBuiltEvent struct {
	Pipeline  string        `json:"pipeline"`
	Nodes     int           `json:"nodes"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Type returns the event type identifier for PipelineBuiltEvent.
func (e PipelineBuiltEvent) Type() uint32 { return TypePipelineBuilt }

// PipelineStateChangedEvent is published on every controller state transition.
type PipelineStateChangedEvent struct {
	Pipeline  string    `json:"pipeline"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for PipelineStateChangedEvent.
func (e PipelineStateChangedEvent) Type() uint32 { return TypePipelineStateChanged }

// BusMessageEvent mirrors a message popped from the graph control bus.
type BusMessageEvent struct {
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for BusMessageEvent.
func (e BusMessageEvent) Type() uint32 { return TypeBusMessage }

// PipelineTerminatedEvent is published after teardown.
type PipelineTerminatedEvent struct {
	Pipeline  string    `json:"pipeline"`
	Reason    string    `json:"reason"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for PipelineTerminatedEvent.
func (e PipelineTerminatedEvent) Type() uint32 { return TypePipelineTerminated }
