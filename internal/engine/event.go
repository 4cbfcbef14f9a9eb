package engine

// EventKind classifies control bus events.
type EventKind int

// Event kinds. Everything the controller does not act on is EventOther.
const (
	EventOther EventKind = iota
	EventEndOfStream
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventEndOfStream:
		return "eos"
	case EventError:
		return "error"
	default:
		return "other"
	}
}

// ControlEvent is an asynchronous message from a running graph.
type ControlEvent struct {
	Kind EventKind
	// Source is the path of the originating node, e.g. /pipeline/souphttpsrc0.
	Source  string
	Message string
	Debug   string
	// Type is the engine's own name for the message type, kept for logging.
	Type string
}

// EndOfStream returns an end-of-stream event.
func EndOfStream(source string) ControlEvent {
	return ControlEvent{Kind: EventEndOfStream, Source: source, Type: "eos"}
}

// ErrorEvent returns an error event.
func ErrorEvent(source, message, debug string) ControlEvent {
	return ControlEvent{Kind: EventError, Source: source, Message: message, Debug: debug, Type: "error"}
}
