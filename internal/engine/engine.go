package engine

import (
	"errors"
	"fmt"
)

// Construction errors shared by all engine implementations.
var (
	ErrNodeUnavailable = errors.New("node kind not available")
	ErrNotInGraph      = errors.New("node not added to graph")
	ErrAlreadyInGraph  = errors.New("node already added to graph")
	ErrAlreadyLinked   = errors.New("port already linked")
	ErrNoSuchPort      = errors.New("no such port")
	ErrLinkFailed      = errors.New("link failed")
	ErrStateChange     = errors.New("state change rejected")
)

// RunState is the engine run state of a graph.
type RunState int

// Run states. Only StateNull and StatePlaying are driven by this module.
const (
	StateNull RunState = iota
	StateReady
	StatePaused
	StatePlaying
)

func (s RunState) String() string {
	switch s {
	case StateNull:
		return "null"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// Engine creates graphs and nodes.
type Engine interface {
	// NewGraph creates an empty top-level graph.
	NewGraph(name string) (Graph, error)
	// NewNode creates a node of an engine-defined kind (e.g. "queue").
	// It returns an error wrapping ErrNodeUnavailable if the kind is not installed.
	NewNode(kind string) (Node, error)
	// HasNode reports whether nodes of the given kind can be created.
	HasNode(kind string) bool
}

// Node is an opaque processing unit.
type Node interface {
	Name() string
	Kind() string
	// SetProperty sets a string, integer or boolean property, or a Caps value.
	SetProperty(name string, value any) error
	// SetPropertyFromString sets enumerated and structure properties from
	// their textual form (e.g. pass=cbr).
	SetPropertyFromString(name, value string) error
	// StaticPort returns an always-present port such as "src" or "sink".
	StaticPort(name string) (Port, error)
	// RequestPort allocates a new port from a request template such as "video".
	RequestPort(template string) (Port, error)
}

// Port is a connection point on a node.
type Port interface {
	Name() string
	Node() Node
	// Link connects this source port directly to sink.
	Link(sink Port) error
	IsLinked() bool
}

// Graph owns nodes and their run state.
type Graph interface {
	Name() string
	// Add inserts nodes into the graph. Nodes must be added before being linked.
	Add(nodes ...Node) error
	// Link links nodes in order as a single unbranched sequence.
	Link(nodes ...Node) error
	SetState(state RunState) error
	Bus() Bus
}

// Bus delivers control events from a running graph.
type Bus interface {
	// Pop blocks until the next event is available.
	Pop() ControlEvent
}

// Property is a named node property value. FromString properties are set
// through SetPropertyFromString.
type Property struct {
	Name       string
	Value      any
	FromString bool
}

// Prop returns a typed property.
func Prop(name string, value any) Property {
	return Property{Name: name, Value: value}
}

// PropString returns a property set from its textual form.
func PropString(name, value string) Property {
	return Property{Name: name, Value: value, FromString: true}
}

// Apply sets each property on n in order.
func Apply(n Node, props ...Property) error {
	for _, p := range props {
		var err error
		if p.FromString {
			err = n.SetPropertyFromString(p.Name, fmt.Sprint(p.Value))
		} else {
			err = n.SetProperty(p.Name, p.Value)
		}
		if err != nil {
			return fmt.Errorf("set %s on %s: %w", p.Name, n.Name(), err)
		}
	}
	return nil
}
