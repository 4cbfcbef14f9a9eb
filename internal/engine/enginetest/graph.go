package enginetest

import (
	"errors"
	"fmt"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// Graph is an in-memory engine.Graph.
type Graph struct {
	name  string
	order []*Node
	nodes map[*Node]bool
	bus   *Bus

	// States records every successful SetState call in order.
	States []engine.RunState
	// FailPlaying makes the transition to Playing fail unconditionally.
	FailPlaying bool
}

// Name implements engine.Graph.
func (g *Graph) Name() string { return g.name }

// Add implements engine.Graph.
func (g *Graph) Add(nodes ...engine.Node) error {
	for _, en := range nodes {
		n, ok := en.(*Node)
		if !ok {
			return fmt.Errorf("foreign node %T", en)
		}
		if n.graph != nil {
			return fmt.Errorf("%w: %s", engine.ErrAlreadyInGraph, n.name)
		}
		n.graph = g
		g.nodes[n] = true
		g.order = append(g.order, n)
	}
	return nil
}

// Link implements engine.Graph.
func (g *Graph) Link(nodes ...engine.Node) error {
	for i := 0; i+1 < len(nodes); i++ {
		up, ok := nodes[i].(*Node)
		if !ok || !g.nodes[up] {
			return fmt.Errorf("%w: %s", engine.ErrNotInGraph, nodes[i].Name())
		}
		down, ok := nodes[i+1].(*Node)
		if !ok || !g.nodes[down] {
			return fmt.Errorf("%w: %s", engine.ErrNotInGraph, nodes[i+1].Name())
		}
		src, err := up.StaticPort("src")
		if err != nil {
			return err
		}
		sink, err := down.StaticPort("sink")
		if err != nil {
			return err
		}
		if err := src.Link(sink); err != nil {
			return err
		}
	}
	return nil
}

// SetState implements engine.Graph. Reaching Playing requires every static
// and requested port of every node to be linked.
func (g *Graph) SetState(state engine.RunState) error {
	if state == engine.StatePlaying {
		if g.FailPlaying {
			return fmt.Errorf("%w: %s refused to start", engine.ErrStateChange, g.name)
		}
		if err := g.checkLinked(); err != nil {
			return fmt.Errorf("%w: %w", engine.ErrStateChange, err)
		}
	}
	g.States = append(g.States, state)
	return nil
}

func (g *Graph) checkLinked() error {
	var errs []error
	for _, n := range g.order {
		for _, name := range []string{"sink", "src"} {
			if p, ok := n.ports[name]; ok && !p.IsLinked() {
				errs = append(errs, fmt.Errorf("%s:%s not linked", n.path(), name))
			}
		}
		for _, p := range n.requested {
			if !p.IsLinked() {
				errs = append(errs, fmt.Errorf("%s:%s not linked", n.path(), p.name))
			}
		}
	}
	return errors.Join(errs...)
}

// State returns the last state set, StateNull if none.
func (g *Graph) State() engine.RunState {
	if len(g.States) == 0 {
		return engine.StateNull
	}
	return g.States[len(g.States)-1]
}

// Bus implements engine.Graph.
func (g *Graph) Bus() engine.Bus { return g.bus }

// FakeBus returns the graph's bus for injecting events.
func (g *Graph) FakeBus() *Bus { return g.bus }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.order }

// NodesOfKind returns nodes of a kind in insertion order.
func (g *Graph) NodesOfKind(kind string) []*Node {
	var out []*Node
	for _, n := range g.order {
		if n.kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Path returns the bus path of a node in this graph.
func (g *Graph) Path(n *Node) string { return n.path() }

// Walk follows src links from start and returns every node visited,
// including start, until a node with no linked src port is reached.
func (g *Graph) Walk(start *Node) []*Node {
	seen := make(map[*Node]bool)
	var out []*Node
	for n := start; n != nil && !seen[n]; {
		seen[n] = true
		out = append(out, n)
		src, ok := n.ports["src"]
		if !ok || src.peer == nil {
			break
		}
		n = src.peer.node
	}
	return out
}
