package enginetest

import (
	"fmt"
	"slices"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// Node is an in-memory engine.Node that records its properties.
type Node struct {
	name      string
	kind      string
	spec      portSpec
	props     map[string]any
	ports     map[string]*Port
	requested []*Port
	graph     *Graph

	// RejectProperty makes SetProperty fail for the named property.
	RejectProperty string
}

// Name implements engine.Node.
func (n *Node) Name() string { return n.name }

// Kind implements engine.Node.
func (n *Node) Kind() string { return n.kind }

// SetProperty implements engine.Node.
func (n *Node) SetProperty(name string, value any) error {
	if name == n.RejectProperty {
		return fmt.Errorf("%s: property %q rejected", n.name, name)
	}
	n.props[name] = value
	return nil
}

// SetPropertyFromString implements engine.Node.
func (n *Node) SetPropertyFromString(name, value string) error {
	return n.SetProperty(name, value)
}

// Property returns a property previously set on the node.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// StaticPort implements engine.Node.
func (n *Node) StaticPort(name string) (engine.Port, error) {
	p, ok := n.ports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no static port %q", engine.ErrNoSuchPort, n.name, name)
	}
	return p, nil
}

// RequestPort implements engine.Node.
func (n *Node) RequestPort(template string) (engine.Port, error) {
	if !slices.Contains(n.spec.templates, template) {
		return nil, fmt.Errorf("%w: %s has no request template %q", engine.ErrNoSuchPort, n.name, template)
	}
	p := &Port{
		name:      fmt.Sprintf("%s_%d", template, len(n.requested)),
		node:      n,
		requested: true,
	}
	n.requested = append(n.requested, p)
	return p, nil
}

// Requested returns the ports allocated through RequestPort.
func (n *Node) Requested() []*Port {
	return n.requested
}

func (n *Node) path() string {
	if n.graph == nil {
		return n.name
	}
	return "/" + n.graph.name + "/" + n.name
}

// Port is an in-memory engine.Port.
type Port struct {
	name      string
	node      *Node
	source    bool
	requested bool
	peer      *Port
}

// Name implements engine.Port.
func (p *Port) Name() string { return p.name }

// Node implements engine.Port.
func (p *Port) Node() engine.Node { return p.node }

// IsLinked implements engine.Port.
func (p *Port) IsLinked() bool { return p.peer != nil }

// Peer returns the port this one is linked to, or nil.
func (p *Port) Peer() *Port { return p.peer }

// Link implements engine.Port.
func (p *Port) Link(sink engine.Port) error {
	other, ok := sink.(*Port)
	if !ok {
		return fmt.Errorf("%w: foreign port %T", engine.ErrLinkFailed, sink)
	}
	if p.node.graph == nil {
		return fmt.Errorf("%w: %s", engine.ErrNotInGraph, p.node.name)
	}
	if other.node.graph == nil {
		return fmt.Errorf("%w: %s", engine.ErrNotInGraph, other.node.name)
	}
	if p.node.graph != other.node.graph {
		return fmt.Errorf("%w: %s and %s are in different graphs", engine.ErrLinkFailed, p.node.name, other.node.name)
	}
	if !p.source || other.source {
		return fmt.Errorf("%w: %s:%s -> %s:%s has wrong direction",
			engine.ErrLinkFailed, p.node.name, p.name, other.node.name, other.name)
	}
	if p.peer != nil {
		return fmt.Errorf("%w: %s:%s", engine.ErrAlreadyLinked, p.node.name, p.name)
	}
	if other.peer != nil {
		return fmt.Errorf("%w: %s:%s", engine.ErrAlreadyLinked, other.node.name, other.name)
	}
	p.peer = other
	other.peer = p
	return nil
}
