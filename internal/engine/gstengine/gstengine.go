// Package gstengine implements engine.Engine on top of GStreamer using go-gst.
package gstengine

import (
	"fmt"
	"sync"

	"github.com/go-gst/go-gst/gst"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

var initOnce sync.Once

// Engine is the GStreamer engine. The zero value is not usable; call New.
type Engine struct{}

// New initializes GStreamer once per process and returns an engine.
func New() *Engine {
	initOnce.Do(func() {
		gst.Init(nil)
	})
	return &Engine{}
}

// NewGraph implements engine.Engine.
func (e *Engine) NewGraph(name string) (engine.Graph, error) {
	pipeline, err := gst.NewPipeline(name)
	if err != nil {
		return nil, fmt.Errorf("create pipeline %s: %w", name, err)
	}
	return &graph{name: name, pipeline: pipeline}, nil
}

// HasNode implements engine.Engine.
func (e *Engine) HasNode(kind string) bool {
	return gst.Find(kind) != nil
}

// NewNode implements engine.Engine.
func (e *Engine) NewNode(kind string) (engine.Node, error) {
	elem, err := gst.NewElement(kind)
	if err != nil || elem == nil {
		return nil, fmt.Errorf("%w: %s: %v", engine.ErrNodeUnavailable, kind, err)
	}
	return &node{kind: kind, elem: elem}, nil
}

type node struct {
	kind string
	elem *gst.Element
}

func (n *node) Name() string { return n.elem.GetName() }

func (n *node) Kind() string { return n.kind }

func (n *node) SetProperty(name string, value any) error {
	if caps, ok := value.(engine.Caps); ok {
		gstCaps := gst.NewCapsFromString(caps.String())
		if gstCaps == nil {
			return fmt.Errorf("%s: invalid caps %q", n.Name(), caps.String())
		}
		value = gstCaps
	}
	if err := n.elem.SetProperty(name, value); err != nil {
		return fmt.Errorf("%s: set %s: %w", n.Name(), name, err)
	}
	return nil
}

// SetPropertyFromString parses value as the property's own type, so an
// unknown property or an unparseable enum nick or structure is an error
// instead of a GLib warning.
func (n *node) SetPropertyFromString(name, value string) error {
	typ, err := n.elem.GetPropertyType(name)
	if err != nil {
		return fmt.Errorf("%s: set %s: %w", n.Name(), name, err)
	}
	gv, ok := gst.ValueDeserialize(value, typ)
	if !ok {
		return fmt.Errorf("%s: set %s: cannot parse %q as %s", n.Name(), name, value, typ.Name())
	}
	if err := n.elem.SetPropertyValue(name, gv); err != nil {
		return fmt.Errorf("%s: set %s: %w", n.Name(), name, err)
	}
	return nil
}

func (n *node) StaticPort(name string) (engine.Port, error) {
	pad := n.elem.GetStaticPad(name)
	if pad == nil {
		return nil, fmt.Errorf("%w: %s has no static pad %q", engine.ErrNoSuchPort, n.Name(), name)
	}
	return &port{pad: pad, owner: n}, nil
}

func (n *node) RequestPort(template string) (engine.Port, error) {
	pad := n.elem.GetRequestPad(template)
	if pad == nil {
		return nil, fmt.Errorf("%w: %s has no request pad %q", engine.ErrNoSuchPort, n.Name(), template)
	}
	return &port{pad: pad, owner: n}, nil
}

type port struct {
	pad   *gst.Pad
	owner *node
}

func (p *port) Name() string { return p.pad.GetName() }

func (p *port) Node() engine.Node { return p.owner }

func (p *port) IsLinked() bool { return p.pad.IsLinked() }

func (p *port) Link(sink engine.Port) error {
	other, ok := sink.(*port)
	if !ok {
		return fmt.Errorf("%w: foreign port %T", engine.ErrLinkFailed, sink)
	}
	switch ret := p.pad.Link(other.pad); ret {
	case gst.PadLinkOK:
		return nil
	case gst.PadLinkWasLinked:
		return fmt.Errorf("%w: %s:%s", engine.ErrAlreadyLinked, p.owner.Name(), p.Name())
	default:
		return fmt.Errorf("%w: %s:%s -> %s:%s: %s", engine.ErrLinkFailed,
			p.owner.Name(), p.Name(), other.owner.Name(), other.Name(), ret.String())
	}
}
