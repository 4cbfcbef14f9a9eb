package gstengine

import (
	"fmt"

	"github.com/go-gst/go-gst/gst"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

type graph struct {
	name     string
	pipeline *gst.Pipeline
}

func (g *graph) Name() string { return g.name }

func (g *graph) Add(nodes ...engine.Node) error {
	elems, err := elements(nodes)
	if err != nil {
		return err
	}
	if err := g.pipeline.AddMany(elems...); err != nil {
		return fmt.Errorf("add to %s: %w", g.name, err)
	}
	return nil
}

func (g *graph) Link(nodes ...engine.Node) error {
	elems, err := elements(nodes)
	if err != nil {
		return err
	}
	// GStreamer refuses to link elements that do not share a parent bin.
	if err := gst.ElementLinkMany(elems...); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrLinkFailed, err)
	}
	return nil
}

func (g *graph) SetState(state engine.RunState) error {
	if err := g.pipeline.SetState(toGstState(state)); err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", engine.ErrStateChange, g.name, state, err)
	}
	return nil
}

func (g *graph) Bus() engine.Bus {
	return &bus{graph: g.name, bus: g.pipeline.GetPipelineBus()}
}

func elements(nodes []engine.Node) ([]*gst.Element, error) {
	elems := make([]*gst.Element, 0, len(nodes))
	for _, n := range nodes {
		gn, ok := n.(*node)
		if !ok {
			return nil, fmt.Errorf("foreign node %T", n)
		}
		elems = append(elems, gn.elem)
	}
	return elems, nil
}

func toGstState(state engine.RunState) gst.State {
	switch state {
	case engine.StateReady:
		return gst.StateReady
	case engine.StatePaused:
		return gst.StatePaused
	case engine.StatePlaying:
		return gst.StatePlaying
	default:
		return gst.StateNull
	}
}

type bus struct {
	graph string
	bus   *gst.Bus
}

// Pop blocks with no timeout until the pipeline posts a message.
func (b *bus) Pop() engine.ControlEvent {
	msg := b.bus.TimedPop(gst.ClockTimeNone)
	if msg == nil {
		return engine.ControlEvent{Kind: engine.EventOther}
	}
	// Only the posting element's name is available here, so elements
	// nested inside a bin (e.g. a source created by wpesrc) are reported
	// as if they were direct children of the pipeline.
	source := "/" + b.graph + "/" + msg.Source()
	switch msg.Type() {
	case gst.MessageEOS:
		return engine.EndOfStream(source)
	case gst.MessageError:
		gerr := msg.ParseError()
		return engine.ErrorEvent(source, gerr.Error(), gerr.DebugString())
	default:
		return engine.ControlEvent{Kind: engine.EventOther, Source: source, Type: msg.TypeName()}
	}
}
