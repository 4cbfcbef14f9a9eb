// Package enginetest provides an in-memory engine for testing pipeline
// construction without GStreamer.
//
// The fake enforces the same construction invariants as the real engine:
// nodes must be added to a graph before they are linked, a port links at
// most once, and a graph only reaches Playing when every port is linked.
package enginetest

import (
	"fmt"
	"sync"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// portSpec describes the ports a node kind exposes.
type portSpec struct {
	src       bool
	sink      bool
	templates []string
}

var kindPorts = map[string]portSpec{
	"souphttpsrc":   {src: true},
	"wpesrc":        {src: true},
	"videotestsrc":  {src: true},
	"audiotestsrc":  {src: true},
	"rtmp2sink":     {sink: true},
	"fakesink":      {sink: true},
	"flvmux":        {src: true, templates: []string{"video", "audio"}},
	"audiomixer":    {src: true, sink: true},
	"compositor":    {src: true, sink: true},
	"default-inout": {src: true, sink: true},
}

func portsFor(kind string) portSpec {
	if spec, ok := kindPorts[kind]; ok {
		return spec
	}
	return kindPorts["default-inout"]
}

// Engine is an in-memory engine.Engine.
type Engine struct {
	mu          sync.Mutex
	unavailable map[string]bool
	counters    map[string]int
	Graphs      []*Graph

	// Script is queued on the bus of every graph created afterwards.
	Script []engine.ControlEvent
	// FailPlaying is copied to every graph created afterwards.
	FailPlaying bool
}

// New returns an engine where every node kind is available.
func New() *Engine {
	return &Engine{
		unavailable: make(map[string]bool),
		counters:    make(map[string]int),
	}
}

// Remove makes the given node kinds unavailable.
func (e *Engine) Remove(kinds ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range kinds {
		e.unavailable[k] = true
	}
}

// NewGraph implements engine.Engine.
func (e *Engine) NewGraph(name string) (engine.Graph, error) {
	g := &Graph{
		name:  name,
		nodes: make(map[*Node]bool),
		bus:   NewBus(),
	}
	e.mu.Lock()
	g.FailPlaying = e.FailPlaying
	for _, ev := range e.Script {
		g.bus.Post(ev)
	}
	e.Graphs = append(e.Graphs, g)
	e.mu.Unlock()
	return g, nil
}

// HasNode implements engine.Engine.
func (e *Engine) HasNode(kind string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.unavailable[kind]
}

// NewNode implements engine.Engine.
func (e *Engine) NewNode(kind string) (engine.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unavailable[kind] {
		return nil, fmt.Errorf("%w: %s", engine.ErrNodeUnavailable, kind)
	}
	name := fmt.Sprintf("%s%d", kind, e.counters[kind])
	e.counters[kind]++

	n := &Node{
		name:  name,
		kind:  kind,
		spec:  portsFor(kind),
		props: make(map[string]any),
		ports: make(map[string]*Port),
	}
	if n.spec.src {
		n.ports["src"] = &Port{name: "src", node: n, source: true}
	}
	if n.spec.sink {
		n.ports["sink"] = &Port{name: "sink", node: n}
	}
	return n, nil
}
