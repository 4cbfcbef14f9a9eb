package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// Factory creates nodes through an engine and counts what it created.
type Factory struct {
	engine  engine.Engine
	logger  *slog.Logger
	created int
}

// NewFactory creates a node factory.
func NewFactory(eng engine.Engine, logger *slog.Logger) *Factory {
	return &Factory{engine: eng, logger: logger}
}

// NewNode creates a node of the given kind and applies props in order.
// An unavailable kind is a deployment defect and is returned as an error
// wrapping engine.ErrNodeUnavailable.
func (f *Factory) NewNode(kind string, props ...engine.Property) (engine.Node, error) {
	node, err := f.engine.NewNode(kind)
	if err != nil {
		return nil, fmt.Errorf("unable to make %s element: %w", kind, err)
	}
	if err := engine.Apply(node, props...); err != nil {
		return nil, err
	}
	f.created++
	f.logger.Debug("Created node", "kind", kind, "name", node.Name(), "properties", len(props))
	return node, nil
}

// NewCapsFilter creates a capsfilter bound to caps.
func (f *Factory) NewCapsFilter(caps engine.Caps) (engine.Node, error) {
	return f.NewNode("capsfilter", engine.Prop("caps", caps))
}

// Created returns the number of nodes created so far.
func (f *Factory) Created() int {
	return f.created
}

// addAndLink adds nodes to the graph and links them as one unbranched sequence.
func addAndLink(g engine.Graph, nodes ...engine.Node) error {
	if err := g.Add(nodes...); err != nil {
		return fmt.Errorf("unable to add elements to pipeline: %w", err)
	}
	if err := g.Link(nodes...); err != nil {
		return fmt.Errorf("unable to link elements: %w", err)
	}
	return nil
}

// newNodes creates one node per spec, stopping at the first failure.
func (f *Factory) newNodes(specs ...nodeSpec) ([]engine.Node, error) {
	nodes := make([]engine.Node, 0, len(specs))
	for _, s := range specs {
		var (
			n   engine.Node
			err error
		)
		if s.caps != nil {
			n, err = f.NewCapsFilter(*s.caps)
		} else {
			n, err = f.NewNode(s.kind, s.props...)
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

type nodeSpec struct {
	kind  string
	props []engine.Property
	caps  *engine.Caps
}

func element(kind string, props ...engine.Property) nodeSpec {
	return nodeSpec{kind: kind, props: props}
}

func capsFilter(caps engine.Caps) nodeSpec {
	return nodeSpec{kind: "capsfilter", caps: &caps}
}
