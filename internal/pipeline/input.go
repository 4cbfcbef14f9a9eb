package pipeline

import (
	"fmt"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// BuildAudioInput builds souphttpsrc ! mpegaudioparse ! mpg123audiodec and
// returns the decoder. Fetch failures are reported on the bus once playing.
func (f *Factory) BuildAudioInput(g engine.Graph, url string) (engine.Node, error) {
	nodes, err := f.newNodes(
		element("souphttpsrc", engine.Prop("location", url)),
		element("mpegaudioparse"),
		element("mpg123audiodec"),
	)
	if err != nil {
		return nil, fmt.Errorf("audio input: %w", err)
	}
	if err := addAndLink(g, nodes...); err != nil {
		return nil, fmt.Errorf("audio input: %w", err)
	}
	f.logger.Debug("Built audio input chain", "location", url)
	return nodes[len(nodes)-1], nil
}

// BuildVideoInput builds a wpesrc rendering the document at dataURI.
func (f *Factory) BuildVideoInput(g engine.Graph, dataURI string) (engine.Node, error) {
	src, err := f.NewNode("wpesrc", engine.Prop("location", dataURI))
	if err != nil {
		return nil, fmt.Errorf("video input: %w", err)
	}
	if err := g.Add(src); err != nil {
		return nil, fmt.Errorf("video input: unable to add element to pipeline: %w", err)
	}
	f.logger.Debug("Built video input chain", "uri_bytes", len(dataURI))
	return src, nil
}
