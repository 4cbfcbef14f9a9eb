package pipeline

import (
	"fmt"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// AudioParams configures the audio encoder chain.
type AudioParams struct {
	BitrateKbps uint32
	Channels    uint32
	SampleRate  uint32
}

// AudioEncoderChain exposes the boundary nodes of the audio encoder chain.
type AudioEncoderChain struct {
	Ingress engine.Node
	Egress  engine.Node
}

// BuildAudioEncoder builds
//
//	queue ! audioconvert ! fdkaacenc ! aacparse ! audio/mpeg,rate=...,channels=... ! queue
//
// adds it to g and links it.
func (f *Factory) BuildAudioEncoder(g engine.Graph, p AudioParams) (*AudioEncoderChain, error) {
	caps := engine.NewCaps(engine.MediaMPEGAudio).
		With("rate", p.SampleRate).
		With("channels", p.Channels)

	nodes, err := f.newNodes(
		element("queue"),
		element("audioconvert"),
		// fdkaacenc takes bit/s.
		element("fdkaacenc", engine.Prop("peak-bitrate", int(p.BitrateKbps)*1000)),
		element("aacparse"),
		capsFilter(caps),
		element("queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("audio encoder: %w", err)
	}
	if err := addAndLink(g, nodes...); err != nil {
		return nil, fmt.Errorf("audio encoder: %w", err)
	}

	f.logger.Debug("Built audio encoder chain",
		"bitrate_kbps", p.BitrateKbps,
		"channels", p.Channels,
		"sample_rate", p.SampleRate)

	return &AudioEncoderChain{Ingress: nodes[0], Egress: nodes[len(nodes)-1]}, nil
}
