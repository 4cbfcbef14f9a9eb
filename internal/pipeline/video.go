package pipeline

import (
	"fmt"

	"github.com/smazurov/rtmpencoder/internal/encoders"
	"github.com/smazurov/rtmpencoder/internal/engine"
)

// rawVideoFormat is the planar 4:2:0 layout fed to every encoder variant.
const rawVideoFormat = "NV12"

// VideoParams configures the video encoder chain.
type VideoParams struct {
	Width       uint32
	Height      uint32
	BitrateKbps uint32
	FrameRate   uint32
	Profile     string // empty leaves the profile to the encoder
	Level       string // accepted but not applied
	Variant     encoders.Variant
}

// VideoEncoderChain exposes the boundary nodes of the video encoder chain.
type VideoEncoderChain struct {
	Ingress engine.Node
	Egress  engine.Node
}

// BuildVideoEncoder builds
//
//	queue ! videoconvert ! video/x-raw,... ! <encoder> ! h264parse [! video/x-h264,profile=...] ! queue
//
// adds it to g and links it.
func (f *Factory) BuildVideoEncoder(g engine.Graph, p VideoParams) (*VideoEncoderChain, error) {
	enc, err := encoders.For(p.Variant)
	if err != nil {
		return nil, err
	}
	if p.Level != "" {
		f.logger.Warn("Video level is configured but not applied to the encoder caps", "video_level", p.Level)
	}

	rawCaps := engine.NewCaps(engine.MediaRawVideo).
		With("width", p.Width).
		With("height", p.Height).
		With("framerate", engine.Fraction{Num: int(p.FrameRate), Den: 1}).
		With("format", rawVideoFormat)

	specs := []nodeSpec{
		element("queue"),
		element("videoconvert"),
		capsFilter(rawCaps),
		element(enc.Element(), enc.Configure(p.BitrateKbps, p.FrameRate)...),
		element("h264parse"),
	}
	if p.Profile != "" {
		specs = append(specs, capsFilter(engine.NewCaps(engine.MediaH264).With("profile", p.Profile)))
	}
	specs = append(specs, element("queue"))

	nodes, err := f.newNodes(specs...)
	if err != nil {
		return nil, fmt.Errorf("video encoder: %w", err)
	}
	if err := addAndLink(g, nodes...); err != nil {
		return nil, fmt.Errorf("video encoder: %w", err)
	}

	f.logger.Debug("Built video encoder chain",
		"encoder", enc.Element(),
		"width", p.Width,
		"height", p.Height,
		"framerate", p.FrameRate,
		"bitrate_kbps", p.BitrateKbps,
		"profile", p.Profile,
		"nodes", len(nodes))

	return &VideoEncoderChain{Ingress: nodes[0], Egress: nodes[len(nodes)-1]}, nil
}
