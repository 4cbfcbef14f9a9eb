package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// ErrPortAlreadyRequested is returned when a muxer port is requested twice
// for the same media kind.
var ErrPortAlreadyRequested = errors.New("port already requested")

// MediaKind tags a muxer input port.
type MediaKind string

// Media kinds accepted by the muxer.
const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// muxLatency tolerates jitter between the video and audio branches.
const muxLatency = time.Second

// OutputChain is flvmux ! rtmp2sink with one requested input port per media kind.
type OutputChain struct {
	mux       engine.Node
	requested map[MediaKind]engine.Port

	VideoPort engine.Port
	AudioPort engine.Port
}

// BuildOutput builds the muxer and publish sink for rtmpURL/streamKey and
// requests the video and audio ports.
func (f *Factory) BuildOutput(g engine.Graph, rtmpURL, streamKey string) (*OutputChain, error) {
	location := PublishAddress(rtmpURL, streamKey)
	nodes, err := f.newNodes(
		element("flvmux",
			engine.Prop("streamable", true),
			engine.Prop("latency", uint64(muxLatency.Nanoseconds()))),
		element("rtmp2sink", engine.Prop("location", location)),
	)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if err := addAndLink(g, nodes...); err != nil {
		return nil, fmt.Errorf("output: unable to link flvmux to rtmp2sink: %w", err)
	}

	out := &OutputChain{
		mux:       nodes[0],
		requested: make(map[MediaKind]engine.Port, 2),
	}
	if out.VideoPort, err = out.RequestPort(MediaVideo); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if out.AudioPort, err = out.RequestPort(MediaAudio); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	// The stream key is a credential; only the application URL is logged.
	f.logger.Debug("Built output chain", "rtmp_url", rtmpURL)
	return out, nil
}

// RequestPort allocates the muxer input port for kind. Each kind can be
// requested once per chain.
func (o *OutputChain) RequestPort(kind MediaKind) (engine.Port, error) {
	if _, ok := o.requested[kind]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPortAlreadyRequested, kind)
	}
	port, err := o.mux.RequestPort(string(kind))
	if err != nil {
		return nil, fmt.Errorf("unable to get flv %s port: %w", kind, err)
	}
	o.requested[kind] = port
	return port, nil
}
