package encoders

import (
	"fmt"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// v4l2 MPEG video bitrate mode control value for constant bitrate.
const v4l2BitrateModeCBR = 1

// V4L2Encoder configures the v4l2h264enc stateful M2M encoder.
// V4L2 encoders take their parameters as driver controls packed into the
// extra-controls structure rather than as element properties.
type V4L2Encoder struct{}

// NewV4L2Encoder creates a new V4L2 encoder mapping.
func NewV4L2Encoder() *V4L2Encoder {
	return &V4L2Encoder{}
}

// Variant returns V4L2.
func (e *V4L2Encoder) Variant() Variant { return V4L2 }

// Element returns the v4l2h264enc element name.
func (e *V4L2Encoder) Element() string { return "v4l2h264enc" }

// GetDescription returns a description of this encoder.
func (e *V4L2Encoder) GetDescription() string {
	return "V4L2 Memory-to-Memory - Hardware acceleration on ARM/embedded devices"
}

// Configure returns the extra-controls structure. The driver control takes
// the bitrate in bit/s.
func (e *V4L2Encoder) Configure(bitrateKbps, frameRate uint32) []engine.Property {
	s := Semantics(bitrateKbps, frameRate)
	controls := fmt.Sprintf("controls,video_bitrate=%d,video_gop_size=%d,video_bitrate_mode=%d",
		uint64(s.BitrateKbps)*1000, s.KeyframeInterval, v4l2BitrateModeCBR)
	return []engine.Property{
		engine.PropString("extra-controls", controls),
	}
}
