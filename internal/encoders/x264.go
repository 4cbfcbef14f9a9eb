package encoders

import "github.com/smazurov/rtmpencoder/internal/engine"

// X264Encoder configures the x264enc software encoder.
type X264Encoder struct{}

// NewX264Encoder creates a new software encoder mapping.
func NewX264Encoder() *X264Encoder {
	return &X264Encoder{}
}

// Variant returns Software.
func (e *X264Encoder) Variant() Variant { return Software }

// Element returns the x264enc element name.
func (e *X264Encoder) Element() string { return "x264enc" }

// GetDescription returns a description of this encoder.
func (e *X264Encoder) GetDescription() string {
	return "x264 - Software H.264 encoding, available everywhere"
}

// Configure returns x264enc properties. bitrate is in kbit/s.
func (e *X264Encoder) Configure(bitrateKbps, frameRate uint32) []engine.Property {
	s := Semantics(bitrateKbps, frameRate)
	return []engine.Property{
		engine.Prop("key-int-max", uint(s.KeyframeInterval)),
		engine.Prop("bitrate", uint(s.BitrateKbps)),
		engine.PropString("pass", string(s.RateControl)),
	}
}
