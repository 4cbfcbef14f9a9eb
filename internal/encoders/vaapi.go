package encoders

import "github.com/smazurov/rtmpencoder/internal/engine"

// VaapiEncoder configures the vaapih264enc encoder.
type VaapiEncoder struct{}

// NewVaapiEncoder creates a new VAAPI encoder mapping.
func NewVaapiEncoder() *VaapiEncoder {
	return &VaapiEncoder{}
}

// Variant returns VAAPI.
func (e *VaapiEncoder) Variant() Variant { return VAAPI }

// Element returns the vaapih264enc element name.
func (e *VaapiEncoder) Element() string { return "vaapih264enc" }

// GetDescription returns a description of this encoder.
func (e *VaapiEncoder) GetDescription() string {
	return "VAAPI - Hardware acceleration on Intel/AMD GPUs"
}

// Configure returns vaapih264enc properties. bitrate is in kbit/s.
func (e *VaapiEncoder) Configure(bitrateKbps, frameRate uint32) []engine.Property {
	s := Semantics(bitrateKbps, frameRate)
	return []engine.Property{
		engine.Prop("keyframe-period", uint(s.KeyframeInterval)),
		engine.Prop("bitrate", uint(s.BitrateKbps)),
		engine.PropString("rate-control", string(s.RateControl)),
	}
}
