// Package encoders maps the video encoding contract onto concrete H.264
// encoder elements.
//
// Every variant receives the same semantic settings from Semantics: constant
// bitrate, the configured bitrate, and a keyframe interval of twice the frame
// rate. Only the element name and property names differ between variants.
package encoders

import (
	"fmt"
	"strings"

	"github.com/smazurov/rtmpencoder/internal/engine"
)

// Variant selects the H.264 encoder implementation.
type Variant string

// Supported variants.
const (
	Software Variant = "software" // x264enc
	VAAPI    Variant = "vaapi"    // vaapih264enc
	V4L2     Variant = "v4l2"     // v4l2h264enc
)

// Variants lists all variants in preference order for hardware detection.
var Variants = []Variant{VAAPI, V4L2, Software}

// ParseVariant parses the VIDEO_ACCELERATION value. An empty value selects
// the software encoder.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SOFTWARE", "NONE":
		return Software, nil
	case "VAAPI":
		return VAAPI, nil
	case "V4L2":
		return V4L2, nil
	default:
		return "", fmt.Errorf("unknown video acceleration %q (want VAAPI or V4L2)", s)
	}
}

// RateControlMode represents the rate control strategy.
type RateControlMode string

// RateControlCBR is the only mode used for live delivery.
const RateControlCBR RateControlMode = "cbr"

// Settings are the variant-independent encoder settings.
type Settings struct {
	BitrateKbps      uint32
	KeyframeInterval uint32
	RateControl      RateControlMode
}

// Semantics derives the encoder settings for a bitrate and frame rate.
func Semantics(bitrateKbps, frameRate uint32) Settings {
	return Settings{
		BitrateKbps:      bitrateKbps,
		KeyframeInterval: frameRate * 2,
		RateControl:      RateControlCBR,
	}
}

// Encoder maps Settings onto one encoder element.
type Encoder interface {
	Variant() Variant
	// Element returns the engine node kind.
	Element() string
	// GetDescription returns a human-readable description.
	GetDescription() string
	// Configure returns the element properties for a bitrate and frame rate.
	Configure(bitrateKbps, frameRate uint32) []engine.Property
}

// For returns the encoder for a variant.
func For(v Variant) (Encoder, error) {
	enc := DefaultRegistry().Find(v)
	if enc == nil {
		return nil, fmt.Errorf("no encoder for variant %q", v)
	}
	return enc, nil
}
