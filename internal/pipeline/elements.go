package pipeline

import (
	"github.com/smazurov/rtmpencoder/internal/encoders"
)

// commonElements are the node kinds every graph uses regardless of encoder.
var commonElements = []string{
	"wpesrc",
	"clockoverlay",
	"queue",
	"videoconvert",
	"capsfilter",
	"h264parse",
	"souphttpsrc",
	"mpegaudioparse",
	"mpg123audiodec",
	"audiomixer",
	"audioconvert",
	"fdkaacenc",
	"aacparse",
	"flvmux",
	"rtmp2sink",
}

// RequiredElements lists every node kind Build creates for the variant.
func RequiredElements(v encoders.Variant) ([]string, error) {
	enc, err := encoders.For(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(commonElements)+1)
	out = append(out, commonElements...)
	return append(out, enc.Element()), nil
}

// MissingElements returns the required kinds the engine cannot create.
func MissingElements(eng encoders.HasNoder, v encoders.Variant) ([]string, error) {
	required, err := RequiredElements(v)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, kind := range required {
		if !eng.HasNode(kind) {
			missing = append(missing, kind)
		}
	}
	return missing, nil
}
