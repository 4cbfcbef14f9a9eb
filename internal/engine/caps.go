package engine

import (
	"fmt"
	"strings"
)

// Media types used by the pipeline.
const (
	MediaRawVideo  = "video/x-raw"
	MediaH264      = "video/x-h264"
	MediaRawAudio  = "audio/x-raw"
	MediaMPEGAudio = "audio/mpeg"
)

// Fraction is a rational field value such as a frame rate.
type Fraction struct {
	Num, Den int
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

type capsField struct {
	name  string
	value any
}

// Caps is an immutable media capability set: a media type plus ordered fields.
// The zero value is not valid; use NewCaps.
type Caps struct {
	media  string
	fields []capsField
}

// NewCaps returns caps for the given media type with no fields.
func NewCaps(media string) Caps {
	return Caps{media: media}
}

// With returns a copy of c with the field appended. Supported values are
// int, uint32, string and Fraction.
func (c Caps) With(name string, value any) Caps {
	fields := make([]capsField, len(c.fields), len(c.fields)+1)
	copy(fields, c.fields)
	fields = append(fields, capsField{name: name, value: value})
	return Caps{media: c.media, fields: fields}
}

// Media returns the media type.
func (c Caps) Media() string {
	return c.media
}

// Field returns the value of a field and whether it is present.
func (c Caps) Field(name string) (any, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

// Len returns the number of fields.
func (c Caps) Len() int {
	return len(c.fields)
}

// String renders c in GStreamer caps syntax, e.g.
// video/x-raw,width=(int)1280,framerate=(fraction)30/1.
func (c Caps) String() string {
	var b strings.Builder
	b.WriteString(c.media)
	for _, f := range c.fields {
		b.WriteString(",")
		b.WriteString(f.name)
		b.WriteString("=")
		switch v := f.value.(type) {
		case int:
			fmt.Fprintf(&b, "(int)%d", v)
		case uint32:
			fmt.Fprintf(&b, "(int)%d", v)
		case Fraction:
			b.WriteString("(fraction)" + v.String())
		case string:
			b.WriteString("(string)" + v)
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return b.String()
}
