package engine

import "testing"

func TestCapsString(t *testing.T) {
	tests := []struct {
		name string
		caps Caps
		want string
	}{
		{
			name: "media only",
			caps: NewCaps(MediaH264),
			want: "video/x-h264",
		},
		{
			name: "raw video",
			caps: NewCaps(MediaRawVideo).
				With("width", 1280).
				With("height", uint32(720)).
				With("framerate", Fraction{Num: 30, Den: 1}).
				With("format", "NV12"),
			want: "video/x-raw,width=(int)1280,height=(int)720,framerate=(fraction)30/1,format=(string)NV12",
		},
		{
			name: "audio",
			caps: NewCaps(MediaMPEGAudio).With("rate", 48000).With("channels", 2),
			want: "audio/mpeg,rate=(int)48000,channels=(int)2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapsWithIsImmutable(t *testing.T) {
	base := NewCaps(MediaRawVideo).With("width", 640)
	a := base.With("height", 480)
	b := base.With("height", 360)

	if base.Len() != 1 {
		t.Fatalf("base caps modified, len = %d", base.Len())
	}
	if v, _ := a.Field("height"); v != 480 {
		t.Errorf("a height = %v, want 480", v)
	}
	if v, _ := b.Field("height"); v != 360 {
		t.Errorf("b height = %v, want 360", v)
	}
	if _, ok := base.Field("height"); ok {
		t.Error("base caps should not have height")
	}
}

func TestRunStateString(t *testing.T) {
	if got := StatePlaying.String(); got != "playing" {
		t.Errorf("StatePlaying = %q", got)
	}
	if got := RunState(42).String(); got != "RunState(42)" {
		t.Errorf("unknown state = %q", got)
	}
}
