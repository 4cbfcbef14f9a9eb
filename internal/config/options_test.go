package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/smazurov/rtmpencoder/internal/encoders"
)

func validOptions() *Options {
	return &Options{
		UserID:            "7",
		ChannelID:         "42",
		PlaybackServerURL: "https://play.example",
		RTMPURL:           "rtmp://ingest.example/live",
		RTMPStreamKey:     "abcd",
		AudioBitrate:      "128",
		AudioChannels:     "2",
		AudioSampleRate:   "44100",
		VideoWidth:        "1280",
		VideoHeight:       "720",
		VideoBitrate:      "2500",
		VideoFramerate:    "30",
		LoggingLevel:      "info",
		LoggingFormat:     "text",
		LoggingPipeline:   "info",
	}
}

func TestSettingsValid(t *testing.T) {
	o := validOptions()
	o.VideoProfile = "high"
	o.VideoAcceleration = "VAAPI"

	s, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}

	if s.UserID != 7 || s.ChannelID != 42 {
		t.Errorf("Unexpected ids %d/%d", s.UserID, s.ChannelID)
	}
	if s.Audio != (AudioSettings{BitrateKbps: 128, Channels: 2, SampleRate: 44100}) {
		t.Errorf("Unexpected audio settings %+v", s.Audio)
	}
	want := VideoSettings{
		Width: 1280, Height: 720, BitrateKbps: 2500, FrameRate: 30,
		Profile: "high", Acceleration: encoders.VAAPI,
	}
	if s.Video != want {
		t.Errorf("Expected %+v, got %+v", want, s.Video)
	}
	if s.Logging.Modules["pipeline"] != "info" {
		t.Errorf("Expected pipeline module level, got %v", s.Logging.Modules)
	}
}

func TestSettingsAcceleration(t *testing.T) {
	tests := []struct {
		value   string
		want    encoders.Variant
		wantErr bool
	}{
		{"", encoders.Software, false},
		{"VAAPI", encoders.VAAPI, false},
		{"V4L2", encoders.V4L2, false},
		{"vaapi", encoders.VAAPI, false},
		{"NVENC", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			o := validOptions()
			o.VideoAcceleration = tt.value

			s, err := o.Settings()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("Expected ErrInvalidValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Settings failed: %v", err)
			}
			if s.Video.Acceleration != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, s.Video.Acceleration)
			}
		})
	}
}

func TestSettingsMissingKeys(t *testing.T) {
	o := validOptions()
	o.UserID = ""
	o.RTMPStreamKey = "  "
	o.VideoFramerate = ""

	_, err := o.Settings()
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("Expected ErrMissingKey, got %v", err)
	}
	for _, key := range []string{"USER_ID", "RTMP_STREAM_KEY", "VIDEO_FRAMERATE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected error to mention %s, got: %v", key, err)
		}
	}
}

func TestSettingsInvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Options)
		key   string
	}{
		{"not a number", func(o *Options) { o.AudioBitrate = "128k" }, "AUDIO_BITRATE"},
		{"negative", func(o *Options) { o.ChannelID = "-1" }, "CHANNEL_ID"},
		{"overflow", func(o *Options) { o.VideoWidth = "4294967296" }, "VIDEO_WIDTH"},
		{"zero framerate", func(o *Options) { o.VideoFramerate = "0" }, "VIDEO_FRAMERATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.apply(o)

			_, err := o.Settings()
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("Expected ErrInvalidValue, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Expected error to mention %s, got: %v", tt.key, err)
			}
		})
	}
}

func TestSettingsFrameRateBound(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"1000", false},
		{"1001", true},
		{"4294967295", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			o := validOptions()
			o.VideoFramerate = tt.value
			_, err := o.Settings()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) || !strings.Contains(err.Error(), "VIDEO_FRAMERATE") {
					t.Fatalf("Expected VIDEO_FRAMERATE ErrInvalidValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Settings failed: %v", err)
			}
		})
	}
}

func TestSettingsZeroUserIDAllowed(t *testing.T) {
	o := validOptions()
	o.UserID = "0"
	s, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.UserID != 0 {
		t.Errorf("Expected user id 0, got %d", s.UserID)
	}
}

func TestSettingsTrimsTrailingSlash(t *testing.T) {
	o := validOptions()
	o.PlaybackServerURL = "https://play.example/"
	o.RTMPURL = "rtmp://ingest.example/live/"

	s, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.PlaybackServerURL != "https://play.example" || s.RTMPURL != "rtmp://ingest.example/live" {
		t.Errorf("Trailing slashes not trimmed: %q %q", s.PlaybackServerURL, s.RTMPURL)
	}
}

func TestSettingsInvalidLogging(t *testing.T) {
	o := validOptions()
	o.LoggingPipeline = "chatty"

	if _, err := o.Settings(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Expected ErrInvalidValue, got %v", err)
	}
}

func TestLoadOptionsFromEnvironment(t *testing.T) {
	env := map[string]string{
		"USER_ID":             "7",
		"CHANNEL_ID":          "42",
		"PLAYBACK_SERVER_URL": "https://play.example",
		"RTMP_URL":            "rtmp://ingest.example/live",
		"RTMP_STREAM_KEY":     "abcd",
		"AUDIO_BITRATE":       "128",
		"AUDIO_CHANNELS":      "2",
		"AUDIO_SAMPLE_RATE":   "48000",
		"VIDEO_WIDTH":         "1920",
		"VIDEO_HEIGHT":        "1080",
		"VIDEO_BITRATE":       "4500",
		"VIDEO_FRAMERATE":     "60",
		"VIDEO_ACCELERATION":  "V4L2",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	o := &Options{LoggingLevel: "info", LoggingFormat: "text", LoggingPipeline: "info"}
	if err := LoadConfig(o, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	s, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.Video.FrameRate != 60 || s.Video.Acceleration != encoders.V4L2 || s.Audio.SampleRate != 48000 {
		t.Errorf("Unexpected settings %+v", s)
	}
}

func TestLoadOptionsFromTOML(t *testing.T) {
	path := writeTOML(t, `
[channel]
user_id = 7
channel_id = 42
playback_server_url = "https://play.example"

[rtmp]
url = "rtmp://ingest.example/live"
stream_key = "abcd"

[audio]
bitrate = 128
channels = 2
sample_rate = 44100

[video]
width = 1280
height = 720
bitrate = 2500
framerate = 30
profile = "main"

[logging]
pipeline = "debug"
`)

	o := &Options{Config: path, LoggingLevel: "info", LoggingFormat: "text", LoggingPipeline: "info"}
	if err := LoadConfig(o, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	s, err := o.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.ChannelID != 42 || s.Video.Profile != "main" || s.Video.Acceleration != encoders.Software {
		t.Errorf("Unexpected settings %+v", s)
	}
	if s.Logging.Modules["pipeline"] != "debug" {
		t.Errorf("Expected pipeline debug, got %q", s.Logging.Modules["pipeline"])
	}
}
