package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smazurov/rtmpencoder/internal/encoders"
	"github.com/smazurov/rtmpencoder/internal/logging"
)

// MaxFrameRate bounds VIDEO_FRAMERATE so the keyframe interval (twice the
// frame rate) fits the encoders' unsigned 32-bit properties.
const MaxFrameRate = 1000

var (
	// ErrMissingKey is returned for a required key with no value.
	ErrMissingKey = errors.New("missing required key")
	// ErrInvalidValue is returned for a value that cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
)

// Options for the CLI - flat structure with toml and env mapping.
// Numeric keys are kept as strings so a missing key can be told apart
// from zero; Settings parses and validates them.
type Options struct {
	Config string `help:"Path to TOML configuration file" short:"c"`

	// Channel settings
	UserID            string `name:"user-id" help:"User owning the channel" toml:"channel.user_id" env:"USER_ID"`
	ChannelID         string `name:"channel-id" help:"Channel whose audio is streamed" toml:"channel.channel_id" env:"CHANNEL_ID"`
	PlaybackServerURL string `name:"playback-server-url" help:"Base URL of the playback server" toml:"channel.playback_server_url" env:"PLAYBACK_SERVER_URL"`

	// Publish settings
	RTMPURL       string `name:"rtmp-url" help:"RTMP application URL" toml:"rtmp.url" env:"RTMP_URL"`
	RTMPStreamKey string `name:"rtmp-stream-key" help:"RTMP stream key" toml:"rtmp.stream_key" env:"RTMP_STREAM_KEY"`

	// Audio settings
	AudioBitrate    string `help:"AAC bitrate in kbit/s" toml:"audio.bitrate" env:"AUDIO_BITRATE"`
	AudioChannels   string `help:"Output channel count" toml:"audio.channels" env:"AUDIO_CHANNELS"`
	AudioSampleRate string `help:"Output sample rate in Hz" toml:"audio.sample_rate" env:"AUDIO_SAMPLE_RATE"`

	// Video settings
	VideoWidth        string `help:"Frame width in pixels" toml:"video.width" env:"VIDEO_WIDTH"`
	VideoHeight       string `help:"Frame height in pixels" toml:"video.height" env:"VIDEO_HEIGHT"`
	VideoBitrate      string `help:"H.264 bitrate in kbit/s" toml:"video.bitrate" env:"VIDEO_BITRATE"`
	VideoFramerate    string `help:"Frames per second" toml:"video.framerate" env:"VIDEO_FRAMERATE"`
	VideoProfile      string `help:"H.264 profile constraint, e.g. high" toml:"video.profile" env:"VIDEO_PROFILE"`
	VideoLevel        string `help:"H.264 level (accepted, not applied)" toml:"video.level" env:"VIDEO_LEVEL"`
	VideoAcceleration string `help:"Hardware encoder: VAAPI or V4L2; software when empty" toml:"video.acceleration" env:"VIDEO_ACCELERATION"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingPipeline string `help:"Pipeline logging level" default:"info" toml:"logging.pipeline" env:"LOGGING_PIPELINE"`

	// Metrics settings
	MetricsAddr string `help:"Listen address for /metrics; disabled when empty" toml:"metrics.addr" env:"METRICS_ADDR"`
}

// AudioSettings are the validated audio output parameters.
type AudioSettings struct {
	BitrateKbps uint32
	Channels    uint32
	SampleRate  uint32
}

// VideoSettings are the validated video output parameters.
type VideoSettings struct {
	Width        uint32
	Height       uint32
	BitrateKbps  uint32
	FrameRate    uint32
	Profile      string
	Level        string
	Acceleration encoders.Variant
}

// Settings is the validated, typed configuration.
type Settings struct {
	UserID            uint32
	ChannelID         uint32
	PlaybackServerURL string
	RTMPURL           string
	RTMPStreamKey     string
	Audio             AudioSettings
	Video             VideoSettings
	Logging           logging.Config
	MetricsAddr       string
}

// LoggingConfig returns the logging configuration. It never fails so
// logging can be set up before the rest of the options are validated.
func (o *Options) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"pipeline": o.LoggingPipeline,
		},
	}
}

// Settings parses and validates the options. Every problem is reported;
// the errors are joined.
func (o *Options) Settings() (*Settings, error) {
	p := &parser{}

	s := &Settings{
		UserID:            p.uint32("USER_ID", o.UserID, false),
		ChannelID:         p.uint32("CHANNEL_ID", o.ChannelID, false),
		PlaybackServerURL: p.url("PLAYBACK_SERVER_URL", o.PlaybackServerURL),
		RTMPURL:           p.url("RTMP_URL", o.RTMPURL),
		RTMPStreamKey:     p.required("RTMP_STREAM_KEY", o.RTMPStreamKey),
		Audio: AudioSettings{
			BitrateKbps: p.uint32("AUDIO_BITRATE", o.AudioBitrate, true),
			Channels:    p.uint32("AUDIO_CHANNELS", o.AudioChannels, true),
			SampleRate:  p.uint32("AUDIO_SAMPLE_RATE", o.AudioSampleRate, true),
		},
		Video: VideoSettings{
			Width:       p.uint32("VIDEO_WIDTH", o.VideoWidth, true),
			Height:      p.uint32("VIDEO_HEIGHT", o.VideoHeight, true),
			BitrateKbps: p.uint32("VIDEO_BITRATE", o.VideoBitrate, true),
			FrameRate:   p.uint32("VIDEO_FRAMERATE", o.VideoFramerate, true),
			Profile:     o.VideoProfile,
			Level:       o.VideoLevel,
		},
		Logging:     o.LoggingConfig(),
		MetricsAddr: o.MetricsAddr,
	}

	if s.Video.FrameRate > MaxFrameRate {
		p.fail(fmt.Errorf("%w: VIDEO_FRAMERATE must be at most %d", ErrInvalidValue, MaxFrameRate))
	}

	variant, err := encoders.ParseVariant(o.VideoAcceleration)
	if err != nil {
		p.fail(fmt.Errorf("%w: VIDEO_ACCELERATION: %w", ErrInvalidValue, err))
	}
	s.Video.Acceleration = variant

	if err := s.Logging.Validate(); err != nil {
		p.fail(fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return s, nil
}

type parser struct {
	errs []error
}

func (p *parser) fail(err error) {
	p.errs = append(p.errs, err)
}

func (p *parser) required(key, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		p.fail(fmt.Errorf("%w: %s", ErrMissingKey, key))
	}
	return value
}

// url checks presence and strips trailing slashes so derived addresses
// never contain "//".
func (p *parser) url(key, value string) string {
	return strings.TrimRight(p.required(key, value), "/")
}

func (p *parser) uint32(key, value string, positive bool) uint32 {
	value = p.required(key, value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		p.fail(fmt.Errorf("%w: %s=%q is not an unsigned 32-bit integer", ErrInvalidValue, key, value))
		return 0
	}
	if positive && n == 0 {
		p.fail(fmt.Errorf("%w: %s must be greater than zero", ErrInvalidValue, key))
	}
	return uint32(n)
}
