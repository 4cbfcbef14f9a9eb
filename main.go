package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/rtmpencoder/cmd"
	"github.com/smazurov/rtmpencoder/internal/config"
	"github.com/smazurov/rtmpencoder/internal/engine"
	"github.com/smazurov/rtmpencoder/internal/engine/gstengine"
	"github.com/smazurov/rtmpencoder/internal/events"
	"github.com/smazurov/rtmpencoder/internal/logging"
	"github.com/smazurov/rtmpencoder/internal/metrics"
	"github.com/smazurov/rtmpencoder/internal/metrics/exporters"
	"github.com/smazurov/rtmpencoder/internal/overlay"
	"github.com/smazurov/rtmpencoder/internal/pipeline"
	"github.com/smazurov/rtmpencoder/internal/systemd"
	"github.com/smazurov/rtmpencoder/internal/version"
)

// Process exit codes.
const (
	exitEndOfStream  = 0
	exitRuntimeError = 1
	exitStartupError = 2
)

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *config.Options) {
		// Problems are reported by OnStart so subcommands still run.
		loadErr := config.LoadConfig(opts, cli.Root())

		logging.Initialize(opts.LoggingConfig())
		logger := logging.GetLogger("main")

		hooks.OnStart(func() {
			os.Exit(run(opts, loadErr, logger))
		})
	})

	cli.Root().Use = "rtmp-encoder"
	cli.Root().Short = "Render an overlay page, mix channel audio and publish to RTMP"
	cli.Root().Version = version.Get().String()

	cli.Root().AddCommand(cmd.CreateValidateCmd(openEngine))

	cli.Run()
}

func openEngine() (engine.Engine, error) {
	return gstengine.New(), nil
}

func run(opts *config.Options, loadErr error, logger *slog.Logger) int {
	logger.Info("Starting rtmp-encoder", version.Get().LogAttrs()...)

	if loadErr != nil {
		logger.Error("Failed to load configuration", "error", loadErr)
		return exitStartupError
	}
	settings, err := opts.Settings()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return exitStartupError
	}

	eventBus := events.New()
	defer metrics.Subscribe(eventBus)()
	defer systemd.NewNotifier(logging.GetLogger("systemd")).Subscribe(eventBus)()

	if settings.MetricsAddr != "" {
		server := exporters.NewServer(settings.MetricsAddr, logging.GetLogger("metrics"))
		server.Handle("/overlay", overlay.Handler())
		if startErr := server.Start(); startErr != nil {
			logger.Error("Failed to start metrics server", "error", startErr)
			return exitStartupError
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if stopErr := server.Shutdown(ctx); stopErr != nil {
				logger.Warn("Error stopping metrics server", "error", stopErr)
			}
		}()
	}

	eng, err := openEngine()
	if err != nil {
		logger.Error("Failed to initialize media engine", "error", err)
		return exitStartupError
	}

	controller := pipeline.NewController(eng, pipelineConfig(settings),
		pipeline.WithLogger(logging.GetLogger("pipeline")),
		pipeline.WithEvents(eventBus))

	term, err := controller.Run()
	if err != nil {
		logger.Error("Failed to start pipeline", "error", err)
		return exitStartupError
	}
	if runErr := term.Err(); runErr != nil {
		logger.Error("Pipeline terminated", "reason", term.Reason, "error", runErr)
	} else {
		logger.Info("Pipeline terminated", "reason", term.Reason)
	}
	return exitCode(term)
}

func exitCode(term pipeline.Termination) int {
	if errors.Is(term.Err(), pipeline.ErrRuntime) {
		return exitRuntimeError
	}
	return exitEndOfStream
}

func pipelineConfig(s *config.Settings) pipeline.Config {
	return pipeline.Config{
		AudioURL:   pipeline.AudioSourceAddress(s.PlaybackServerURL, s.UserID, s.ChannelID),
		OverlayURI: overlay.DataURI(),
		RTMPURL:    s.RTMPURL,
		StreamKey:  s.RTMPStreamKey,
		Video: pipeline.VideoParams{
			Width:       s.Video.Width,
			Height:      s.Video.Height,
			BitrateKbps: s.Video.BitrateKbps,
			FrameRate:   s.Video.FrameRate,
			Profile:     s.Video.Profile,
			Level:       s.Video.Level,
			Variant:     s.Video.Acceleration,
		},
		Audio: pipeline.AudioParams{
			BitrateKbps: s.Audio.BitrateKbps,
			Channels:    s.Audio.Channels,
			SampleRate:  s.Audio.SampleRate,
		},
	}
}
