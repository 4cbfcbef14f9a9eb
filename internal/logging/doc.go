// Package logging provides structured logging with per-module log levels.
//
// Records go to stdout (text or JSON) when stdout is connected, and to the
// systemd journal when journald is reachable; with both available a
// MultiHandler writes to each.
//
// Initialize once at startup, then fetch module loggers:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"pipeline": "debug"},
//	})
//
//	logger := logging.GetLogger("pipeline")
//	logger.Info("Pipeline playing", "pipeline", name)
//
// Loggers obtained before Initialize are cached and have their level
// updated in place.
//
// Journal entries carry SYSLOG_IDENTIFIER=rtmp-encoder and one upper-case
// field per attribute:
//
//	journalctl -t rtmp-encoder MODULE=pipeline -p err
package logging
