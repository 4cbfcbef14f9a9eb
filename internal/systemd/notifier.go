// Package systemd reports pipeline readiness to the service manager.
package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/smazurov/rtmpencoder/internal/events"
	"github.com/smazurov/rtmpencoder/internal/logging"
)

// NotifyFunc sends a notification state string, e.g. "READY=1".
// It reports false when no service manager is listening.
type NotifyFunc func(state string) (bool, error)

// Notifier translates lifecycle events into sd_notify messages.
// Without NOTIFY_SOCKET every call is a no-op.
type Notifier struct {
	notify NotifyFunc
	logger logging.Logger
}

// NewNotifier creates a notifier that talks to $NOTIFY_SOCKET.
func NewNotifier(logger logging.Logger) *Notifier {
	return NewNotifierWith(func(state string) (bool, error) {
		return daemon.SdNotify(false, state)
	}, logger)
}

// NewNotifierWith creates a notifier with a custom send function.
func NewNotifierWith(notify NotifyFunc, logger logging.Logger) *Notifier {
	return &Notifier{notify: notify, logger: logger}
}

// Subscribe reacts to lifecycle events on bus until the returned function
// is called. That function sends STOPPING=1 before it returns.
func (n *Notifier) Subscribe(bus *events.Bus) func() {
	unsubBuilt := bus.Subscribe(func(e events.PipelineBuiltEvent) {
		n.send(fmt.Sprintf("STATUS=Pipeline built with %d nodes", e.Nodes))
	})
	unsubState := bus.Subscribe(func(e events.PipelineStateChangedEvent) {
		n.stateChanged(e.To)
	})
	return func() {
		unsubBuilt()
		unsubState()
		n.Stopping()
	}
}

// Stopping reports that the service is shutting down.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping + "\nSTATUS=Stopping")
}

func (n *Notifier) stateChanged(to string) {
	switch to {
	case "playing":
		n.send(daemon.SdNotifyReady + "\nSTATUS=Streaming")
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(state)
	switch {
	case err != nil:
		n.logger.Warn("Failed to notify systemd", "state", state, "error", err)
	case sent:
		n.logger.Debug("Notified systemd", "state", state)
	}
}
