// Package metrics provides Prometheus metrics for the encoder pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smazurov/rtmpencoder/internal/events"
)

const namespace = "rtmp_encoder"

// States exported by the state gauge.
var pipelineStates = []string{"constructing", "playing", "terminating", "stopped"}

var (
	pipelineState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "state",
		Help:      "1 for the current pipeline lifecycle state, 0 otherwise",
	}, []string{"state"})

	busMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "bus_messages_total",
		Help:      "Control bus messages popped, by kind",
	}, []string{"kind"})

	buildDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "build_duration_seconds",
		Help:      "Time spent constructing and linking the graph",
	})

	pipelineNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "nodes",
		Help:      "Number of nodes in the graph",
	})

	terminations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "terminations_total",
		Help:      "Pipeline terminations, by reason",
	}, []string{"reason"})
)

// SetPipelineState marks state as current.
func SetPipelineState(state string) {
	for _, s := range pipelineStates {
		v := 0.0
		if s == state {
			v = 1
		}
		pipelineState.WithLabelValues(s).Set(v)
	}
}

// IncBusMessage counts a control bus message.
func IncBusMessage(kind string) {
	busMessages.WithLabelValues(kind).Inc()
}

// SetBuild records the size and construction time of the graph.
func SetBuild(nodes int, d time.Duration) {
	pipelineNodes.Set(float64(nodes))
	buildDuration.Set(d.Seconds())
}

// IncTermination counts a pipeline termination.
func IncTermination(reason string) {
	terminations.WithLabelValues(reason).Inc()
}

// Subscribe feeds lifecycle events from bus into the metrics above.
// The returned function unsubscribes.
func Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.PipelineBuiltEvent) { SetBuild(e.Nodes, e.Duration) }),
		bus.Subscribe(func(e events.PipelineStateChangedEvent) { SetPipelineState(e.To) }),
		bus.Subscribe(func(e events.BusMessageEvent) { IncBusMessage(e.Kind) }),
		bus.Subscribe(func(e events.PipelineTerminatedEvent) { IncTermination(e.Reason) }),
	}
	SetPipelineState("constructing")
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
