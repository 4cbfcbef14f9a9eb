package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smazurov/rtmpencoder/internal/events"
)

func TestSetPipelineState(t *testing.T) {
	SetPipelineState("playing")

	for _, s := range pipelineStates {
		want := 0.0
		if s == "playing" {
			want = 1
		}
		if got := testutil.ToFloat64(pipelineState.WithLabelValues(s)); got != want {
			t.Errorf("state %s = %v, want %v", s, got, want)
		}
	}
}

func TestSetBuild(t *testing.T) {
	SetBuild(21, 1500*time.Millisecond)

	if got := testutil.ToFloat64(pipelineNodes); got != 21 {
		t.Errorf("nodes = %v, want 21", got)
	}
	if got := testutil.ToFloat64(buildDuration); got != 1.5 {
		t.Errorf("build duration = %v, want 1.5", got)
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(busMessages.WithLabelValues("other"))
	IncBusMessage("other")
	IncBusMessage("other")
	if got := testutil.ToFloat64(busMessages.WithLabelValues("other")); got != before+2 {
		t.Errorf("bus messages = %v, want %v", got, before+2)
	}

	beforeTerm := testutil.ToFloat64(terminations.WithLabelValues("error"))
	IncTermination("error")
	if got := testutil.ToFloat64(terminations.WithLabelValues("error")); got != beforeTerm+1 {
		t.Errorf("terminations = %v, want %v", got, beforeTerm+1)
	}
}

func TestSubscribe(t *testing.T) {
	bus := events.New()
	unsub := Subscribe(bus)
	defer unsub()

	before := testutil.ToFloat64(busMessages.WithLabelValues("eos"))
	bus.Publish(events.BusMessageEvent{Kind: "eos"})
	bus.Publish(events.PipelineStateChangedEvent{From: "playing", To: "terminating"})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(busMessages.WithLabelValues("eos")) == before+1 &&
			testutil.ToFloat64(pipelineState.WithLabelValues("terminating")) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Metrics were not updated from published events")
}
