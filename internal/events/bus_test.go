package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan PipelineStateChangedEvent, 1)

	unsub := bus.Subscribe(func(e PipelineStateChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := PipelineStateChangedEvent{Pipeline: "pipeline", From: "constructing", To: "playing"}
	bus.Publish(ev)

	got := <-received
	if got.To != ev.To || got.From != ev.From {
		t.Errorf("Expected %s -> %s, got %s -> %s", ev.From, ev.To, got.From, got.To)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan BusMessageEvent, 1)
	received2 := make(chan BusMessageEvent, 1)

	unsub1 := bus.Subscribe(func(e BusMessageEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e BusMessageEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(BusMessageEvent{Kind: "eos", Source: "/pipeline/rtmp2sink0"})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan PipelineTerminatedEvent, 1)

	unsub := bus.Subscribe(func(e PipelineTerminatedEvent) { received <- e })

	bus.Publish(PipelineTerminatedEvent{Reason: "eos"})
	<-received

	unsub()

	bus.Publish(PipelineTerminatedEvent{Reason: "error"})
	select {
	case <-received:
		t.Fatal("Should not receive event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	builtReceived := make(chan bool, 1)
	busReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ PipelineBuiltEvent) { builtReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ BusMessageEvent) { busReceived <- true })
	defer unsub2()

	bus.Publish(PipelineBuiltEvent{Nodes: 22})
	<-builtReceived

	select {
	case <-busReceived:
		t.Fatal("Bus message subscriber should NOT have received PipelineBuiltEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)
	unsub := bus.Subscribe(func(_ BusMessageEvent) { receivedCh <- true })
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(BusMessageEvent{Kind: "other", Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	if unsub == nil {
		t.Fatal("Expected a no-op unsubscribe function")
	}
	unsub()
}
