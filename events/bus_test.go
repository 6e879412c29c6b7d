package events

import (
	"testing"
)

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) OnLoaderEvent(e Event) {
	o.events = append(o.events, e)
}

func TestBus_Ordering(t *testing.T) {
	bus := NewBus()
	obs := &recordingObserver{}
	bus.Subscribe(obs)

	bus.Emit(Event{Type: LoadingStarted})
	bus.Emit(Event{Type: PhaseStarted, Phase: "critical"})
	bus.Emit(Event{Type: ModuleLoadStarted, Module: "core"})
	bus.Emit(Event{Type: PhaseCompleted, Phase: "critical"})

	want := []Type{LoadingStarted, PhaseStarted, ModuleLoadStarted, PhaseCompleted}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Fatalf("event %d = %s, want %s", i, e.Type, want[i])
		}
	}
}

func TestBus_SessionStamped(t *testing.T) {
	bus := NewBus()
	obs := &recordingObserver{}
	bus.Subscribe(obs)

	bus.Emit(Event{Type: LoadingStarted})
	if obs.events[0].Session != bus.Session() {
		t.Fatal("session id not stamped")
	}
	if obs.events[0].Time.IsZero() {
		t.Fatal("time not stamped")
	}

	other := NewBus()
	if other.Session() == bus.Session() {
		t.Fatal("independent buses must have distinct sessions")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	obs := &recordingObserver{}
	bus.Subscribe(obs)
	bus.Emit(Event{Type: LoadingStarted})
	bus.Unsubscribe(obs)
	bus.Emit(Event{Type: LoadingCompleted})

	if len(obs.events) != 1 {
		t.Fatalf("got %d events after unsubscribe, want 1", len(obs.events))
	}
}

func TestBus_Chan(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Chan(4)

	bus.Emit(Event{Type: LoadingStarted})
	bus.Emit(Event{Type: LoadingCompleted})

	first := <-ch
	if first.Type != LoadingStarted {
		t.Fatalf("first = %s", first.Type)
	}
	second := <-ch
	if second.Type != LoadingCompleted {
		t.Fatalf("second = %s", second.Type)
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
	// Cancel is idempotent.
	cancel()
}

func TestBus_ChanDropsOnOverflow(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Chan(1)
	defer cancel()

	bus.Emit(Event{Type: LoadingStarted})
	bus.Emit(Event{Type: LoadingCompleted}) // dropped, consumer lagging

	e := <-ch
	if e.Type != LoadingStarted {
		t.Fatalf("got %s", e.Type)
	}
	select {
	case e := <-ch:
		t.Fatalf("expected drop, got %s", e.Type)
	default:
	}
}
