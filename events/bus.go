package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bus fans events out to subscribed observers. Emission is synchronous so
// ordering matches the loader's control flow exactly.
type Bus struct {
	session   uuid.UUID
	observers []Observer
	mu        sync.RWMutex
	now       func() time.Time
}

// NewBus creates a bus with a fresh session id. The session id is stamped
// on every event so overlapping loader instances can be told apart in
// shared telemetry sinks.
func NewBus() *Bus {
	return &Bus{
		session: uuid.New(),
		now:     time.Now,
	}
}

// Session returns the correlation id stamped on this bus's events.
func (b *Bus) Session() uuid.UUID {
	return b.session
}

// Subscribe adds an observer.
func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Unsubscribe removes an observer.
func (b *Bus) Unsubscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, obs := range b.observers {
		if obs == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Emit stamps the event and delivers it to every observer.
func (b *Bus) Emit(e Event) {
	e.Session = b.session
	if e.Time.IsZero() {
		e.Time = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.observers {
		o.OnLoaderEvent(e)
	}
}

// chanObserver forwards events onto a buffered channel, dropping when the
// consumer lags. Diagnostics must never stall loading.
type chanObserver struct {
	ch chan Event
}

func (c *chanObserver) OnLoaderEvent(e Event) {
	select {
	case c.ch <- e:
	default:
	}
}

// Chan subscribes a buffered channel to the bus. The returned cancel
// function unsubscribes and closes the channel.
func (b *Bus) Chan(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	obs := &chanObserver{ch: make(chan Event, buffer)}
	b.Subscribe(obs)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.Unsubscribe(obs)
			close(obs.ch)
		})
	}
	return obs.ch, cancel
}
