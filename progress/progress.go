package progress

import "sync"

// Well-known stage labels in load order.
const (
	StageBindings    = "bindings"
	StageFetch       = "fetch"
	StageCompile     = "compile"
	StageInstantiate = "instantiate"
	StageComplete    = "complete"
)

// State is a module's current position in its load attempt.
type State struct {
	Stage   string
	Percent int
}

// Tracker records per-module progress. Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]State)}
}

// Set records a module's stage and percentage. Percent is clamped to
// [0,100] and never moves backward within an attempt; use Reset when a
// retry restarts the attempt.
func (t *Tracker) Set(module, stage string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.states[module]
	if ok && percent < cur.Percent {
		// Keep the high-water mark; only the stage label advances.
		percent = cur.Percent
	}
	t.states[module] = State{Stage: stage, Percent: percent}
}

// Reset clears a module's state ahead of a retry attempt.
func (t *Tracker) Reset(module string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, module)
}

// Get returns a module's current state.
func (t *Tracker) Get(module string) (State, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.states[module]
	return s, ok
}

// Snapshot returns a copy of all tracked states.
func (t *Tracker) Snapshot() map[string]State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]State, len(t.states))
	for k, v := range t.states {
		out[k] = v
	}
	return out
}
