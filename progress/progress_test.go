package progress

import "testing"

func TestTracker_SetAndGet(t *testing.T) {
	tr := NewTracker()
	tr.Set("core", StageBindings, 25)

	s, ok := tr.Get("core")
	if !ok {
		t.Fatal("Get failed")
	}
	if s.Stage != StageBindings || s.Percent != 25 {
		t.Fatalf("state = %+v", s)
	}

	if _, ok := tr.Get("ghost"); ok {
		t.Fatal("untracked module should not resolve")
	}
}

func TestTracker_Monotonic(t *testing.T) {
	tr := NewTracker()
	tr.Set("core", StageFetch, 60)
	tr.Set("core", StageCompile, 40) // stale update must not regress

	s, _ := tr.Get("core")
	if s.Percent != 60 {
		t.Fatalf("percent regressed to %d", s.Percent)
	}
	if s.Stage != StageCompile {
		t.Fatalf("stage should still advance, got %s", s.Stage)
	}
}

func TestTracker_Clamp(t *testing.T) {
	tr := NewTracker()
	tr.Set("core", StageFetch, -5)
	if s, _ := tr.Get("core"); s.Percent != 0 {
		t.Fatalf("percent = %d, want 0", s.Percent)
	}
	tr.Set("core", StageComplete, 150)
	if s, _ := tr.Get("core"); s.Percent != 100 {
		t.Fatalf("percent = %d, want 100", s.Percent)
	}
}

func TestTracker_ResetAllowsRestart(t *testing.T) {
	tr := NewTracker()
	tr.Set("core", StageFetch, 75)
	tr.Reset("core")

	if _, ok := tr.Get("core"); ok {
		t.Fatal("state should be cleared after reset")
	}

	// A fresh attempt may start low again.
	tr.Set("core", StageBindings, 25)
	if s, _ := tr.Get("core"); s.Percent != 25 {
		t.Fatalf("percent = %d after reset, want 25", s.Percent)
	}
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker()
	tr.Set("core", StageComplete, 100)
	tr.Set("ai", StageFetch, 50)

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d", len(snap))
	}

	// Mutating the snapshot must not affect the tracker.
	snap["core"] = State{Stage: StageBindings, Percent: 1}
	if s, _ := tr.Get("core"); s.Percent != 100 {
		t.Fatal("snapshot mutation leaked into tracker")
	}
}
