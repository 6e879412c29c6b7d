package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Fetch("ai", "https://cdn.example.com/ai.wasm", cause)

	msg := err.Error()
	for _, want := range []string{"[fetch]", "fetch_failed", "module ai", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestError_Attempts(t *testing.T) {
	err := RetryExhausted("vcs", 3, fmt.Errorf("boom"))
	if !strings.Contains(err.Error(), "after 3 attempt(s)") {
		t.Fatalf("message %q missing attempt count", err.Error())
	}
	if err.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", err.Attempts)
	}
}

func TestError_Is(t *testing.T) {
	err := Compile("core", fmt.Errorf("bad magic"))

	if !stderrors.Is(err, &Error{Phase: PhaseCompile, Kind: KindCompileFailed}) {
		t.Fatal("expected match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseFetch, Kind: KindCompileFailed}) {
		t.Fatal("unexpected match on different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	wrapped := fmt.Errorf("mid: %w", cause)
	err := Init("core", wrapped)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected unwrap chain to reach root cause")
	}
}

func TestFallbackExhausted_Terminal(t *testing.T) {
	err := FallbackExhausted(3, fmt.Errorf("still down"))
	if !strings.Contains(err.Error(), "complete loading failure") {
		t.Fatalf("message %q missing terminal marker", err.Error())
	}
	if !stderrors.Is(err, &Error{Phase: PhaseFallback, Kind: KindFallbackExhausted}) {
		t.Fatal("expected fallback_exhausted match")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound(PhaseRegistry, "descriptor", "ghost")
	if !strings.Contains(err.Error(), `descriptor "ghost" not found`) {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
