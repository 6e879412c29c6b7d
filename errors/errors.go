package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the load pipeline the error occurred
type Phase string

const (
	PhasePlan        Phase = "plan"        // plan construction
	PhaseFetch       Phase = "fetch"       // artifact download
	PhaseCompile     Phase = "compile"     // WASM compilation
	PhaseInstantiate Phase = "instantiate" // instance creation
	PhaseInit        Phase = "init"        // bindings initializer
	PhaseUnload      Phase = "unload"      // module teardown
	PhaseFallback    Phase = "fallback"    // core-only recovery path
	PhaseCache       Phase = "cache"       // artifact cache / primer
	PhaseRegistry    Phase = "registry"    // catalog configuration
)

// Kind categorizes the error
type Kind string

const (
	KindFetchFailed       Kind = "fetch_failed"
	KindCompileFailed     Kind = "compile_failed"
	KindInitFailed        Kind = "init_failed"
	KindRetryExhausted    Kind = "retry_exhausted"
	KindFallbackExhausted Kind = "fallback_exhausted"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindDuplicate         Kind = "duplicate"
	KindCloseFailed       Kind = "close_failed"
	KindTimeout           Kind = "timeout"
	KindClosed            Kind = "closed"
)

// Error is the structured error type used throughout the loader
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Module   string
	Attempts int
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" {
		b.WriteString(" module ")
		b.WriteString(e.Module)
	}

	if e.Attempts > 0 {
		fmt.Fprintf(&b, " after %d attempt(s)", e.Attempts)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// Fetch creates an artifact download error
func Fetch(module, url string, cause error) *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindFetchFailed,
		Module: module,
		Detail: fmt.Sprintf("fetch %s", url),
		Cause:  cause,
	}
}

// Compile creates a compilation error
func Compile(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindCompileFailed,
		Module: module,
		Cause:  cause,
	}
}

// Instantiate creates an instantiation error
func Instantiate(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindInitFailed,
		Module: module,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Init creates a bindings-initializer error
func Init(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindInitFailed,
		Module: module,
		Detail: "run bindings initializer",
		Cause:  cause,
	}
}

// RetryExhausted is returned when a single module failed every attempt
func RetryExhausted(module string, attempts int, cause error) *Error {
	return &Error{
		Phase:    PhaseFetch,
		Kind:     KindRetryExhausted,
		Module:   module,
		Attempts: attempts,
		Cause:    cause,
	}
}

// FallbackExhausted is returned when the core-only recovery path also
// failed. It is the only error that fails a top-level LoadModules call.
func FallbackExhausted(attempts int, cause error) *Error {
	return &Error{
		Phase:    PhaseFallback,
		Kind:     KindFallbackExhausted,
		Attempts: attempts,
		Detail:   "complete loading failure",
		Cause:    cause,
	}
}

// Unload reports a failure while tearing a module down
func Unload(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseUnload,
		Kind:   KindCloseFailed,
		Module: module,
		Detail: "close module resources",
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
	}
}

// Timeout creates a deadline error
func Timeout(phase Phase, module, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTimeout,
		Module: module,
		Detail: detail,
	}
}

// Closed reports an operation against a closed loader or store
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}
