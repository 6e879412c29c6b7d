package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a loader event.
type Type string

const (
	LoadingStarted     Type = "loadingStarted"
	LoadingPlanCreated Type = "loadingPlanCreated"
	PhaseStarted       Type = "phaseStarted"
	PhaseCompleted     Type = "phaseCompleted"
	ModuleLoadStarted  Type = "moduleLoadStarted"
	ModuleLoadProgress Type = "moduleLoadProgress"
	ModuleLoadComplete Type = "moduleLoadCompleted"
	ModuleLoadFailed   Type = "moduleLoadFailed"
	LoadingCompleted   Type = "loadingCompleted"
	LoadingFailed      Type = "loadingFailed"
	FallbackStarted    Type = "fallbackStarted"
	FallbackSucceeded  Type = "fallbackSucceeded"
	FallbackFailed     Type = "fallbackFailed"
	OptionalRequested  Type = "optionalModuleRequested"
	OptionalLoaded     Type = "optionalModuleLoaded"
	OptionalFailed     Type = "optionalModuleFailed"
	ModuleUnloaded     Type = "moduleUnloaded"
)

// Event is one entry in the loader's diagnostic stream. Fields beyond Type,
// Session, and Time are populated per type: Module for per-module events,
// Phase/ModuleCount/Elapsed for phase events, Stage/Percent for progress,
// Err for failures, Attempt for retries.
type Event struct {
	Type    Type
	Session uuid.UUID
	Time    time.Time

	Module      string
	Phase       string
	Stage       string
	Percent     int
	Attempt     int
	ModuleCount int
	Elapsed     time.Duration
	Err         error
}

// Observer receives events synchronously, in emission order.
// Handlers must not block; slow consumers should hand off to a channel.
type Observer interface {
	OnLoaderEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnLoaderEvent(e Event) { f(e) }
