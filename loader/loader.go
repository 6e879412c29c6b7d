package loader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/bindings"
	"github.com/scribeware/wasmload/cache"
	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/errors"
	"github.com/scribeware/wasmload/events"
	"github.com/scribeware/wasmload/memmon"
	"github.com/scribeware/wasmload/plan"
	"github.com/scribeware/wasmload/progress"
	"github.com/scribeware/wasmload/registry"
	"github.com/scribeware/wasmload/strategy"
)

// defaultFallbackRetries bounds the core-only recovery loop. Distinct
// from the per-module Strategy.RetryAttempts.
const defaultFallbackRetries = 3

// Config holds everything a Loader needs. Registry, Engine, and Fetcher
// are required; the rest has working defaults.
type Config struct {
	Registry *registry.Registry
	Engine   wasmload.Engine
	Fetcher  wasmload.Fetcher

	// Bindings resolves descriptor bindings references to initializers.
	// Nil is allowed when every descriptor has an empty bindings URL.
	Bindings *bindings.Registry

	// Conditions is the network snapshot used for strategy selection and
	// plan time estimates. Zero value means "unknown".
	Conditions strategy.Conditions

	// Strategy overrides automatic selection when non-nil.
	Strategy *strategy.Strategy

	// Primer, when set, warms the artifact cache with the planned URLs
	// before phase execution. Failures are logged and ignored.
	Primer *cache.Primer

	// FallbackRetries bounds the core-only recovery loop (default 3).
	FallbackRetries int

	// Clock is injectable for tests; nil uses the real clock.
	Clock Clock
}

type metricsState struct {
	failed   int
	unloaded int
	total    time.Duration
	perLoad  map[string]time.Duration
}

// Loader owns one progressive loading lifecycle: its module cache,
// in-flight registry, and monitor tables belong to this instance alone.
type Loader struct {
	reg     *registry.Registry
	eng     wasmload.Engine
	fetcher wasmload.Fetcher
	binds   *bindings.Registry
	strat   strategy.Strategy
	planner *plan.Planner
	primer  *cache.Primer
	clock   Clock

	bus     *events.Bus
	tracker *progress.Tracker
	monitor *memmon.Monitor

	fallbackRetries int

	mu       sync.Mutex
	loaded   map[string]*LoadedModule
	inflight map[string]*inflightLoad
	metrics  metricsState
	closed   bool

	optWG sync.WaitGroup
}

// inflightLoad is one pending load. Entries leave the in-flight registry
// exactly once, on settlement; joiners wait on done.
type inflightLoad struct {
	done chan struct{}
	mod  *LoadedModule
	err  error
}

// New creates a loader. Strategy is selected from the observed conditions
// once, here; it is not re-evaluated mid-load.
func New(cfg Config) (*Loader, error) {
	if cfg.Registry == nil {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "config has no registry")
	}
	if cfg.Engine == nil {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "config has no engine")
	}
	if cfg.Fetcher == nil {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "config has no fetcher")
	}

	strat := strategy.Select(cfg.Conditions)
	if cfg.Strategy != nil {
		strat = *cfg.Strategy
	}

	retries := cfg.FallbackRetries
	if retries <= 0 {
		retries = defaultFallbackRetries
	}

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	binds := cfg.Bindings
	if binds == nil {
		binds = bindings.NewRegistry()
	}

	return &Loader{
		reg:             cfg.Registry,
		eng:             cfg.Engine,
		fetcher:         cfg.Fetcher,
		binds:           binds,
		strat:           strat,
		planner:         plan.NewPlanner(cfg.Registry, cfg.Conditions),
		primer:          cfg.Primer,
		clock:           clock,
		bus:             events.NewBus(),
		tracker:         progress.NewTracker(),
		monitor:         memmon.NewMonitor(),
		fallbackRetries: retries,
		loaded:          make(map[string]*LoadedModule),
		inflight:        make(map[string]*inflightLoad),
		metrics:         metricsState{perLoad: make(map[string]time.Duration)},
	}, nil
}

// Events returns the loader's event bus for diagnostics and UI.
func (l *Loader) Events() *events.Bus { return l.bus }

// Progress returns the per-module progress tracker.
func (l *Loader) Progress() *progress.Tracker { return l.tracker }

// Memory returns the linear-memory monitor.
func (l *Loader) Memory() *memmon.Monitor { return l.monitor }

// Strategy returns the preset selected at construction.
func (l *Loader) Strategy() strategy.Strategy { return l.strat }

// LoadModules executes the phased plan for a feature set and returns the
// live module proxy.
//
// The critical and important phases block. When the critical phase fails
// outright the core-only fallback runs instead of rejecting; only
// exhaustion of that fallback fails the call. An important-phase failure
// propagates as-is. The optional phase, when the strategy preloads, runs
// detached with failures logged.
func (l *Loader) LoadModules(ctx context.Context, features []string) (*Proxy, error) {
	start := l.clock.Now()
	l.bus.Emit(events.Event{Type: events.LoadingStarted})

	p := l.planner.Create(features)
	l.bus.Emit(events.Event{Type: events.LoadingPlanCreated, ModuleCount: p.ModuleCount()})
	engine.Logger().Info("loading plan created",
		zap.String("strategy", l.strat.Name),
		zap.Int("modules", p.ModuleCount()),
		zap.Uint64("estimated_size_bytes", p.EstimatedSizeBytes),
		zap.Duration("estimated_time", p.EstimatedTime))

	l.primePlan(ctx, p)

	if err := l.runPhase(ctx, p.Critical); err != nil {
		engine.Logger().Warn("critical phase failed, entering fallback", zap.Error(err))
		proxy, ferr := l.runFallback(ctx, err)
		if ferr != nil {
			l.bus.Emit(events.Event{Type: events.LoadingFailed, Err: ferr})
			return nil, ferr
		}
		l.bus.Emit(events.Event{Type: events.LoadingCompleted, Elapsed: l.clock.Now().Sub(start)})
		return proxy, nil
	}

	if err := l.runPhase(ctx, p.Important); err != nil {
		l.bus.Emit(events.Event{Type: events.LoadingFailed, Err: err})
		return nil, err
	}

	if l.strat.PreloadNonCritical && len(p.Optional.Modules) > 0 {
		optional := p.Optional
		l.optWG.Add(1)
		go func() {
			defer l.optWG.Done()
			if err := l.runPhase(context.WithoutCancel(ctx), optional); err != nil {
				engine.Logger().Warn("optional phase failed", zap.Error(err))
			}
		}()
	}

	l.bus.Emit(events.Event{Type: events.LoadingCompleted, Elapsed: l.clock.Now().Sub(start)})
	return l.newProxy(), nil
}

// primePlan opportunistically warms the artifact cache. Never fatal.
func (l *Loader) primePlan(ctx context.Context, p *plan.Plan) {
	if l.primer == nil {
		return
	}
	var urls []string
	for _, ph := range p.Phases() {
		for _, d := range ph.Modules {
			urls = append(urls, d.BinaryURL)
		}
	}
	if err := l.primer.Prime(ctx, urls); err != nil {
		engine.Logger().Debug("cache priming skipped", zap.Error(err))
	}
}

// Close waits for detached optional loads, unloads everything, and marks
// the loader unusable.
func (l *Loader) Close(ctx context.Context) error {
	l.optWG.Wait()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	ids := make([]string, 0, len(l.loaded))
	for id := range l.loaded {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if _, err := l.unload(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Metrics returns a snapshot of the loader's lifetime counters.
func (l *Loader) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()

	times := make(map[string]time.Duration, len(l.metrics.perLoad))
	for k, v := range l.metrics.perLoad {
		times[k] = v
	}
	return Metrics{
		Strategy:        l.strat.Name,
		LoadedModules:   len(l.loaded),
		FailedLoads:     l.metrics.failed,
		UnloadedModules: l.metrics.unloaded,
		TotalLoadTime:   l.metrics.total,
		ModuleLoadTimes: times,
	}
}
