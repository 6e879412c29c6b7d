package loader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/scribeware/wasmload/events"
	"github.com/scribeware/wasmload/plan"
)

// runPhase loads a phase's modules in contiguous batches of at most
// Strategy.MaxConcurrent. Batches run strictly in sequence; within a
// batch every module settles before the batch reports, so siblings are
// never abandoned mid-flight when one fails.
func (l *Loader) runPhase(ctx context.Context, ph plan.Phase) error {
	if len(ph.Modules) == 0 {
		return nil
	}

	l.bus.Emit(events.Event{
		Type:        events.PhaseStarted,
		Phase:       string(ph.Name),
		ModuleCount: len(ph.Modules),
	})
	start := l.clock.Now()

	batch := l.strat.MaxConcurrent
	if batch < 1 {
		batch = 1
	}

	for i := 0; i < len(ph.Modules); i += batch {
		end := i + batch
		if end > len(ph.Modules) {
			end = len(ph.Modules)
		}

		var g errgroup.Group
		for _, d := range ph.Modules[i:end] {
			d := d
			g.Go(func() error {
				_, err := l.loadModule(ctx, d)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	l.bus.Emit(events.Event{
		Type:        events.PhaseCompleted,
		Phase:       string(ph.Name),
		ModuleCount: len(ph.Modules),
		Elapsed:     l.clock.Now().Sub(start),
	})
	return nil
}
