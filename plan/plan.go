package plan

import (
	"time"

	"github.com/scribeware/wasmload/registry"
	"github.com/scribeware/wasmload/strategy"
)

// PhaseName identifies one of the three loading tiers.
type PhaseName string

const (
	PhaseCritical  PhaseName = "critical"
	PhaseImportant PhaseName = "important"
	PhaseOptional  PhaseName = "optional"
)

// Phase is an ordered list of modules loaded together.
type Phase struct {
	Name    PhaseName
	Modules []registry.Descriptor
}

// Plan is the full phased loading schedule for one feature request.
type Plan struct {
	Critical  Phase
	Important Phase
	Optional  Phase

	// EstimatedSizeBytes sums the declared sizes of every included module.
	EstimatedSizeBytes uint64

	// EstimatedTime is the transfer estimate at the observed bandwidth.
	EstimatedTime time.Duration
}

// Phases returns the blocking-order view: critical, important, optional.
func (p *Plan) Phases() []Phase {
	return []Phase{p.Critical, p.Important, p.Optional}
}

// ModuleCount returns the total number of included modules.
func (p *Plan) ModuleCount() int {
	return len(p.Critical.Modules) + len(p.Important.Modules) + len(p.Optional.Modules)
}

// Contains reports whether any phase includes the module id.
func (p *Plan) Contains(id string) bool {
	for _, ph := range p.Phases() {
		for _, d := range ph.Modules {
			if d.ID == id {
				return true
			}
		}
	}
	return false
}

// Planner builds plans from a registry and a bandwidth snapshot.
type Planner struct {
	reg  *registry.Registry
	cond strategy.Conditions
}

// NewPlanner creates a planner. Conditions are captured once; plans built
// later keep using the same bandwidth estimate.
func NewPlanner(reg *registry.Registry, cond strategy.Conditions) *Planner {
	return &Planner{reg: reg, cond: cond}
}

// Create builds the plan for a requested feature set.
//
// A descriptor is included when it is required or when its feature tags
// overlap the request. Required descriptors always land in the critical
// phase regardless of their declared priority; everything else is bucketed
// by priority: high → critical, medium → important, low → optional.
func (p *Planner) Create(features []string) *Plan {
	out := &Plan{
		Critical:  Phase{Name: PhaseCritical},
		Important: Phase{Name: PhaseImportant},
		Optional:  Phase{Name: PhaseOptional},
	}

	for _, d := range p.reg.All() {
		if !d.Required && !d.MatchesAny(features) {
			continue
		}

		switch {
		case d.Required, d.Priority == registry.PriorityHigh:
			out.Critical.Modules = append(out.Critical.Modules, d)
		case d.Priority == registry.PriorityMedium:
			out.Important.Modules = append(out.Important.Modules, d)
		default:
			out.Optional.Modules = append(out.Optional.Modules, d)
		}

		out.EstimatedSizeBytes += d.EstimatedSizeBytes
	}

	bps := p.cond.BytesPerSecond()
	if out.EstimatedSizeBytes > 0 && bps > 0 {
		seconds := float64(out.EstimatedSizeBytes) / bps
		out.EstimatedTime = time.Duration(seconds * float64(time.Second))
	}

	return out
}
