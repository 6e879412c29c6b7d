package registry

import (
	"fmt"

	"github.com/scribeware/wasmload/errors"
)

// Priority is the loading tier of a module.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the three defined tiers.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Descriptor is the static metadata record for one loadable module.
// Descriptors are defined at startup and never mutated.
type Descriptor struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	BinaryURL          string   `yaml:"binary_url"`
	BindingsURL        string   `yaml:"bindings_url"`
	Priority           Priority `yaml:"priority"`
	Required           bool     `yaml:"required"`
	Features           []string `yaml:"features"`
	EstimatedSizeBytes uint64   `yaml:"estimated_size_bytes"`
}

// HasFeature reports whether the descriptor carries the given feature tag.
func (d Descriptor) HasFeature(feature string) bool {
	for _, f := range d.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any requested feature is among the
// descriptor's tags.
func (d Descriptor) MatchesAny(features []string) bool {
	for _, f := range features {
		if d.HasFeature(f) {
			return true
		}
	}
	return false
}

func (d Descriptor) validate() error {
	if d.ID == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "descriptor id is empty")
	}
	if d.BinaryURL == "" {
		return errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("descriptor %q has no binary url", d.ID))
	}
	if !d.Priority.Valid() {
		return errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("descriptor %q has invalid priority %q", d.ID, d.Priority))
	}
	return nil
}

// Registry is an insertion-ordered catalog of descriptors.
// It is immutable after setup; Add is not safe for use concurrently with
// readers, so populate the registry before handing it to a loader.
type Registry struct {
	order []Descriptor
	index map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add appends a descriptor to the catalog.
// IDs must be unique; the first required descriptor becomes the core.
func (r *Registry) Add(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	if _, exists := r.index[d.ID]; exists {
		return errors.Duplicate(errors.PhaseRegistry, "descriptor", d.ID)
	}

	r.index[d.ID] = len(r.order)
	r.order = append(r.order, d)
	return nil
}

// Get returns the descriptor for id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.order[i], true
}

// All returns the descriptors in insertion order.
// The returned slice is a copy.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Core returns the designated core descriptor: the first required entry.
// The fallback path loads only this module.
func (r *Registry) Core() (Descriptor, bool) {
	for _, d := range r.order {
		if d.Required {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.order)
}
