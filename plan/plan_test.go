package plan

import (
	"reflect"
	"testing"
	"time"

	"github.com/scribeware/wasmload/registry"
	"github.com/scribeware/wasmload/strategy"
)

func buildRegistry(t *testing.T, descs ...registry.Descriptor) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, d := range descs {
		if err := r.Add(d); err != nil {
			t.Fatalf("Add %s: %v", d.ID, err)
		}
	}
	return r
}

func desc(id string, prio registry.Priority, required bool, size uint64, features ...string) registry.Descriptor {
	return registry.Descriptor{
		ID:                 id,
		BinaryURL:          "https://cdn.example.com/" + id + ".wasm",
		Priority:           prio,
		Required:           required,
		Features:           features,
		EstimatedSizeBytes: size,
	}
}

func TestCreate_FeatureSelection(t *testing.T) {
	// Scenario: CORE(required, high, doc), AI(medium, ai), VCS(low, git).
	reg := buildRegistry(t,
		desc("core", registry.PriorityHigh, true, 100, "doc"),
		desc("ai", registry.PriorityMedium, false, 200, "ai"),
		desc("vcs", registry.PriorityLow, false, 300, "git"),
	)
	p := NewPlanner(reg, strategy.Conditions{}).Create([]string{"doc"})

	if got := ids(p.Critical); !reflect.DeepEqual(got, []string{"core"}) {
		t.Fatalf("critical = %v", got)
	}
	if len(p.Important.Modules) != 0 || len(p.Optional.Modules) != 0 {
		t.Fatalf("unexpected non-critical modules: %v / %v", ids(p.Important), ids(p.Optional))
	}
	if p.EstimatedSizeBytes != 100 {
		t.Fatalf("size = %d, want 100", p.EstimatedSizeBytes)
	}
}

func TestCreate_RequiredAlwaysCritical(t *testing.T) {
	// Required wins over a low declared priority, for any feature set.
	reg := buildRegistry(t,
		desc("core", registry.PriorityLow, true, 100, "doc"),
		desc("ai", registry.PriorityMedium, false, 200, "ai"),
	)
	planner := NewPlanner(reg, strategy.Conditions{})

	for _, features := range [][]string{nil, {"ai"}, {"doc", "ai"}, {"nothing"}} {
		p := planner.Create(features)
		if !contains(ids(p.Critical), "core") {
			t.Fatalf("features %v: required module not in critical phase", features)
		}
	}
}

func TestCreate_PriorityBuckets(t *testing.T) {
	reg := buildRegistry(t,
		desc("core", registry.PriorityHigh, true, 10, "doc"),
		desc("spell", registry.PriorityHigh, false, 20, "doc"),
		desc("ai", registry.PriorityMedium, false, 30, "doc"),
		desc("vcs", registry.PriorityLow, false, 40, "doc"),
	)
	p := NewPlanner(reg, strategy.Conditions{}).Create([]string{"doc"})

	if got := ids(p.Critical); !reflect.DeepEqual(got, []string{"core", "spell"}) {
		t.Fatalf("critical = %v", got)
	}
	if got := ids(p.Important); !reflect.DeepEqual(got, []string{"ai"}) {
		t.Fatalf("important = %v", got)
	}
	if got := ids(p.Optional); !reflect.DeepEqual(got, []string{"vcs"}) {
		t.Fatalf("optional = %v", got)
	}
	if p.EstimatedSizeBytes != 100 {
		t.Fatalf("size = %d", p.EstimatedSizeBytes)
	}
	if p.ModuleCount() != 4 {
		t.Fatalf("count = %d", p.ModuleCount())
	}
}

func TestCreate_Deterministic(t *testing.T) {
	reg := buildRegistry(t,
		desc("core", registry.PriorityHigh, true, 10, "doc"),
		desc("b", registry.PriorityMedium, false, 20, "x"),
		desc("a", registry.PriorityMedium, false, 20, "x"),
	)
	planner := NewPlanner(reg, strategy.Conditions{})

	first := planner.Create([]string{"x"})
	for i := 0; i < 5; i++ {
		again := planner.Create([]string{"x"})
		if !reflect.DeepEqual(ids(first.Important), ids(again.Important)) {
			t.Fatal("plan must be deterministic")
		}
	}
	// Tie-break is registry insertion order.
	if got := ids(first.Important); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("important = %v, want insertion order", got)
	}
}

func TestCreate_TimeEstimate(t *testing.T) {
	reg := buildRegistry(t,
		desc("core", registry.PriorityHigh, true, 128*1024, "doc"),
	)

	// Unknown bandwidth: conservative 128 KiB/s, so 128 KiB ≈ 1 s.
	p := NewPlanner(reg, strategy.Conditions{}).Create(nil)
	if p.EstimatedTime != time.Second {
		t.Fatalf("estimate = %v, want 1s", p.EstimatedTime)
	}

	// 8 Mbps = 1 MB/s.
	fast := NewPlanner(reg, strategy.Conditions{Known: true, DownlinkMbps: 8}).Create(nil)
	if fast.EstimatedTime >= p.EstimatedTime {
		t.Fatalf("faster link should shrink the estimate: %v vs %v", fast.EstimatedTime, p.EstimatedTime)
	}
}

func TestPlan_Contains(t *testing.T) {
	reg := buildRegistry(t,
		desc("core", registry.PriorityHigh, true, 10, "doc"),
		desc("ai", registry.PriorityMedium, false, 20, "ai"),
	)
	p := NewPlanner(reg, strategy.Conditions{}).Create([]string{"ai"})

	if !p.Contains("core") || !p.Contains("ai") {
		t.Fatal("plan should contain both modules")
	}
	if p.Contains("vcs") {
		t.Fatal("plan should not contain unselected module")
	}
}

func ids(ph Phase) []string {
	out := []string{}
	for _, d := range ph.Modules {
		out = append(out, d.ID)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
