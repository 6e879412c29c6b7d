// Plan command prints the phased loading schedule without loading.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribeware/wasmload/plan"
	"github.com/scribeware/wasmload/strategy"
)

var planCmd = &cobra.Command{
	Use:   "plan [features...]",
	Short: "Show the loading plan for a feature set",
	Long: `Plan builds the phased loading schedule for the given features and
prints it without fetching anything. Required modules always appear in
the critical phase; feature-matched modules are bucketed by priority.

Example:
  wasmload plan
  wasmload plan search export --downlink 1.2`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	cond := conditions()
	p := plan.NewPlanner(reg, cond).Create(args)

	strat := strategy.Select(cond)
	if override, err := pickStrategy(); err != nil {
		return err
	} else if override != nil {
		strat = *override
	}

	if flagJSON {
		out, err := json.MarshalIndent(struct {
			Strategy string     `json:"strategy"`
			Plan     *plan.Plan `json:"plan"`
		}{strat.Name, p}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal plan: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Strategy: %s (concurrency %d, timeout %s, %d attempt(s))\n",
		strat.Name, strat.MaxConcurrent, strat.Timeout, strat.RetryAttempts)
	fmt.Printf("Modules: %d, estimated %d bytes, ~%s at current bandwidth\n\n",
		p.ModuleCount(), p.EstimatedSizeBytes, p.EstimatedTime.Round(1e8))

	for _, ph := range p.Phases() {
		fmt.Printf("%s:\n", ph.Name)
		if len(ph.Modules) == 0 {
			fmt.Println("  (none)")
			continue
		}
		for _, d := range ph.Modules {
			fmt.Printf("  %s (%s, %d bytes)\n", d.ID, d.Priority, d.EstimatedSizeBytes)
		}
	}
	return nil
}
