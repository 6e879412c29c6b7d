// Load command executes the full progressive load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/cache"
	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/events"
	"github.com/scribeware/wasmload/fetch"
	"github.com/scribeware/wasmload/loader"
)

var (
	flagPlain bool
	flagCall  string
)

var loadCmd = &cobra.Command{
	Use:   "load [features...]",
	Short: "Load the modules for a feature set",
	Long: `Load fetches, compiles, and instantiates the modules the feature set
requires, in priority phases. On a terminal it shows live per-module
progress; use --plain for line-oriented output.

Example:
  wasmload load search --manifest modules.yaml
  wasmload load search export --call core:run`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&flagPlain, "plain", false, "line-oriented output instead of the progress UI")
	loadCmd.Flags().StringVar(&flagCall, "call", "", "invoke module:function after loading")
}

func runLoad(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	strat, err := pickStrategy()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	eng, err := engine.New(ctx)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close(ctx)

	var fetcher wasmload.Fetcher = fetch.NewHTTP(nil)
	var primer *cache.Primer
	if dir := cacheDir(); dir != "" {
		store, err := cache.Open(dir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()
		primer = cache.NewPrimer(store, fetcher)
		defer primer.Close()
		fetcher = cache.NewFetcher(store, fetcher)
	}

	ld, err := loader.New(loader.Config{
		Registry:   reg,
		Engine:     eng,
		Fetcher:    fetcher,
		Conditions: conditions(),
		Strategy:   strat,
		Primer:     primer,
	})
	if err != nil {
		return err
	}
	defer ld.Close(ctx)

	useTUI := !flagPlain && !flagJSON && term.IsTerminal(int(os.Stdout.Fd()))

	var proxy *loader.Proxy
	if useTUI {
		proxy, err = loadInteractive(ctx, ld, args)
	} else {
		proxy, err = loadPlain(ctx, ld, args)
	}
	if err != nil {
		return err
	}

	if err := printSummary(proxy); err != nil {
		return err
	}

	if flagCall != "" {
		return callExport(ctx, proxy, flagCall)
	}
	return nil
}

// loadPlain runs the load with one log line per event.
func loadPlain(ctx context.Context, ld *loader.Loader, features []string) (*loader.Proxy, error) {
	obs := events.ObserverFunc(func(e events.Event) {
		switch e.Type {
		case events.ModuleLoadProgress:
			// Too chatty for line output.
		case events.ModuleLoadFailed, events.LoadingFailed, events.FallbackFailed, events.OptionalFailed:
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", e.Type, e.Module, e.Err)
		default:
			if e.Module != "" {
				fmt.Printf("%s %s\n", e.Type, e.Module)
			} else {
				fmt.Printf("%s\n", e.Type)
			}
		}
	})
	ld.Events().Subscribe(obs)
	defer ld.Events().Unsubscribe(obs)

	return ld.LoadModules(ctx, features)
}

func printSummary(proxy *loader.Proxy) error {
	m := proxy.Metrics()

	if flagJSON {
		out, err := json.MarshalIndent(struct {
			Modules []string       `json:"modules"`
			Metrics loader.Metrics `json:"metrics"`
		}{proxy.Modules(), m}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("\nLoaded %d module(s) with strategy %s in %s\n",
		m.LoadedModules, m.Strategy, m.TotalLoadTime.Round(1e6))
	for _, id := range proxy.Modules() {
		info, ok := proxy.ModuleInfo(id)
		if !ok {
			continue
		}
		fmt.Printf("  %s: %d export(s), %d bytes linear memory, %s\n",
			id, info.ExportCount, info.MemorySnapshot, info.LoadDuration.Round(1e6))
	}
	if m.FailedLoads > 0 {
		fmt.Printf("  %d load(s) failed\n", m.FailedLoads)
	}

	usage := proxy.MemoryUsage()
	fmt.Printf("Memory: %d bytes wasm, %d bytes host heap\n",
		usage.WasmTotalBytes, usage.HostHeapBytes)
	return nil
}

// callExport parses module:function and invokes it with no arguments.
func callExport(ctx context.Context, proxy *loader.Proxy, target string) error {
	parts := strings.SplitN(target, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid --call %q (expected module:function)", target)
	}

	out, err := proxy.Call(ctx, parts[0], parts[1])
	if err != nil {
		return fmt.Errorf("call %s: %w", target, err)
	}
	fmt.Printf("%s -> %v\n", target, out)
	return nil
}
