// Root command for the wasmload CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/registry"
	"github.com/scribeware/wasmload/strategy"
)

// Global flag values.
var (
	flagConfigDir string
	flagManifest  string
	flagCacheDir  string
	flagStrategy  string
	flagDownlink  float64
	flagNetwork   string
	flagJSON      bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "wasmload",
	Short: "wasmload loads WebAssembly module sets progressively",
	Long: `wasmload reads a YAML module manifest and loads the described
WebAssembly modules in priority phases, adapting concurrency, timeouts,
and retries to the observed network conditions.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		if err := loadConfig(flagConfigDir); err != nil {
			return err
		}

		if flagVerbose {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			engine.SetLogger(logger)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.wasmload)")
	rootCmd.PersistentFlags().StringVar(&flagManifest, "manifest", "", "module manifest file (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "artifact cache directory (empty disables caching)")
	rootCmd.PersistentFlags().StringVar(&flagStrategy, "strategy", "", "force a strategy preset: fast, moderate, slow")
	rootCmd.PersistentFlags().Float64Var(&flagDownlink, "downlink", 0, "measured downstream bandwidth in Mbps")
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network-type", "", "effective network type: slow-2g, 2g, 3g, 4g")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(loadCmd)
}

// openRegistry loads the manifest named by flag or config.
func openRegistry() (*registry.Registry, error) {
	path := flagManifest
	if path == "" {
		path = cfg.GetString(cfgKeyManifest)
	}
	if path == "" {
		return nil, fmt.Errorf("no manifest: pass --manifest or set %q in config.yaml", cfgKeyManifest)
	}
	return registry.Load(path)
}

// conditions assembles the network snapshot from flags and config.
func conditions() strategy.Conditions {
	downlink := flagDownlink
	if downlink == 0 {
		downlink = cfg.GetFloat64(cfgKeyDownlink)
	}
	network := flagNetwork
	if network == "" {
		network = cfg.GetString(cfgKeyNetwork)
	}
	return strategy.Conditions{
		EffectiveType: network,
		DownlinkMbps:  downlink,
		Known:         downlink > 0 || network != "",
	}
}

// pickStrategy resolves the optional preset override.
func pickStrategy() (*strategy.Strategy, error) {
	name := flagStrategy
	if name == "" {
		name = cfg.GetString(cfgKeyStrategy)
	}
	if name == "" {
		return nil, nil
	}
	s, ok := strategy.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (valid: fast, moderate, slow)", name)
	}
	return &s, nil
}

// cacheDir resolves the artifact cache directory, empty meaning disabled.
func cacheDir() string {
	if flagCacheDir != "" {
		return flagCacheDir
	}
	return cfg.GetString(cfgKeyCacheDir)
}
