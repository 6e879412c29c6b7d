// Config loading for the wasmload CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	defaultConfigDir = ".wasmload"

	cfgKeyManifest = "manifest"
	cfgKeyCacheDir = "cache_dir"
	cfgKeyStrategy = "strategy"
	cfgKeyDownlink = "downlink_mbps"
	cfgKeyNetwork  = "effective_type"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# wasmload configuration

# Module manifest (overridable by --manifest)
# manifest: modules.yaml

# Artifact cache directory (empty disables caching)
# cache_dir: .wasmload-cache

# Force a strategy preset: fast, moderate, slow
# strategy:

# Network conditions used when flags are absent
# downlink_mbps: 0
# effective_type:
`

// cfg holds the loaded configuration. Set by PersistentPreRunE so all
// subcommands can use it.
var cfg *viper.Viper

// loadConfig reads config.yaml from the config directory, creating the
// directory and a commented default file on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) error {
	if configDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		configDir = filepath.Join(cwd, defaultConfigDir)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg = v
	return nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
