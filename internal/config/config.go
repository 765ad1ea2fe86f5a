// Package config resolves contextvault's configuration through the
// four-step layering in spec.md §6.3: built-in defaults → config file
// (<dataDir>/config.json) → environment variables → CLI arguments, each
// source overriding the last. Modeled on the teacher's
// internal/config/loader.go viper wiring.
package config

import (
	"os"
	"path/filepath"

	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// Mode selects first-call-reindex policy (spec.md §4.5, §6.3).
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeHosted Mode = "hosted"
)

// Config is the fully resolved configuration for a contextvault process.
type Config struct {
	VaultDir   string               `mapstructure:"vaultDir"`
	DBPath     string               `mapstructure:"dbPath"`
	DataDir    string               `mapstructure:"dataDir"`
	Mode       Mode                 `mapstructure:"mode"`
	Telemetry  bool                 `mapstructure:"telemetry"`
	Thresholds vaultstate.Thresholds `mapstructure:"thresholds"`

	// Embedding configures the embedding oracle; not part of spec.md's
	// recognized keys table but required to actually construct one (see
	// SPEC_FULL.md §4.5).
	Embedding EmbeddingConfig `mapstructure:"embedding"`
}

// EmbeddingConfig configures the embedding provider used as the spec's
// `embed` oracle.
type EmbeddingConfig struct {
	Kind       string `mapstructure:"kind"`
	Endpoint   string `mapstructure:"endpoint"`
	Dimensions int    `mapstructure:"dimensions"`
}

// Default returns built-in defaults: a vault under the user's home
// directory, a database alongside it, and a data directory for
// config/logs/marker state.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".contextvault")
	vaultDir := filepath.Join(home, "contextvault-vault")

	return &Config{
		VaultDir:  vaultDir,
		DBPath:    filepath.Join(dataDir, "index.db"),
		DataDir:   dataDir,
		Mode:      ModeLocal,
		Telemetry: false,
		Thresholds: vaultstate.DefaultThresholds(),
		Embedding: EmbeddingConfig{
			Kind:       "mock",
			Endpoint:   "http://127.0.0.1:8765/embed",
			Dimensions: 384,
		},
	}
}

// ConfigFileName is the JSON config file recognized under DataDir
// (spec.md §6.3).
const ConfigFileName = "config.json"

// ConfigFilePath returns the path to the config file inside dataDir.
func ConfigFilePath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}
