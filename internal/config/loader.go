package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Overrides carries CLI-flag values; zero values mean "flag not set"
// and are not applied. This mirrors the teacher's config/loader.go
// split between viper-bound flags and a plain overrides struct, kept
// here as one small struct since contextvault's flag surface is far
// smaller than the teacher's.
type Overrides struct {
	VaultDir string
	DBPath   string
	DataDir  string
	Mode     string
}

// Load resolves a Config through the four-step layering: built-in
// defaults, the JSON config file under dataDir, environment variables
// prefixed CONTEXTVAULT_, then explicit CLI overrides. dataDir may be
// empty, in which case the default data directory is used to locate
// the config file.
func Load(dataDir string, overrides Overrides) (*Config, error) {
	def := Default()
	if dataDir == "" {
		dataDir = def.DataDir
	}

	v := viper.New()
	v.SetConfigFile(ConfigFilePath(dataDir))
	v.SetConfigType("json")

	v.SetDefault("vaultDir", def.VaultDir)
	v.SetDefault("dbPath", filepath.Join(dataDir, "index.db"))
	v.SetDefault("dataDir", dataDir)
	v.SetDefault("mode", string(def.Mode))
	v.SetDefault("telemetry", def.Telemetry)
	v.SetDefault("thresholds.totalEntries.warn", def.Thresholds.TotalEntries.Warn)
	v.SetDefault("thresholds.totalEntries.critical", def.Thresholds.TotalEntries.Critical)
	v.SetDefault("thresholds.eventEntries.warn", def.Thresholds.EventEntries.Warn)
	v.SetDefault("thresholds.eventEntries.critical", def.Thresholds.EventEntries.Critical)
	v.SetDefault("thresholds.vaultSizeBytes.warn", def.Thresholds.VaultSizeBytes.Warn)
	v.SetDefault("thresholds.vaultSizeBytes.critical", def.Thresholds.VaultSizeBytes.Critical)
	v.SetDefault("thresholds.eventsWithoutTTL.warn", def.Thresholds.EventsWithoutTTL.Warn)
	v.SetDefault("thresholds.eventsWithoutTTL.critical", def.Thresholds.EventsWithoutTTL.Critical)
	v.SetDefault("embedding.kind", def.Embedding.Kind)
	v.SetDefault("embedding.endpoint", def.Embedding.Endpoint)
	v.SetDefault("embedding.dimensions", def.Embedding.Dimensions)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CONTEXTVAULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"vaultDir", "dbPath", "dataDir", "mode", "telemetry",
		"embedding.kind", "embedding.endpoint", "embedding.dimensions",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if overrides.VaultDir != "" {
		v.Set("vaultDir", overrides.VaultDir)
	}
	if overrides.DBPath != "" {
		v.Set("dbPath", overrides.DBPath)
	}
	if overrides.DataDir != "" {
		v.Set("dataDir", overrides.DataDir)
	}
	if overrides.Mode != "" {
		v.Set("mode", overrides.Mode)
	}

	cfg := &Config{}
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
