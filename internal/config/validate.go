package config

import "github.com/mvp-joe/contextvault/internal/coreutil"

// Validate checks bounds and consistency on a resolved Config, mirroring
// the teacher's config/validate.go range-checking style.
func Validate(cfg *Config) error {
	if cfg.VaultDir == "" {
		return coreutil.NewError(coreutil.CodeInvalidArgument, "vaultDir must not be empty")
	}
	if cfg.DBPath == "" {
		return coreutil.NewError(coreutil.CodeInvalidArgument, "dbPath must not be empty")
	}
	if cfg.DataDir == "" {
		return coreutil.NewError(coreutil.CodeInvalidArgument, "dataDir must not be empty")
	}

	switch cfg.Mode {
	case ModeLocal, ModeHosted:
	default:
		return coreutil.NewError(coreutil.CodeInvalidArgument, "mode must be \"local\" or \"hosted\"")
	}

	if cfg.Embedding.Dimensions <= 0 {
		return coreutil.NewError(coreutil.CodeInvalidArgument, "embedding.dimensions must be positive")
	}

	for name, th := range map[string]struct {
		warn, critical float64
	}{
		"thresholds.totalEntries":     {cfg.Thresholds.TotalEntries.Warn, cfg.Thresholds.TotalEntries.Critical},
		"thresholds.eventEntries":     {cfg.Thresholds.EventEntries.Warn, cfg.Thresholds.EventEntries.Critical},
		"thresholds.vaultSizeBytes":   {cfg.Thresholds.VaultSizeBytes.Warn, cfg.Thresholds.VaultSizeBytes.Critical},
		"thresholds.eventsWithoutTTL": {cfg.Thresholds.EventsWithoutTTL.Warn, cfg.Thresholds.EventsWithoutTTL.Critical},
	} {
		if th.warn < 0 || th.critical < 0 {
			return coreutil.NewError(coreutil.CodeInvalidArgument, name+" must not be negative")
		}
		if th.critical < th.warn {
			return coreutil.NewError(coreutil.CodeInvalidArgument, name+".critical must be >= warn")
		}
	}
	return nil
}
