package embed

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and parameterizes a Provider.
type Config struct {
	// Kind is "http", "mock", or "" (defaults to "http").
	Kind string
	// Endpoint is the embedding service URL (http kind only).
	Endpoint string
	// Dimensions overrides the default vector width.
	Dimensions int
}

// NewProvider constructs a Provider from Config.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Kind {
	case "", "http":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("embed: http provider requires an endpoint")
		}
		return NewHTTPProvider(cfg.Endpoint, cfg.Dimensions), nil
	case "mock":
		return NewMockProvider(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("embed: unsupported provider kind %q", cfg.Kind)
	}
}

// handle is the process-wide lazily-initialized embedding provider
// described in spec.md §9: initialized on first call, reset to nil on
// empty-output detection so the next call re-initializes from scratch.
// Only contextvault's coordinator should go through this path; the index
// and retrieve packages otherwise take a Provider as an explicit
// dependency for testability.
type handle struct {
	mu       sync.Mutex
	cfg      Config
	provider Provider
}

var globalHandle = &handle{}

// Configure sets the configuration used to lazily construct the global
// provider. Must be called once during startup before the first Embed.
func Configure(cfg Config) {
	globalHandle.mu.Lock()
	defer globalHandle.mu.Unlock()
	globalHandle.cfg = cfg
	globalHandle.provider = nil
}

// Embed embeds texts using the process-wide provider, initializing it on
// first use and re-initializing it if the previous attempt produced no
// vectors for a non-empty input (a signal the underlying provider process
// died or is misconfigured).
func Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	globalHandle.mu.Lock()
	if globalHandle.provider == nil {
		p, err := NewProvider(globalHandle.cfg)
		if err != nil {
			globalHandle.mu.Unlock()
			return nil, fmt.Errorf("initialize embedding provider: %w", err)
		}
		globalHandle.provider = p
	}
	provider := globalHandle.provider
	globalHandle.mu.Unlock()

	out, err := provider.Embed(ctx, texts, mode)
	if err != nil {
		return nil, err
	}
	if len(texts) > 0 && len(out) == 0 {
		globalHandle.mu.Lock()
		if globalHandle.provider == provider {
			globalHandle.provider = nil
		}
		globalHandle.mu.Unlock()
		return nil, fmt.Errorf("embed: provider returned no vectors, will re-initialize on next call")
	}
	return out, nil
}

// CloseGlobal releases the process-wide provider, if any.
func CloseGlobal() error {
	globalHandle.mu.Lock()
	defer globalHandle.mu.Unlock()
	if globalHandle.provider == nil {
		return nil
	}
	err := globalHandle.provider.Close()
	globalHandle.provider = nil
	return err
}
