package testsupport

import (
	"path/filepath"
	"testing"

	"dupescan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithThreshold overrides the default similarity threshold.
func WithThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.DefaultThreshold = threshold
	}
}

// WithCacheMaxEntries bounds the fingerprint cache for the test.
func WithCacheMaxEntries(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cache.MaxEntries = n
	}
}
