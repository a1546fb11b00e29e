// Package testsupport provides fixtures shared by cuesmith tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"cuesmith/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.AudioCache.Dir = filepath.Join(base, "audiocache")
	cfg := &cfgVal

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return cfg
}

// WithTimingThreshold overrides the timing deviation threshold.
func WithTimingThreshold(ms int) ConfigOption {
	return func(cfg *config.Config) { cfg.Timing.ThresholdMS = ms }
}

// WithMergeGap overrides the merge gap threshold.
func WithMergeGap(ms int) ConfigOption {
	return func(cfg *config.Config) { cfg.Merge.GapThresholdMS = ms }
}

// WithAudioCacheDisabled turns the audio cache off for the test.
func WithAudioCacheDisabled() ConfigOption {
	return func(cfg *config.Config) { cfg.AudioCache.Enabled = false }
}
