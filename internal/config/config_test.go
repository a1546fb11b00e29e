package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cuesmith/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantReports := filepath.Join(tempHome, ".local", "share", "cuesmith", "reports")
	if cfg.Paths.ReportDir != wantReports {
		t.Fatalf("unexpected report dir: got %q want %q", cfg.Paths.ReportDir, wantReports)
	}
	if cfg.Merge.GapThresholdMS != 1000 || cfg.Merge.MaxDurationMS != 7000 {
		t.Fatalf("unexpected merge defaults: %+v", cfg.Merge)
	}
	if cfg.Merge.MaxLines != 2 || cfg.Merge.MaxCharsPerLine != 42 {
		t.Fatalf("unexpected line defaults: %+v", cfg.Merge)
	}
	if cfg.Match.ToleranceMS != 500 || cfg.Match.ProvenanceToleranceMS != 50 {
		t.Fatalf("unexpected match defaults: %+v", cfg.Match)
	}
	if cfg.Speech.FrameMS != 30 || cfg.Speech.VADMode != 2 {
		t.Fatalf("unexpected speech defaults: %+v", cfg.Speech)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.AudioCache.Enabled {
		t.Fatal("expected audio cache enabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ReportDir, cfg.Paths.LogDir, cfg.AudioCache.Dir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cuesmith.toml")

	type payload struct {
		Merge struct {
			GapThresholdMS int `toml:"gap_threshold_ms"`
			MaxDurationMS  int `toml:"max_duration_ms"`
		} `toml:"merge"`
		Speech struct {
			VADMode int `toml:"vad_mode"`
			FrameMS int `toml:"frame_ms"`
		} `toml:"speech"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Merge.GapThresholdMS = 750
	custom.Merge.MaxDurationMS = 6000
	custom.Speech.VADMode = 3
	custom.Speech.FrameMS = 20
	custom.Logging.Format = "json"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Merge.GapThresholdMS != 750 || cfg.Merge.MaxDurationMS != 6000 {
		t.Fatalf("merge overrides lost: %+v", cfg.Merge)
	}
	if cfg.Speech.VADMode != 3 || cfg.Speech.FrameMS != 20 {
		t.Fatalf("speech overrides lost: %+v", cfg.Speech)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging override lost: %q", cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Match.ToleranceMS != 500 {
		t.Fatalf("match defaults lost: %+v", cfg.Match)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "gap_threshold_ms") {
		t.Fatalf("sample config missing merge settings: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Merge.GapThresholdMS != 1000 {
		t.Fatalf("sample values drifted from defaults: %+v", cfg.Merge)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Merge.GapThresholdMS = 8000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when gap threshold exceeds max duration")
	}

	cfg = config.Default()
	cfg.Speech.VADMode = 5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range vad mode")
	}

	cfg = config.Default()
	cfg.Speech.FrameMS = 25
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported frame length")
	}

	cfg = config.Default()
	cfg.Limits.SoftMaxCPS = 30
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when soft cps exceeds hard cps")
	}

	cfg = config.Default()
	cfg.AudioCache.Enabled = true
	cfg.AudioCache.MaxGiB = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive cache size")
	}
}
