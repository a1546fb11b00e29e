package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ReportDir string `toml:"report_dir"`
	LogDir    string `toml:"log_dir"`
}

// Merge contains the merge engine thresholds.
type Merge struct {
	GapThresholdMS  int `toml:"gap_threshold_ms"`
	MaxDurationMS   int `toml:"max_duration_ms"`
	MaxLines        int `toml:"max_lines"`
	MaxCharsPerLine int `toml:"max_chars_per_line"`
}

// Match contains the correspondence matcher tolerances.
type Match struct {
	ToleranceMS           int `toml:"tolerance_ms"`
	ProvenanceToleranceMS int `toml:"provenance_tolerance_ms"`
	DraftFallbackMS       int `toml:"draft_fallback_ms"`
}

// Speech contains voice-activity detection settings and the audio decoder.
type Speech struct {
	VADMode               int    `toml:"vad_mode"`
	FrameMS               int    `toml:"frame_ms"`
	HangoverFrames        int    `toml:"hangover_frames"`
	SearchRangeMS         int    `toml:"search_range_ms"`
	FFmpegBinary          string `toml:"ffmpeg_binary"`
	ExtractTimeoutSeconds int    `toml:"extract_timeout_seconds"`
}

// Timing contains the timing-issue classifier threshold.
type Timing struct {
	ThresholdMS int `toml:"threshold_ms"`
}

// Limits contains the delivery constraints the validator checks.
type Limits struct {
	SoftMaxCPS    float64 `toml:"soft_max_cps"`
	HardMaxCPS    float64 `toml:"hard_max_cps"`
	MinDurationMS int     `toml:"min_duration_ms"`
	MaxDurationMS int     `toml:"max_duration_ms"`
	MinGapMS      int     `toml:"min_gap_ms"`
}

// Extend contains end-time extension settings.
type Extend struct {
	TargetCPS      float64 `toml:"target_cps"`
	MaxExtensionMS int     `toml:"max_extension_ms"`
}

// AudioCache contains configuration for the extracted-audio cache.
type AudioCache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	MaxGiB  int    `toml:"max_gib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cuesmith. Every threshold
// the pipeline consults lives here and is threaded explicitly into the
// packages that use it; nothing reads a mutable global.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Merge      Merge      `toml:"merge"`
	Match      Match      `toml:"match"`
	Speech     Speech     `toml:"speech"`
	Timing     Timing     `toml:"timing"`
	Limits     Limits     `toml:"limits"`
	Extend     Extend     `toml:"extend"`
	AudioCache AudioCache `toml:"audio_cache"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cuesmith/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cuesmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the tools write into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReportDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.AudioCache.Enabled && strings.TrimSpace(c.AudioCache.Dir) != "" {
		if err := os.MkdirAll(c.AudioCache.Dir, 0o755); err != nil {
			return fmt.Errorf("create audio cache directory %q: %w", c.AudioCache.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultAudioCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cuesmith", "audio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/cuesmith/audio"
	}
	return filepath.Join(home, ".cache", "cuesmith", "audio")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
