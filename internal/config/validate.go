package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateAudioCache(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMerge() error {
	if err := ensurePositiveMap(map[string]int{
		"merge.gap_threshold_ms":   c.Merge.GapThresholdMS,
		"merge.max_duration_ms":    c.Merge.MaxDurationMS,
		"merge.max_lines":          c.Merge.MaxLines,
		"merge.max_chars_per_line": c.Merge.MaxCharsPerLine,
	}); err != nil {
		return err
	}
	if c.Merge.GapThresholdMS >= c.Merge.MaxDurationMS {
		return errors.New("merge.gap_threshold_ms must be smaller than merge.max_duration_ms")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.VADMode < 0 || c.Speech.VADMode > 3 {
		return errors.New("speech.vad_mode must be between 0 and 3")
	}
	switch c.Speech.FrameMS {
	case 10, 20, 30:
	default:
		return fmt.Errorf("speech.frame_ms must be 10, 20 or 30, got %d", c.Speech.FrameMS)
	}
	return ensurePositiveMap(map[string]int{
		"speech.hangover_frames":         c.Speech.HangoverFrames,
		"speech.search_range_ms":         c.Speech.SearchRangeMS,
		"speech.extract_timeout_seconds": c.Speech.ExtractTimeoutSeconds,
	})
}

func (c *Config) validateLimits() error {
	if c.Limits.SoftMaxCPS > c.Limits.HardMaxCPS {
		return errors.New("limits.soft_max_cps must not exceed limits.hard_max_cps")
	}
	if c.Limits.MinDurationMS >= c.Limits.MaxDurationMS {
		return errors.New("limits.min_duration_ms must be smaller than limits.max_duration_ms")
	}
	return nil
}

func (c *Config) validateAudioCache() error {
	if c.AudioCache.Enabled {
		if strings.TrimSpace(c.AudioCache.Dir) == "" {
			return errors.New("audio_cache.dir must be set when audio_cache.enabled is true")
		}
		if c.AudioCache.MaxGiB <= 0 {
			return errors.New("audio_cache.max_gib must be positive when audio_cache.enabled is true")
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
