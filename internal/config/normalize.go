package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMerge()
	c.normalizeMatch()
	c.normalizeSpeech()
	c.normalizeTiming()
	c.normalizeLimits()
	c.normalizeExtend()
	if err := c.normalizeAudioCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = defaultReportDir
	}
	if c.Paths.ReportDir, err = expandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMerge() {
	if c.Merge.GapThresholdMS <= 0 {
		c.Merge.GapThresholdMS = defaultGapThresholdMS
	}
	if c.Merge.MaxDurationMS <= 0 {
		c.Merge.MaxDurationMS = defaultMaxDurationMS
	}
	if c.Merge.MaxLines <= 0 {
		c.Merge.MaxLines = defaultMaxLines
	}
	if c.Merge.MaxCharsPerLine <= 0 {
		c.Merge.MaxCharsPerLine = defaultMaxCharsPerLine
	}
}

func (c *Config) normalizeMatch() {
	if c.Match.ToleranceMS <= 0 {
		c.Match.ToleranceMS = defaultToleranceMS
	}
	if c.Match.ProvenanceToleranceMS <= 0 {
		c.Match.ProvenanceToleranceMS = defaultProvenanceToleranceMS
	}
	if c.Match.DraftFallbackMS <= 0 {
		c.Match.DraftFallbackMS = defaultDraftFallbackMS
	}
}

func (c *Config) normalizeSpeech() {
	if c.Speech.FrameMS <= 0 {
		c.Speech.FrameMS = defaultFrameMS
	}
	if c.Speech.HangoverFrames <= 0 {
		c.Speech.HangoverFrames = defaultHangoverFrames
	}
	if c.Speech.SearchRangeMS <= 0 {
		c.Speech.SearchRangeMS = defaultSearchRangeMS
	}
	c.Speech.FFmpegBinary = strings.TrimSpace(c.Speech.FFmpegBinary)
	if c.Speech.FFmpegBinary == "" {
		c.Speech.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Speech.ExtractTimeoutSeconds <= 0 {
		c.Speech.ExtractTimeoutSeconds = defaultExtractTimeoutSeconds
	}
}

func (c *Config) normalizeTiming() {
	if c.Timing.ThresholdMS <= 0 {
		c.Timing.ThresholdMS = defaultTimingThresholdMS
	}
}

func (c *Config) normalizeLimits() {
	if c.Limits.SoftMaxCPS <= 0 {
		c.Limits.SoftMaxCPS = defaultSoftMaxCPS
	}
	if c.Limits.HardMaxCPS <= 0 {
		c.Limits.HardMaxCPS = defaultHardMaxCPS
	}
	if c.Limits.MinDurationMS <= 0 {
		c.Limits.MinDurationMS = defaultMinDurationMS
	}
	if c.Limits.MaxDurationMS <= 0 {
		c.Limits.MaxDurationMS = defaultMaxDurationMS
	}
	if c.Limits.MinGapMS <= 0 {
		c.Limits.MinGapMS = defaultMinGapMS
	}
}

func (c *Config) normalizeExtend() {
	if c.Extend.TargetCPS <= 0 {
		c.Extend.TargetCPS = defaultTargetCPS
	}
	if c.Extend.MaxExtensionMS <= 0 {
		c.Extend.MaxExtensionMS = defaultMaxExtensionMS
	}
}

func (c *Config) normalizeAudioCache() error {
	var err error
	if strings.TrimSpace(c.AudioCache.Dir) == "" {
		c.AudioCache.Dir = defaultAudioCacheDir()
	}
	if c.AudioCache.Dir, err = expandPath(c.AudioCache.Dir); err != nil {
		return fmt.Errorf("audio_cache.dir: %w", err)
	}
	if c.AudioCache.MaxGiB <= 0 {
		c.AudioCache.MaxGiB = defaultAudioCacheMaxGiB
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
