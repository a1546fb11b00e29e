package config

const (
	defaultReportDir = "~/.local/share/cuesmith/reports"
	defaultLogDir    = "~/.local/share/cuesmith/logs"

	defaultGapThresholdMS  = 1000
	defaultMaxDurationMS   = 7000
	defaultMaxLines        = 2
	defaultMaxCharsPerLine = 42

	defaultToleranceMS           = 500
	defaultProvenanceToleranceMS = 50
	defaultDraftFallbackMS       = 1000

	defaultVADMode               = 2
	defaultFrameMS               = 30
	defaultHangoverFrames        = 10
	defaultSearchRangeMS         = 2000
	defaultFFmpegBinary          = "ffmpeg"
	defaultExtractTimeoutSeconds = 600

	defaultTimingThresholdMS = 500

	defaultSoftMaxCPS    = 17.0
	defaultHardMaxCPS    = 22.0
	defaultMinDurationMS = 1000
	defaultMinGapMS      = 83

	defaultTargetCPS      = 15.0
	defaultMaxExtensionMS = 2000

	defaultAudioCacheMaxGiB = 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ReportDir: defaultReportDir,
			LogDir:    defaultLogDir,
		},
		Merge: Merge{
			GapThresholdMS:  defaultGapThresholdMS,
			MaxDurationMS:   defaultMaxDurationMS,
			MaxLines:        defaultMaxLines,
			MaxCharsPerLine: defaultMaxCharsPerLine,
		},
		Match: Match{
			ToleranceMS:           defaultToleranceMS,
			ProvenanceToleranceMS: defaultProvenanceToleranceMS,
			DraftFallbackMS:       defaultDraftFallbackMS,
		},
		Speech: Speech{
			VADMode:               defaultVADMode,
			FrameMS:               defaultFrameMS,
			HangoverFrames:        defaultHangoverFrames,
			SearchRangeMS:         defaultSearchRangeMS,
			FFmpegBinary:          defaultFFmpegBinary,
			ExtractTimeoutSeconds: defaultExtractTimeoutSeconds,
		},
		Timing: Timing{
			ThresholdMS: defaultTimingThresholdMS,
		},
		Limits: Limits{
			SoftMaxCPS:    defaultSoftMaxCPS,
			HardMaxCPS:    defaultHardMaxCPS,
			MinDurationMS: defaultMinDurationMS,
			MaxDurationMS: defaultMaxDurationMS,
			MinGapMS:      defaultMinGapMS,
		},
		Extend: Extend{
			TargetCPS:      defaultTargetCPS,
			MaxExtensionMS: defaultMaxExtensionMS,
		},
		AudioCache: AudioCache{
			Enabled: true,
			Dir:     defaultAudioCacheDir(),
			MaxGiB:  defaultAudioCacheMaxGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
