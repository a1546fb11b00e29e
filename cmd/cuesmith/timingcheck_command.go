package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cuesmith/internal/audiocache"
	"cuesmith/internal/logging"
	"cuesmith/internal/match"
	"cuesmith/internal/merge"
	"cuesmith/internal/speech"
	"cuesmith/internal/srt"
	"cuesmith/internal/timingqc"
)

func newTimingCheckCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var sourcePath string
	var mergeReportPath string
	var draftPath string
	var reportPath string
	var thresholdMS int
	var searchRangeMS int

	cmd := &cobra.Command{
		Use:   "timingcheck <target.srt>",
		Short: "Check cue boundaries against detected speech",
		Long: "Runs voice activity detection over the audio, measures each cue " +
			"boundary against the nearest speech transition, and classifies timing " +
			"issues. Pass the source subtitles plus a merge report or draft mapping " +
			"so issues already present in the source are labeled as inherited.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath, err := requireFile(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(audioPath) == "" {
				return fmt.Errorf("--audio is required")
			}
			media, err := requireFile(audioPath)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := logging.NewComponentLogger(ctx.ensureLogger(), "timingcheck")

			threshold := cfg.Timing.ThresholdMS
			if thresholdMS > 0 {
				threshold = thresholdMS
			}
			searchRange := cfg.Speech.SearchRangeMS
			if searchRangeMS > 0 {
				searchRange = searchRangeMS
			}

			target, err := loadCues(targetPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var source []srt.Cue
			if strings.TrimSpace(sourcePath) != "" {
				path, err := requireFile(sourcePath)
				if err != nil {
					return err
				}
				source, err = loadCues(path, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			var merges []merge.Provenance
			if strings.TrimSpace(mergeReportPath) != "" {
				merges, err = merge.LoadReport(mergeReportPath)
				if err != nil {
					return err
				}
			}
			var draft []match.DraftEntry
			if strings.TrimSpace(draftPath) != "" {
				draft, err = match.LoadDraft(draftPath)
				if err != nil {
					return err
				}
			}

			matches := map[int][]srt.Cue{}
			if len(source) > 0 {
				matches = match.Match(target, source, merges, draft, match.Options{
					ToleranceMS:           cfg.Match.ToleranceMS,
					ProvenanceToleranceMS: cfg.Match.ProvenanceToleranceMS,
				})
			}

			wavPath, cleanup, err := resolveAudio(cmd, ctx, media)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			pcm, sampleRate, err := audiocache.ReadWAV(wavPath)
			if err != nil {
				return err
			}
			classifier, err := speech.NewVAD(cfg.Speech.VADMode)
			if err != nil {
				return err
			}
			frames := speech.BuildMap(pcm, sampleRate, cfg.Speech.FrameMS, classifier)
			frames = speech.Smooth(frames, cfg.Speech.HangoverFrames)
			speechStarts, speechEnds := speech.Transitions(frames, cfg.Speech.FrameMS)
			logger.Info("speech map built",
				logging.Int("frames", len(frames)),
				logging.Int("speech_segments", len(speechStarts)),
			)

			results := make([]timingqc.Result, 0, len(target))
			issues := make([][]timingqc.Issue, 0, len(target))
			for i, cue := range target {
				var prev, next *srt.Cue
				if i > 0 {
					prev = &target[i-1]
				}
				if i < len(target)-1 {
					next = &target[i+1]
				}
				result := timingqc.Analyze(cue, matches[cue.Index], speechStarts, speechEnds, searchRange)
				results = append(results, result)
				issues = append(issues, timingqc.Classify(result, threshold, prev, next))
			}

			params := timingqc.Parameters{
				ThresholdMS:    threshold,
				SearchRangeMS:  searchRange,
				FrameMS:        cfg.Speech.FrameMS,
				HangoverFrames: cfg.Speech.HangoverFrames,
				VADMode:        cfg.Speech.VADMode,
			}
			report := timingqc.BuildReport(targetPath, sourcePath, media, params, results, issues)

			outPath := strings.TrimSpace(reportPath)
			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(targetPath), filepath.Ext(targetPath))
				outPath = filepath.Join(cfg.Paths.ReportDir, base+".timing.json")
			}
			if err := timingqc.WriteReport(report, outPath); err != nil {
				return err
			}

			printTimingSummary(cmd, report)
			fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Media or WAV file to run VAD over (required)")
	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source-language SRT for inherited-issue labeling")
	cmd.Flags().StringVar(&mergeReportPath, "merge-report", "", "Merge report JSON for provenance matching")
	cmd.Flags().StringVar(&draftPath, "draft", "", "Draft mapping JSON for pre-merge correspondence")
	cmd.Flags().StringVar(&reportPath, "report", "", "Timing report path (default: under report_dir)")
	cmd.Flags().IntVar(&thresholdMS, "threshold-ms", 0, "Override timing.threshold_ms")
	cmd.Flags().IntVar(&searchRangeMS, "search-range-ms", 0, "Override speech.search_range_ms")

	return cmd
}

// resolveAudio returns a 16 kHz mono WAV for the given media file, going
// through the audio cache when enabled. The cleanup func removes temporary
// extractions and is nil when nothing needs removing.
func resolveAudio(cmd *cobra.Command, ctx *commandContext, media string) (string, func(), error) {
	if strings.EqualFold(filepath.Ext(media), ".wav") {
		return media, nil, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", nil, err
	}
	timeout := time.Duration(cfg.Speech.ExtractTimeoutSeconds) * time.Second

	if cfg.AudioCache.Enabled {
		cache, err := audiocache.Open(audiocache.Options{
			Root:           cfg.AudioCache.Dir,
			MaxGiB:         cfg.AudioCache.MaxGiB,
			FFmpegBinary:   cfg.Speech.FFmpegBinary,
			ExtractTimeout: timeout,
		}, ctx.ensureLogger())
		if err != nil {
			return "", nil, err
		}
		wav, err := cache.Audio(cmd.Context(), media)
		closeErr := cache.Close()
		if err != nil {
			return "", nil, err
		}
		if closeErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: close audio cache: %v\n", closeErr)
		}
		return wav, nil, nil
	}

	tmp, err := os.MkdirTemp("", "cuesmith-audio-")
	if err != nil {
		return "", nil, fmt.Errorf("create extraction directory: %w", err)
	}
	wav := filepath.Join(tmp, "audio.wav")
	if err := audiocache.ExtractAudio(cmd.Context(), cfg.Speech.FFmpegBinary, media, wav, timeout); err != nil {
		_ = os.RemoveAll(tmp)
		return "", nil, err
	}
	return wav, func() { _ = os.RemoveAll(tmp) }, nil
}

func printTimingSummary(cmd *cobra.Command, report timingqc.Report) {
	out := cmd.OutOrStdout()
	summary := report.Summary
	fmt.Fprintf(out, "Checked %d cues, %d flagged (%d issues inherited from source)\n",
		summary.TotalCues, summary.FlaggedCues, summary.InheritedIssues)
	fmt.Fprintf(out, "Average deltas: start %+.0f ms, end %+.0f ms; ideal anticipation on %d cues\n",
		summary.AverageStartDelta, summary.AverageEndDelta, summary.IdealAnticipation)

	rows := make([][]string, 0, summary.FlaggedCues)
	for _, entry := range report.Cues {
		for _, issue := range entry.Issues {
			inherited := ""
			if issue.Inherited {
				inherited = "yes"
			}
			rows = append(rows, []string{
				strconv.Itoa(entry.CueIndex),
				srt.FormatTimecode(entry.StartMS),
				string(issue.Kind),
				string(issue.Severity),
				strconv.Itoa(issue.DeltaMS),
				inherited,
			})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No timing issues found")
		return
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Cue", "Start", "Issue", "Severity", "Delta (ms)", "Inherited"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
