package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cuesmith/internal/logging"
	"cuesmith/internal/merge"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var reportPath string
	var gapMS int
	var maxDurationMS int
	var maxLines int
	var maxChars int

	cmd := &cobra.Command{
		Use:   "merge <file.srt>",
		Short: "Fuse short adjacent cues into readable subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := requireFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := merge.Options{
				GapThresholdMS: cfg.Merge.GapThresholdMS,
				MaxDurationMS:  cfg.Merge.MaxDurationMS,
				MaxLines:       cfg.Merge.MaxLines,
				MaxChars:       cfg.Merge.MaxCharsPerLine,
			}
			if gapMS > 0 {
				opts.GapThresholdMS = gapMS
			}
			if maxDurationMS > 0 {
				opts.MaxDurationMS = maxDurationMS
			}
			if maxLines > 0 {
				opts.MaxLines = maxLines
			}
			if maxChars > 0 {
				opts.MaxChars = maxChars
			}

			cues, err := loadCues(source, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			merged, provenance := merge.Merge(cues, opts)

			outPath := resolveOutput(source, output, ".merged")
			if err := writeCues(merged, outPath); err != nil {
				return err
			}

			logger := logging.NewComponentLogger(ctx.ensureLogger(), "merge")
			logger.Info("timeline merged",
				logging.Int("source_cues", len(cues)),
				logging.Int("output_cues", len(merged)),
				logging.Int("merges", len(provenance)),
			)

			report := merge.BuildReport(source, outPath, uuid.NewString(), opts, len(cues), len(merged), provenance)
			target := strings.TrimSpace(reportPath)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
				target = filepath.Join(cfg.Paths.ReportDir, base+".merge.json")
			}
			if err := merge.WriteReport(report, target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Merged %d cues into %d (%d fusions)\n", len(cues), len(merged), len(provenance))
			fmt.Fprintf(out, "Output: %s\nReport: %s\n", outPath, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.merged.srt)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Merge report path (default: under report_dir)")
	cmd.Flags().IntVar(&gapMS, "gap-ms", 0, "Override merge.gap_threshold_ms")
	cmd.Flags().IntVar(&maxDurationMS, "max-duration-ms", 0, "Override merge.max_duration_ms")
	cmd.Flags().IntVar(&maxLines, "max-lines", 0, "Override merge.max_lines")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "Override merge.max_chars_per_line")

	return cmd
}
