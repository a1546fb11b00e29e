package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cuesmith/internal/srt"
	"cuesmith/internal/srtops"
)

func newCreditCommand(ctx *commandContext) *cobra.Command {
	var output string
	var text string
	var durationMS int
	var at string

	cmd := &cobra.Command{
		Use:   "credit <file.srt>",
		Short: "Insert a translator credit cue in the first suitable gap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFile(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := srtops.DefaultCreditOptions()
			opts.Text = text
			opts.MinGapMS = cfg.Limits.MinGapMS
			if durationMS > 0 {
				opts.DurationMS = durationMS
			}
			if strings.TrimSpace(at) != "" {
				atMS, err := srt.ParseTimecode(strings.TrimSpace(at))
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				opts.AtMS = atMS
			}

			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			withCredit, err := srtops.InsertCredit(cues, opts)
			if err != nil {
				return err
			}

			outPath := resolveOutput(path, output, ".credited")
			if err := writeCues(withCredit, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted credit cue, wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.credited.srt)")
	cmd.Flags().StringVar(&text, "text", "", "Credit text (required)")
	cmd.Flags().IntVar(&durationMS, "duration-ms", 0, "Credit cue duration (default 3000)")
	cmd.Flags().StringVar(&at, "at", "", "Fixed timecode HH:MM:SS,mmm instead of gap search")
	return cmd
}
