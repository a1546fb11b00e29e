package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cuesmith/internal/match"
)

func newDraftMapCommand(ctx *commandContext) *cobra.Command {
	var output string
	var toleranceMS int
	var fallbackMS int

	cmd := &cobra.Command{
		Use:   "draftmap <target.srt> <source.srt>",
		Short: "Snapshot target-to-source cue correspondence before merging",
		Long: "Builds a draft mapping from each target cue to the source cues it " +
			"covers, by timecode proximity. Run this before merge so timing QC can " +
			"still resolve correspondence after cue boundaries move.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath, err := requireFile(args[0])
			if err != nil {
				return err
			}
			sourcePath, err := requireFile(args[1])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tolerance := cfg.Match.ToleranceMS
			if toleranceMS > 0 {
				tolerance = toleranceMS
			}
			fallback := cfg.Match.DraftFallbackMS
			if fallbackMS > 0 {
				fallback = fallbackMS
			}

			target, err := loadCues(targetPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			source, err := loadCues(sourcePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			entries := match.BuildDraft(target, source, tolerance, fallback)
			doc := match.BuildDraftDocument(targetPath, sourcePath, tolerance, fallback, len(target), len(source), entries)

			outPath := strings.TrimSpace(output)
			if outPath == "" {
				ext := filepath.Ext(targetPath)
				outPath = strings.TrimSuffix(targetPath, ext) + ".draftmap.json"
			}
			if err := match.WriteDraft(doc, outPath); err != nil {
				return err
			}

			mapped := 0
			for _, entry := range entries {
				if len(entry.ENIndices) > 0 {
					mapped++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mapped %d/%d target cues to source cues\nDraft: %s\n",
				mapped, len(target), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Draft mapping path (default: <target>.draftmap.json)")
	cmd.Flags().IntVar(&toleranceMS, "tolerance-ms", 0, "Override match.tolerance_ms")
	cmd.Flags().IntVar(&fallbackMS, "fallback-ms", 0, "Override match.draft_fallback_ms")

	return cmd
}
