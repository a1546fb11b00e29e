package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/srtops"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var output string
	var indexSpec string

	cmd := &cobra.Command{
		Use:   "extract <file.srt>",
		Short: "Pull selected cues into a new file, keeping their indices",
		Long: "Extracts the named cues for re-translation. Original indices are " +
			"preserved so the patch command can splice replacements back in.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFile(args[0])
			if err != nil {
				return err
			}
			if indexSpec == "" {
				return fmt.Errorf("--cues is required")
			}
			indices, err := parseIndexList(indexSpec)
			if err != nil {
				return err
			}

			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			selected := srtops.Extract(cues, indices)
			if len(selected) == 0 {
				return fmt.Errorf("none of the requested cues exist in %s", path)
			}

			outPath := resolveOutput(path, output, ".extracted")
			if err := writeCues(selected, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d/%d requested cues into %s\n",
				len(selected), len(indices), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.extracted.srt)")
	cmd.Flags().StringVar(&indexSpec, "cues", "", "Cue indices, e.g. 3,7,10-14 (required)")
	return cmd
}
