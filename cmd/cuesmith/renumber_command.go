package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/srtops"
)

func newRenumberCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "renumber <file.srt>",
		Short: "Rewrite cue indices sequentially from 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFile(args[0])
			if err != nil {
				return err
			}
			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			outPath := resolveOutput(path, output, ".renumbered")
			if err := writeCues(srtops.Renumber(cues), outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renumbered %d cues, wrote %s\n", len(cues), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.renumbered.srt)")
	return cmd
}
