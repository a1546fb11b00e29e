package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/srtops"
)

func newPatchCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "patch <base.srt> <replacements.srt>",
		Short: "Splice re-translated cues back into the full timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath, err := requireFile(args[0])
			if err != nil {
				return err
			}
			replPath, err := requireFile(args[1])
			if err != nil {
				return err
			}

			base, err := loadCues(basePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			replacements, err := loadCues(replPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			patched, err := srtops.PatchIn(base, replacements)
			if err != nil {
				return err
			}

			outPath := resolveOutput(basePath, output, ".patched")
			if err := writeCues(patched, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patched %d cues into %s\n", len(replacements), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <base>.patched.srt)")
	return cmd
}
