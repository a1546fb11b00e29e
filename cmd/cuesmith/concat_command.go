package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/srt"
	"cuesmith/internal/srtops"
)

func newConcatCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "concat <batch1.srt> <batch2.srt> [more.srt...]",
		Short: "Join translated batches into one renumbered timeline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			batches := make([][]srt.Cue, 0, len(args))
			total := 0
			for _, arg := range args {
				path, err := requireFile(arg)
				if err != nil {
					return err
				}
				cues, err := loadCues(path, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				batches = append(batches, cues)
				total += len(cues)
			}

			joined, err := srtops.Concat(batches...)
			if err != nil {
				return err
			}
			if err := writeCues(joined, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %d batches (%d cues) into %s\n",
				len(batches), total, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Combined SRT path (required)")
	return cmd
}
