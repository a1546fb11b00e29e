package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/sdh"
)

func newSDHCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sdh <file.srt>",
		Short: "Strip SDH annotations (sound descriptions, speaker labels, music)",
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

			stripped, dropped := sdh.Strip(cues)
			if len(stripped) == 0 {
				return fmt.Errorf("every cue in %s was SDH-only; refusing to write an empty file", path)
			}

			outPath := resolveOutput(path, output, ".nosdh")
			if err := writeCues(stripped, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Kept %d cues, dropped %d SDH-only cues, wrote %s\n",
				len(stripped), dropped, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.nosdh.srt)")
	return cmd
}
