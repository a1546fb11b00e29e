package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/srtops"
)

func newExtendCommand(ctx *commandContext) *cobra.Command {
	var output string
	var targetCPS float64
	var maxExtensionMS int

	cmd := &cobra.Command{
		Use:   "extend <file.srt>",
		Short: "Lengthen fast-reading cues toward a target reading speed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := srtops.ExtendOptions{
				TargetCPS:      cfg.Extend.TargetCPS,
				MinGapMS:       cfg.Limits.MinGapMS,
				MaxExtensionMS: cfg.Extend.MaxExtensionMS,
			}
			if targetCPS > 0 {
				opts.TargetCPS = targetCPS
			}
			if maxExtensionMS > 0 {
				opts.MaxExtensionMS = maxExtensionMS
			}

			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			extended, count := srtops.ExtendEndTimes(cues, opts)
			outPath := resolveOutput(path, output, ".extended")
			if err := writeCues(extended, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extended %d/%d cues, wrote %s\n", count, len(cues), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.extended.srt)")
	cmd.Flags().Float64Var(&targetCPS, "target-cps", 0, "Override extend.target_cps")
	cmd.Flags().IntVar(&maxExtensionMS, "max-extension-ms", 0, "Override extend.max_extension_ms")
	return cmd
}
