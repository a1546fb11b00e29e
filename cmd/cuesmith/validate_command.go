package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cuesmith/internal/config"
	"cuesmith/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var fix bool
	var output string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate <file.srt>",
		Short: "Check a timeline against delivery rules, optionally repairing it",
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
			limits := limitsFromConfig(cfg)

			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if !fix {
				findings := validate.Validate(cues, limits)
				if jsonOut {
					return writeJSON(cmd, findings)
				}
				printFindings(cmd, findings)
				if hasErrors(findings) {
					return fmt.Errorf("%d rule violations", len(findings))
				}
				return nil
			}

			result := validate.Fix(cues, limits)
			outPath := resolveOutput(path, output, ".fixed")
			if err := writeCues(result.Cues, outPath); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, struct {
					Output    string             `json:"output"`
					Changes   []validate.Change  `json:"changes"`
					Unfixable []validate.Finding `json:"unfixable"`
				}{outPath, result.Changes, result.Unfixable})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Applied %d repairs, wrote %s\n", len(result.Changes), outPath)
			for _, change := range result.Changes {
				fmt.Fprintf(out, "  cue %d: %s (%s)\n", change.CueIndex, change.Rule, change.Detail)
			}
			if len(result.Unfixable) > 0 {
				fmt.Fprintf(out, "%d findings need manual attention:\n", len(result.Unfixable))
				printFindings(cmd, result.Unfixable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Apply mechanical repairs and write the result")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Repaired SRT path (default: <input>.fixed.srt)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit findings as JSON")

	return cmd
}

func limitsFromConfig(cfg *config.Config) validate.Limits {
	return validate.Limits{
		MaxLines:      cfg.Merge.MaxLines,
		MaxLineLength: cfg.Merge.MaxCharsPerLine,
		SoftMaxCPS:    cfg.Limits.SoftMaxCPS,
		HardMaxCPS:    cfg.Limits.HardMaxCPS,
		MinDurationMS: cfg.Limits.MinDurationMS,
		MaxDurationMS: cfg.Limits.MaxDurationMS,
		MinGapMS:      cfg.Limits.MinGapMS,
	}
}

func hasErrors(findings []validate.Finding) bool {
	for _, finding := range findings {
		if finding.Level == validate.LevelError {
			return true
		}
	}
	return false
}

func printFindings(cmd *cobra.Command, findings []validate.Finding) {
	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(out, "Timeline is clean")
		return
	}
	rows := make([][]string, 0, len(findings))
	for _, finding := range findings {
		rows = append(rows, []string{
			strconv.Itoa(finding.CueIndex),
			finding.Rule,
			string(finding.Level),
			finding.Message,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Cue", "Rule", "Level", "Message"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
}
