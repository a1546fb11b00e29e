package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesmith/internal/audiocache"
	"cuesmith/internal/speech"
	"cuesmith/internal/srtops"
)

func newExtendToSpeechCommand(ctx *commandContext) *cobra.Command {
	var output string
	var audioPath string
	var searchRangeMS int

	cmd := &cobra.Command{
		Use:   "extend-to-speech <file.srt>",
		Short: "Move cue ends forward to the detected end of speech",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFile(args[0])
			if err != nil {
				return err
			}
			if audioPath == "" {
				return fmt.Errorf("--audio is required")
			}
			media, err := requireFile(audioPath)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			searchRange := cfg.Speech.SearchRangeMS
			if searchRangeMS > 0 {
				searchRange = searchRangeMS
			}

			cues, err := loadCues(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			wavPath, cleanup, err := resolveAudio(cmd, ctx, media)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			pcm, sampleRate, err := audiocache.ReadWAV(wavPath)
			if err != nil {
				return err
			}
			classifier, err := speech.NewVAD(cfg.Speech.VADMode)
			if err != nil {
				return err
			}
			frames := speech.BuildMap(pcm, sampleRate, cfg.Speech.FrameMS, classifier)
			frames = speech.Smooth(frames, cfg.Speech.HangoverFrames)
			_, speechEnds := speech.Transitions(frames, cfg.Speech.FrameMS)

			extended, count := srtops.ExtendToSpeech(cues, speechEnds, searchRange, cfg.Limits.MinGapMS)
			outPath := resolveOutput(path, output, ".extended")
			if err := writeCues(extended, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extended %d/%d cues to speech ends, wrote %s\n",
				count, len(cues), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT path (default: <input>.extended.srt)")
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Media or WAV file to run VAD over (required)")
	cmd.Flags().IntVar(&searchRangeMS, "search-range-ms", 0, "Override speech.search_range_ms")
	return cmd
}
