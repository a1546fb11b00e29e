package srtops

import (
	"fmt"
	"sort"

	"cuesmith/internal/srt"
)

// CreditOptions places a translator credit cue. When AtMS is non-negative
// the cue goes at that exact time; otherwise the first gap near the start of
// the timeline that fits the cue plus safety gaps is used.
type CreditOptions struct {
	Text           string
	DurationMS     int
	MinGapMS       int
	SearchWindowMS int
	AtMS           int
}

// DefaultCreditOptions look for a slot in the first five minutes.
func DefaultCreditOptions() CreditOptions {
	return CreditOptions{DurationMS: 3000, MinGapMS: 83, SearchWindowMS: 300000, AtMS: -1}
}

// InsertCredit adds the credit cue and returns the renumbered timeline.
func InsertCredit(cues []srt.Cue, opts CreditOptions) ([]srt.Cue, error) {
	startMS, err := creditSlot(cues, opts)
	if err != nil {
		return nil, err
	}
	credit := srt.Cue{StartMS: startMS, EndMS: startMS + opts.DurationMS, Text: opts.Text}

	out := make([]srt.Cue, 0, len(cues)+1)
	out = append(out, cues...)
	out = append(out, credit)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartMS < out[j].StartMS })
	return Renumber(out), nil
}

func creditSlot(cues []srt.Cue, opts CreditOptions) (int, error) {
	needed := opts.DurationMS + 2*opts.MinGapMS

	if opts.AtMS >= 0 {
		end := opts.AtMS + opts.DurationMS
		for _, cue := range cues {
			if opts.AtMS < cue.EndMS+opts.MinGapMS && end > cue.StartMS-opts.MinGapMS {
				return 0, fmt.Errorf("credit at %dms would collide with cue %d", opts.AtMS, cue.Index)
			}
		}
		return opts.AtMS, nil
	}

	if len(cues) == 0 {
		return 0, nil
	}
	if cues[0].StartMS >= needed {
		return opts.MinGapMS, nil
	}
	for i := 1; i < len(cues); i++ {
		gapStart := cues[i-1].EndMS
		if gapStart > opts.SearchWindowMS {
			break
		}
		if cues[i].StartMS-gapStart >= needed {
			return gapStart + opts.MinGapMS, nil
		}
	}
	return 0, fmt.Errorf("no gap of %dms found in the first %dms", needed, opts.SearchWindowMS)
}
