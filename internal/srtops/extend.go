package srtops

import (
	"cuesmith/internal/speech"
	"cuesmith/internal/srt"
)

// ExtendOptions controls end-time extension. A cue is extended until its
// reading speed drops to TargetCPS, never into the following cue's safety
// gap and never by more than MaxExtensionMS.
type ExtendOptions struct {
	TargetCPS      float64
	MinGapMS       int
	MaxExtensionMS int
}

// DefaultExtendOptions aim for a comfortable reading speed.
func DefaultExtendOptions() ExtendOptions {
	return ExtendOptions{TargetCPS: 15, MinGapMS: 83, MaxExtensionMS: 2000}
}

// ExtendEndTimes lengthens cues that read too fast. Returns the adjusted
// timeline and how many cues were extended.
func ExtendEndTimes(cues []srt.Cue, opts ExtendOptions) ([]srt.Cue, int) {
	out := make([]srt.Cue, len(cues))
	copy(out, cues)
	extended := 0
	for i := range out {
		cue := &out[i]
		if cue.DurationMS() <= 0 || cue.CPS() <= opts.TargetCPS {
			continue
		}
		idealMS := int(float64(cue.CharCount()) / opts.TargetCPS * 1000)
		newEnd := cue.StartMS + idealMS
		if most := cue.EndMS + opts.MaxExtensionMS; newEnd > most {
			newEnd = most
		}
		if i+1 < len(out) {
			if limit := out[i+1].StartMS - opts.MinGapMS; newEnd > limit {
				newEnd = limit
			}
		}
		if newEnd > cue.EndMS {
			cue.EndMS = newEnd
			extended++
		}
	}
	return out, extended
}

// ExtendToSpeech pushes cue end times out to the detected end of the speech
// they cover, so subtitles do not vanish while the voice is still audible.
// Only forward moves are made, bounded by the search range and the next
// cue's safety gap.
func ExtendToSpeech(cues []srt.Cue, speechEnds []int, searchRangeMS, minGapMS int) ([]srt.Cue, int) {
	out := make([]srt.Cue, len(cues))
	copy(out, cues)
	extended := 0
	for i := range out {
		cue := &out[i]
		nearest, ok := speech.Nearest(speechEnds, cue.EndMS, searchRangeMS)
		if !ok || nearest <= cue.EndMS {
			continue
		}
		newEnd := nearest
		if i+1 < len(out) {
			if limit := out[i+1].StartMS - minGapMS; newEnd > limit {
				newEnd = limit
			}
		}
		if newEnd > cue.EndMS {
			cue.EndMS = newEnd
			extended++
		}
	}
	return out, extended
}
