package srtops

import (
	"fmt"

	"cuesmith/internal/srt"
)

// Renumber returns a copy of the timeline with indices made sequential
// starting at 1.
func Renumber(cues []srt.Cue) []srt.Cue {
	out := make([]srt.Cue, len(cues))
	copy(out, cues)
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

// Concat joins batches that were translated separately back into one
// timeline. Batches must already be in timeline order; an overlap between
// the end of one batch and the start of the next is an error, not something
// to silently reorder.
func Concat(batches ...[]srt.Cue) ([]srt.Cue, error) {
	var out []srt.Cue
	for i, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		if len(out) > 0 && batch[0].StartMS < out[len(out)-1].EndMS {
			return nil, fmt.Errorf("batch %d starts at %dms, before the previous batch ends at %dms",
				i+1, batch[0].StartMS, out[len(out)-1].EndMS)
		}
		out = append(out, batch...)
	}
	return Renumber(out), nil
}

// Extract returns the cues whose indices appear in the selection, in
// timeline order, keeping their original indices for later patch-in.
func Extract(cues []srt.Cue, indices []int) []srt.Cue {
	wanted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		wanted[idx] = true
	}
	var out []srt.Cue
	for _, cue := range cues {
		if wanted[cue.Index] {
			out = append(out, cue)
		}
	}
	return out
}

// PatchIn replaces cues in the base timeline with retranslated versions
// carrying the same index. Replacements whose index does not exist in the
// base are reported as an error rather than appended.
func PatchIn(base, replacements []srt.Cue) ([]srt.Cue, error) {
	byIndex := make(map[int]srt.Cue, len(replacements))
	for _, r := range replacements {
		byIndex[r.Index] = r
	}
	out := make([]srt.Cue, len(base))
	copy(out, base)
	for i := range out {
		if r, ok := byIndex[out[i].Index]; ok {
			out[i] = r
			delete(byIndex, out[i].Index)
		}
	}
	if len(byIndex) > 0 {
		for idx := range byIndex {
			return nil, fmt.Errorf("replacement cue %d has no counterpart in the base timeline", idx)
		}
	}
	return out, nil
}
