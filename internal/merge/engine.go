package merge

import (
	"cuesmith/internal/srt"
)

// Options carries the merge thresholds. All values are explicit; there are
// no package-level tunables.
type Options struct {
	GapThresholdMS int
	MaxDurationMS  int
	MaxLines       int
	MaxChars       int
}

// Timecode records one source cue's original boundary inside a provenance
// entry.
type Timecode struct {
	StartMS int `json:"start_ms"`
	EndMS   int `json:"end_ms"`
}

// Provenance records a single fusion: which source cues went in and what
// came out. Singleton windows produce no entry.
type Provenance struct {
	OutputIndex        int        `json:"output_index"`
	OutputStartMS      int        `json:"output_start_ms"`
	OutputEndMS        int        `json:"output_end_ms"`
	SourceIndices      []int      `json:"source_indices"`
	SourceTimecodes    []Timecode `json:"source_timecodes"`
	SourceCount        int        `json:"source_count"`
	GapMS              int        `json:"gap_ms"`
	CombinedDurationMS int        `json:"combined_duration_ms"`
	Text               string     `json:"text"`
}

// Merge runs the greedy single-pass fusion over cues and returns the new
// timeline plus one provenance entry per fusion performed. Output cues are
// renumbered from 1; input cues are never mutated.
func Merge(cues []srt.Cue, opts Options) ([]srt.Cue, []Provenance) {
	if len(cues) == 0 {
		return nil, nil
	}

	var merged []srt.Cue
	var report []Provenance
	newIndex := 1

	i := 0
	for i < len(cues) {
		first := cues[i]
		_, fusedText := DetectMarker(first.Text)
		candidates := []srt.Cue{first}

		for j := i + 1; j < len(cues); j++ {
			next := cues[j]
			prev := candidates[len(candidates)-1]

			if next.StartMS-prev.EndMS > opts.GapThresholdMS {
				break
			}
			// Duration is anchored to the window's first start while the gap
			// check above is purely local. Intentional; do not symmetrize.
			if next.EndMS-candidates[0].StartMS > opts.MaxDurationMS {
				break
			}

			marker, nextText := DetectMarker(next.Text)
			if marker == MarkerNoMerge {
				break
			}
			speakerChange := marker == MarkerSpeakerChange
			if speakerChange && len(candidates) > 1 {
				// Dual-speaker layout holds exactly two parties.
				break
			}

			fused, ok := fuseText(fusedText, nextText, opts.MaxChars, opts.MaxLines, speakerChange)
			if !ok {
				break
			}

			fusedText = fused
			candidates = append(candidates, next)
		}

		if len(candidates) == 1 {
			merged = append(merged, srt.Cue{
				Index:   newIndex,
				StartMS: first.StartMS,
				EndMS:   first.EndMS,
				Text:    fusedText,
			})
		} else {
			last := candidates[len(candidates)-1]
			out := srt.Cue{
				Index:   newIndex,
				StartMS: first.StartMS,
				EndMS:   last.EndMS,
				Text:    fusedText,
			}
			merged = append(merged, out)

			entry := Provenance{
				OutputIndex:        newIndex,
				OutputStartMS:      out.StartMS,
				OutputEndMS:        out.EndMS,
				SourceCount:        len(candidates),
				GapMS:              candidates[1].StartMS - candidates[0].EndMS,
				CombinedDurationMS: out.DurationMS(),
				Text:               fusedText,
			}
			for _, c := range candidates {
				entry.SourceIndices = append(entry.SourceIndices, c.Index)
				entry.SourceTimecodes = append(entry.SourceTimecodes, Timecode{StartMS: c.StartMS, EndMS: c.EndMS})
			}
			report = append(report, entry)
		}

		newIndex++
		i += len(candidates)
	}

	return merged, report
}
