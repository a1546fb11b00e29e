package timingqc

import (
	"cuesmith/internal/speech"
	"cuesmith/internal/srt"
)

// Result carries one cue's measured timing against the speech timeline.
// Delta fields are nil when no transition sat within the search range;
// source fields are nil when the matcher found no corresponding cue.
type Result struct {
	CueIndex int
	StartMS  int
	EndMS    int
	Text     string

	// StartDeltaMS is nearest speech start minus cue start; EndDeltaMS is
	// nearest speech end minus cue end.
	StartDeltaMS *int
	EndDeltaMS   *int

	SourceStartMS *int
	SourceEndMS   *int
	SourceIndices []int
}

// Analyze measures a cue against the speech transition lists and folds in
// the matched source cues' combined boundary.
func Analyze(cue srt.Cue, matches []srt.Cue, speechStarts, speechEnds []int, searchRangeMS int) Result {
	r := Result{
		CueIndex: cue.Index,
		StartMS:  cue.StartMS,
		EndMS:    cue.EndMS,
		Text:     cue.Text,
	}

	if nearest, ok := speech.Nearest(speechStarts, cue.StartMS, searchRangeMS); ok {
		delta := nearest - cue.StartMS
		r.StartDeltaMS = &delta
	}
	if nearest, ok := speech.Nearest(speechEnds, cue.EndMS, searchRangeMS); ok {
		delta := nearest - cue.EndMS
		r.EndDeltaMS = &delta
	}

	if len(matches) > 0 {
		start := matches[0].StartMS
		end := matches[0].EndMS
		for _, m := range matches {
			if m.StartMS < start {
				start = m.StartMS
			}
			if m.EndMS > end {
				end = m.EndMS
			}
			r.SourceIndices = append(r.SourceIndices, m.Index)
		}
		r.SourceStartMS = &start
		r.SourceEndMS = &end
	}
	return r
}
