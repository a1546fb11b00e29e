package match

import (
	"cuesmith/internal/merge"
	"cuesmith/internal/srt"
)

// Options carries the matcher tolerances. ToleranceMS bounds proximity
// searches; ProvenanceToleranceMS bounds start-time key lookups against the
// merge report and draft mapping.
type Options struct {
	ToleranceMS           int
	ProvenanceToleranceMS int
}

// DefaultOptions mirror the pipeline defaults: generous proximity, tight
// provenance keys.
func DefaultOptions() Options {
	return Options{ToleranceMS: 500, ProvenanceToleranceMS: 50}
}

// Match resolves every target cue to zero or more source cues, keyed by the
// target cue's index. Merge provenance and draft mapping may each be nil;
// tiers degrade gracefully to pure proximity.
func Match(target, source []srt.Cue, merges []merge.Provenance, draft []DraftEntry, opts Options) map[int][]srt.Cue {
	m := matcher{source: source, merges: merges, draft: draft, opts: opts}
	result := make(map[int][]srt.Cue, len(target))
	for _, cue := range target {
		result[cue.Index] = m.resolve(cue)
	}
	return result
}

type matcher struct {
	source []srt.Cue
	merges []merge.Provenance
	draft  []DraftEntry
	opts   Options
}

func (m matcher) resolve(cue srt.Cue) []srt.Cue {
	if windows, ok := m.mergeWindows(cue.StartMS); ok {
		var matched []srt.Cue
		seen := make(map[int]bool)
		for _, window := range windows {
			cues := m.draftLookup(window.StartMS)
			if len(cues) == 0 {
				cues = m.withinRange(window.StartMS-m.opts.ToleranceMS, window.EndMS+m.opts.ToleranceMS)
			}
			for _, c := range cues {
				if !seen[c.Index] {
					seen[c.Index] = true
					matched = append(matched, c)
				}
			}
		}
		if len(matched) > 0 {
			return matched
		}
		return m.nearestWithinTolerance(cue.StartMS)
	}

	if cues := m.draftLookup(cue.StartMS); len(cues) > 0 {
		return cues
	}

	return m.proximity(cue)
}

// mergeWindows finds the provenance entry whose output start matches the
// cue's start within the provenance tolerance.
func (m matcher) mergeWindows(startMS int) ([]merge.Timecode, bool) {
	for _, entry := range m.merges {
		if abs(startMS-entry.OutputStartMS) <= m.opts.ProvenanceToleranceMS {
			return entry.SourceTimecodes, true
		}
	}
	return nil, false
}

// draftLookup resolves a start time through the draft mapping: the entry is
// keyed within the provenance tolerance, and its recorded source range is
// expanded by the proximity tolerance.
func (m matcher) draftLookup(startMS int) []srt.Cue {
	for _, entry := range m.draft {
		if entry.ENStartMS == nil {
			continue
		}
		if abs(startMS-entry.NLStartMS) <= m.opts.ProvenanceToleranceMS {
			return m.withinRange(*entry.ENStartMS-m.opts.ToleranceMS, *entry.ENEndMS+m.opts.ToleranceMS)
		}
	}
	return nil
}

func (m matcher) proximity(cue srt.Cue) []srt.Cue {
	matched := m.withinRange(cue.StartMS-m.opts.ToleranceMS, cue.EndMS+m.opts.ToleranceMS)
	if len(matched) > 0 {
		return matched
	}
	return m.nearestWithinTolerance(cue.StartMS)
}

func (m matcher) withinRange(lowMS, highMS int) []srt.Cue {
	var matched []srt.Cue
	for _, c := range m.source {
		if c.StartMS >= lowMS && c.StartMS <= highMS {
			matched = append(matched, c)
		}
	}
	return matched
}

func (m matcher) nearestWithinTolerance(startMS int) []srt.Cue {
	best, ok := nearestByStart(m.source, startMS)
	if !ok || abs(best.StartMS-startMS) > m.opts.ToleranceMS {
		return nil
	}
	return []srt.Cue{best}
}
